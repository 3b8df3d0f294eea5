package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

var validTableRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite reads rows positionally from a table holding an issue export.
// Columns are taken in table definition order.
type SQLite struct {
	Path  string
	Table string
}

// NewSQLite validates the table name before any query is built from it.
func NewSQLite(path, table string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite source needs a database path")
	}
	if !validTableRe.MatchString(table) {
		return nil, fmt.Errorf("invalid sqlite table name %q", table)
	}
	return &SQLite{Path: path, Table: table}, nil
}

func (s *SQLite) Name() string { return s.Path + "#" + s.Table }

func (s *SQLite) Rows(ctx context.Context) ([][]string, error) {
	// sql.Open would create a missing database file.
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer db.Close()

	rs, err := db.QueryContext(ctx, "SELECT * FROM "+s.Table+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Name(), err)
	}
	defer rs.Close()

	cols, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", s.Name(), err)
	}

	var rows [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rs.Next() {
		if err := rs.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Name(), err)
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = cellString(v)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Name(), err)
	}
	return rows, nil
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

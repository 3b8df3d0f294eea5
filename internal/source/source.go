// Package source reads issue export tables from files, URLs and SQLite databases.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Source yields the rows of an issue table, header included when present.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
	Name() string
}

// Options tunes sources created by Open.
type Options struct {
	HTTPTimeout time.Duration
}

// DefaultTable is the SQLite table read when none is given.
const DefaultTable = "issues"

// Open picks a source from spec: http(s) URLs, sqlite://path?table=name or a
// .db/.sqlite/.sqlite3 file, anything else is a CSV file path.
func Open(spec string, opts Options) (Source, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("no source given: set --source or the source config key")
	}

	switch {
	case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
		return &HTTP{URL: spec, Timeout: opts.HTTPTimeout}, nil
	case strings.HasPrefix(spec, "sqlite://"):
		u, err := url.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("parse sqlite source: %w", err)
		}
		path := u.Host + u.Path
		table := u.Query().Get("table")
		if table == "" {
			table = DefaultTable
		}
		return NewSQLite(path, table)
	}

	switch strings.ToLower(filepath.Ext(spec)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLite(spec, DefaultTable)
	}
	return &CSVFile{Path: spec}, nil
}

// LocalPath returns the file a source reads, or "" for remote sources.
func LocalPath(s Source) string {
	switch t := s.(type) {
	case *CSVFile:
		return t.Path
	case *SQLite:
		return t.Path
	}
	return ""
}

// ParseCSV reads all records from r. Rows may have differing lengths.
func ParseCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

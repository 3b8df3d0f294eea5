package model

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DefaultHeaderLabel is the id cell of a header row.
const DefaultHeaderLabel = "#"

// DefaultDateLayouts are tried in order when parsing start and due dates.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Decoder turns positional export rows into issues.
type Decoder struct {
	Columns        ColumnMap // nil means DefaultColumns
	Extra          ColumnMap // extra columns copied into Issue.Extra by name
	DateLayouts    []string  // nil means DefaultDateLayouts
	HeaderLabel    string    // "" means DefaultHeaderLabel
	StrictPriority bool      // fail on priorities outside the vocabulary
	Logger         *slog.Logger
}

func (d Decoder) columns() ColumnMap {
	if d.Columns == nil {
		return DefaultColumns
	}
	return d.Columns
}

func (d Decoder) headerLabel() string {
	if d.HeaderLabel == "" {
		return DefaultHeaderLabel
	}
	return d.HeaderLabel
}

func (d Decoder) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// IsHeader reports whether row is a column header row.
func (d Decoder) IsHeader(row []string) bool {
	return d.columns().cell(row, FieldID) == d.headerLabel()
}

// DecodeRecord builds an issue from one row. Unknown priorities are kept
// verbatim; they only fail here when StrictPriority is set.
func (d Decoder) DecodeRecord(row []string) (*Issue, error) {
	cols := d.columns()
	issue := &Issue{
		ID:               cols.cell(row, FieldID),
		Type:             cols.cell(row, FieldType),
		ParentID:         StripParentMarker(cols.cell(row, FieldParentID)),
		Status:           cols.cell(row, FieldStatus),
		Subject:          cols.cell(row, FieldSubject),
		Assignee:         cols.cell(row, FieldAssignee),
		Updated:          cols.cell(row, FieldUpdated),
		EstimatedTime:    cols.cell(row, FieldEstimatedTime),
		PercentDone:      cols.cell(row, FieldPercentDone),
		Created:          cols.cell(row, FieldCreated),
		Closed:           cols.cell(row, FieldClosed),
		RawRelatedIssues: cols.cell(row, FieldRelatedIssues),
	}

	p, err := ParsePriority(cols.cell(row, FieldPriority))
	if err != nil && d.StrictPriority {
		return nil, fmt.Errorf("issue %s: %w", issue.ID, err)
	}
	issue.Priority = p

	if issue.StartDate, err = d.parseDate(cols.cell(row, FieldStartDate)); err != nil {
		return nil, fmt.Errorf("issue %s: start date: %w", issue.ID, err)
	}
	if issue.DueDate, err = d.parseDate(cols.cell(row, FieldDueDate)); err != nil {
		return nil, fmt.Errorf("issue %s: due date: %w", issue.ID, err)
	}

	if len(d.Extra) > 0 {
		issue.Extra = make(map[string]any, len(d.Extra))
		for _, name := range d.Extra.Fields() {
			issue.Extra[name] = d.Extra.cell(row, name)
		}
	}

	if err := issue.Validate(); err != nil {
		return nil, err
	}
	return issue, nil
}

// DecodeTable decodes every data row of a table into a map keyed by issue ID.
// Header rows and blank rows are skipped.
func (d Decoder) DecodeTable(rows [][]string) (map[string]*Issue, error) {
	issues := make(map[string]*Issue, len(rows))
	seenAt := make(map[string]int, len(rows))
	unknown := make(map[Priority]bool)

	for i, row := range rows {
		rowNum := i + 1
		if isBlank(row) || d.IsHeader(row) {
			continue
		}
		issue, err := d.DecodeRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if prev, dup := seenAt[issue.ID]; dup {
			return nil, fmt.Errorf("row %d: %w %s (first seen at row %d)", rowNum, ErrDuplicateID, issue.ID, prev)
		}
		if !issue.Priority.Known() && !unknown[issue.Priority] {
			unknown[issue.Priority] = true
			d.logger().Warn("unknown priority, ranking below Low", "priority", string(issue.Priority), "issue", issue.ID)
		}
		seenAt[issue.ID] = rowNum
		issues[issue.ID] = issue
	}

	d.logger().Debug("decoded table", "rows", len(rows), "issues", len(issues))
	return issues, nil
}

// StripParentMarker removes one leading non-digit marker (as in "#12") from
// a parent reference.
func StripParentMarker(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsDigit(r) {
		s = strings.TrimSpace(s[size:])
	}
	return s
}

var errBadDate = errors.New("unrecognized date")

func (d Decoder) parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	layouts := d.DateLayouts
	if layouts == nil {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", errBadDate, s)
}

func trimCell(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}

func isBlank(row []string) bool {
	for _, c := range row {
		if trimCell(c) != "" {
			return false
		}
	}
	return true
}

package model

import (
	"fmt"
	"sort"
	"strings"
)

// Field names used as ColumnMap keys.
const (
	FieldID            = "id"
	FieldType          = "type"
	FieldParentID      = "parentId"
	FieldStatus        = "status"
	FieldPriority      = "priority"
	FieldSubject       = "subject"
	FieldAssignee      = "assignee"
	FieldUpdated       = "updated"
	FieldStartDate     = "startDate"
	FieldDueDate       = "dueDate"
	FieldEstimatedTime = "estimatedTime"
	FieldPercentDone   = "percentDone"
	FieldCreated       = "created"
	FieldClosed        = "closed"
	FieldRelatedIssues = "relatedIssues"
)

// ColumnMap maps a field name to its zero-based column in an export row.
type ColumnMap map[string]int

// DefaultColumns is the column layout of a Redmine CSV issue export.
var DefaultColumns = ColumnMap{
	FieldID:            0,
	FieldType:          2,
	FieldParentID:      3,
	FieldStatus:        4,
	FieldPriority:      5,
	FieldSubject:       6,
	FieldAssignee:      8,
	FieldUpdated:       9,
	FieldStartDate:     12,
	FieldDueDate:       13,
	FieldEstimatedTime: 14,
	FieldPercentDone:   15,
	FieldCreated:       16,
	FieldClosed:        17,
	FieldRelatedIssues: 18,
}

var knownFields = map[string]bool{}

func init() {
	for f := range DefaultColumns {
		knownFields[f] = true
	}
}

// IsField reports whether name is a field an Issue decodes.
func IsField(name string) bool {
	return knownFields[name]
}

// CanonicalField matches name against the field names ignoring case.
func CanonicalField(name string) (string, bool) {
	for f := range knownFields {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return name, false
}

// Validate rejects unknown field names and negative indexes. The id column is required.
func (c ColumnMap) Validate() error {
	if _, ok := c[FieldID]; !ok {
		return fmt.Errorf("column map has no %q column", FieldID)
	}
	for _, name := range c.Fields() {
		if !knownFields[name] {
			return fmt.Errorf("unknown column field %q", name)
		}
		if c[name] < 0 {
			return fmt.Errorf("column %q has negative index %d", name, c[name])
		}
	}
	return nil
}

// Fields returns the mapped field names in column order.
func (c ColumnMap) Fields() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if c[names[i]] != c[names[j]] {
			return c[names[i]] < c[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Merge returns a copy of c with the entries of override applied on top.
func (c ColumnMap) Merge(override ColumnMap) ColumnMap {
	out := make(ColumnMap, len(c)+len(override))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// cell returns the trimmed cell for field, or "" when the field is unmapped
// or the row is too short.
func (c ColumnMap) cell(row []string, field string) string {
	idx, ok := c[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return trimCell(row[idx])
}

package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RamXX/redsheet/internal/deepcopy"
)

var (
	ErrUnknownPriority = errors.New("unknown priority")
	ErrDuplicateID     = errors.New("duplicate issue id")
	ErrSelfParent      = errors.New("issue is its own parent")
)

// Priority is the Redmine priority label of an issue.
type Priority string

const (
	PriorityLow       Priority = "Low"
	PriorityNormal    Priority = "Normal"
	PriorityHigh      Priority = "High"
	PriorityUrgent    Priority = "Urgent"
	PriorityImmediate Priority = "Immediate"
)

// UnknownRank is the rank of a priority outside the vocabulary. It sorts below Low.
const UnknownRank = -1

var priorityRanks = map[Priority]int{
	PriorityLow:       0,
	PriorityNormal:    1,
	PriorityHigh:      2,
	PriorityUrgent:    3,
	PriorityImmediate: 4,
}

// ParsePriority canonicalizes s against the priority vocabulary, ignoring
// case and surrounding space. Unknown values are returned unchanged along
// with an error wrapping ErrUnknownPriority.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for p := range priorityRanks {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return Priority(s), fmt.Errorf("%w %q: must be one of Low, Normal, High, Urgent, Immediate", ErrUnknownPriority, s)
}

// Rank returns the sort rank of p, or UnknownRank.
func (p Priority) Rank() int {
	if r, ok := priorityRanks[p]; ok {
		return r
	}
	return UnknownRank
}

// Known reports whether p is in the vocabulary.
func (p Priority) Known() bool {
	_, ok := priorityRanks[p]
	return ok
}

func (p Priority) String() string { return string(p) }

// Issue is one Redmine work item decoded from an export row.
type Issue struct {
	ID               string         `json:"id" yaml:"id"`
	Type             string         `json:"type" yaml:"type"`
	ParentID         string         `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Status           string         `json:"status" yaml:"status"`
	Priority         Priority       `json:"priority" yaml:"priority"`
	Subject          string         `json:"subject" yaml:"subject"`
	Assignee         string         `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Updated          string         `json:"updated,omitempty" yaml:"updated,omitempty"`
	StartDate        time.Time      `json:"start_date" yaml:"start_date"`
	DueDate          time.Time      `json:"due_date" yaml:"due_date"`
	EstimatedTime    string         `json:"estimated_time,omitempty" yaml:"estimated_time,omitempty"`
	PercentDone      string         `json:"percent_done,omitempty" yaml:"percent_done,omitempty"`
	Created          string         `json:"created,omitempty" yaml:"created,omitempty"`
	Closed           string         `json:"closed,omitempty" yaml:"closed,omitempty"`
	RawRelatedIssues string         `json:"related_issues,omitempty" yaml:"related_issues,omitempty"`
	Extra            map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`

	// Set only on projection copies.
	Children  []*Issue `json:"children,omitempty" yaml:"children,omitempty"`
	Synthetic bool     `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

// HasParent reports whether the issue references a parent.
func (i *Issue) HasParent() bool {
	return i.ParentID != ""
}

// Validate checks the invariants a decoded issue must hold.
func (i *Issue) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("issue ID is required")
	}
	if i.ParentID == i.ID {
		return fmt.Errorf("%w: %s", ErrSelfParent, i.ID)
	}
	return nil
}

// Clone returns a copy of the issue that shares no mutable state with it.
// Children are not copied; the clone starts with none.
func (i *Issue) Clone() (*Issue, error) {
	c := *i
	c.Children = nil
	extra, err := deepcopy.CloneMap(i.Extra, deepcopy.DefaultMaxDepth)
	if err != nil {
		return nil, fmt.Errorf("clone issue %s: %w", i.ID, err)
	}
	c.Extra = extra
	return &c, nil
}

// CloneWithChildren returns a clone of the issue whose Children is a freshly
// allocated slice of clones of children, in the given order.
func (i *Issue) CloneWithChildren(children []*Issue) (*Issue, error) {
	c, err := i.Clone()
	if err != nil {
		return nil, err
	}
	c.Children = make([]*Issue, 0, len(children))
	for _, child := range children {
		cc, err := child.Clone()
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, cc)
	}
	return c, nil
}

// Header is the column title row of a projection.
var Header = []string{
	"#",
	"Parent #",
	"Type",
	"Priority",
	"Status",
	"Subject",
	"Assignee",
	"Start date",
	"Due date",
	"Estimated time",
	"Percent done",
}

// Row renders the issue in Header column order. Dates use layout; unset dates are empty.
func (i *Issue) Row(layout string) []string {
	return []string{
		i.ID,
		i.ParentID,
		i.Type,
		string(i.Priority),
		i.Status,
		i.Subject,
		i.Assignee,
		FormatDate(i.StartDate, layout),
		FormatDate(i.DueDate, layout),
		i.EstimatedTime,
		i.PercentDone,
	}
}

// FormatDate formats t with layout, returning "" for the zero time.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

package tree

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/RamXX/redsheet/internal/model"
)

var (
	// ErrDanglingParent means children reference a parent absent from the table.
	ErrDanglingParent = errors.New("dangling parent reference")
	// ErrNestedHierarchy means a child is itself referenced as a parent.
	ErrNestedHierarchy = errors.New("nested hierarchy not supported")
)

// DanglingPolicy decides what Project does with an entry that has children
// but no parent issue.
type DanglingPolicy string

const (
	DanglingSynthesize DanglingPolicy = "synthesize"
	DanglingFail       DanglingPolicy = "fail"
)

// ParseDanglingPolicy validates a policy name. Empty means DanglingSynthesize.
func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	switch DanglingPolicy(s) {
	case "", DanglingSynthesize:
		return DanglingSynthesize, nil
	case DanglingFail:
		return DanglingFail, nil
	}
	return "", fmt.Errorf("invalid dangling policy %q: must be synthesize or fail", s)
}

// DefaultDateLayout renders dates in projected rows.
const DefaultDateLayout = "2006-01-02"

// HeaderRow is the row number of the column header.
const HeaderRow = 1

// ProjectOptions controls Project.
type ProjectOptions struct {
	Dangling   DanglingPolicy
	DateLayout string
	Logger     *slog.Logger
}

func (o ProjectOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Projection is a sorted, flattened tree.
type Projection struct {
	Parents []*model.Issue // sorted; each carries its sorted Children
	Rows    [][]string     // header first
	RowMap  map[string]int // issue ID -> 1-based row number
}

// IsParent reports whether id is a top-level issue of the projection.
func (p *Projection) IsParent(id string) bool {
	for _, parent := range p.Parents {
		if parent.ID == id {
			return true
		}
	}
	return false
}

// Issue finds an issue of the projection by ID.
func (p *Projection) Issue(id string) (*model.Issue, bool) {
	for _, parent := range p.Parents {
		if parent.ID == id {
			return parent, true
		}
		for _, child := range parent.Children {
			if child.ID == id {
				return child, true
			}
		}
	}
	return nil, false
}

// Project sorts parents and children with model.Compare and flattens them
// into rows under model.Header. Either the full projection or an error is
// returned.
func Project(t *Tree, opts ProjectOptions) (*Projection, error) {
	log := opts.logger()
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}

	ids := make([]string, 0, t.Len())
	for id := range t.Entries {
		ids = append(ids, id)
	}
	// Fixed visiting order keeps ties stable across runs.
	sortIDs(ids)

	parents := make([]*model.Issue, 0, len(ids))
	for _, id := range ids {
		entry := t.Entries[id]
		issue := entry.Issue
		if issue == nil {
			var err error
			if issue, err = t.resolveMissing(id, entry, opts.Dangling, log); err != nil {
				return nil, err
			}
		}

		children := sortedChildren(entry.Children)
		parent, err := issue.CloneWithChildren(children)
		if err != nil {
			return nil, err
		}
		parents = append(parents, parent)
	}
	slices.SortStableFunc(parents, model.Compare)

	rows := make([][]string, 0, len(t.issues)+1)
	rows = append(rows, slices.Clone(model.Header))
	for _, parent := range parents {
		rows = append(rows, parent.Row(layout))
		for _, child := range parent.Children {
			rows = append(rows, child.Row(layout))
		}
	}

	log.Debug("projected tree", "parents", len(parents), "rows", len(rows))
	return &Projection{
		Parents: parents,
		Rows:    rows,
		RowMap:  RowMap(parents),
	}, nil
}

// RowMap numbers every parent and child in output order. The header is
// row 1, so the first parent is row 2.
func RowMap(parents []*model.Issue) map[string]int {
	m := make(map[string]int)
	row := HeaderRow + 1
	for _, parent := range parents {
		m[parent.ID] = row
		row++
		for _, child := range parent.Children {
			m[child.ID] = row
			row++
		}
	}
	return m
}

func (t *Tree) resolveMissing(id string, entry *ParentEntry, policy DanglingPolicy, log *slog.Logger) (*model.Issue, error) {
	if known, ok := t.issues[id]; ok && known.HasParent() {
		return nil, fmt.Errorf("%w: issue %s has parent %s and children %v", ErrNestedHierarchy, id, known.ParentID, childIDs(entry))
	}
	if policy == DanglingFail {
		return nil, fmt.Errorf("%w: parent %s of %v not found", ErrDanglingParent, id, childIDs(entry))
	}
	log.Warn("parent not found, using placeholder", "parent", id, "children", childIDs(entry))
	return &model.Issue{
		ID:        id,
		Subject:   fmt.Sprintf("(missing parent #%s)", id),
		Synthetic: true,
	}, nil
}

func sortedChildren(m map[string]*model.Issue) []*model.Issue {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortIDs(ids)
	children := make([]*model.Issue, 0, len(ids))
	for _, id := range ids {
		children = append(children, m[id])
	}
	slices.SortStableFunc(children, model.Compare)
	return children
}

func childIDs(entry *ParentEntry) []string {
	ids := make([]string, 0, len(entry.Children))
	for id := range entry.Children {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []string) {
	slices.SortFunc(ids, model.CompareIDs)
}

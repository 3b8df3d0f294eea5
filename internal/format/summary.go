package format

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/RamXX/redsheet/internal/model"
	"github.com/RamXX/redsheet/internal/tree"
)

// Stats counts the issues of a projection. Synthetic parents are listed in
// Missing and not counted by status or priority.
type Stats struct {
	Parents    int            `json:"parents"`
	Children   int            `json:"children"`
	Rows       int            `json:"rows"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
	Missing    []string       `json:"missing_parents,omitempty"`
}

// ComputeStats summarizes p.
func ComputeStats(p *tree.Projection) Stats {
	st := Stats{
		Parents:    len(p.Parents),
		Rows:       len(p.Rows),
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
	}
	count := func(i *model.Issue) {
		st.ByStatus[orNone(i.Status)]++
		st.ByPriority[orNone(string(i.Priority))]++
	}
	for _, parent := range p.Parents {
		if parent.Synthetic {
			st.Missing = append(st.Missing, parent.ID)
		} else {
			count(parent)
		}
		for _, child := range parent.Children {
			count(child)
			st.Children++
		}
	}
	return st
}

// Summary outputs a markdown overview of a projection: totals, counts per
// status and priority, and the parents that had to be synthesized.
func Summary(w io.Writer, p *tree.Projection) {
	st := ComputeStats(p)

	fmt.Fprintln(w, "# Issue tree summary")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Parents: %d | Children: %d | Rows: %d\n\n", st.Parents, st.Children, st.Rows)

	fmt.Fprintln(w, "## By status")
	for _, status := range slices.Sorted(maps.Keys(st.ByStatus)) {
		fmt.Fprintf(w, "- %s: %d\n", status, st.ByStatus[status])
	}
	fmt.Fprintln(w)

	// Highest priority first; unknown values last.
	fmt.Fprintln(w, "## By priority")
	priorities := slices.SortedFunc(maps.Keys(st.ByPriority), func(a, b string) int {
		ra, rb := model.Priority(a).Rank(), model.Priority(b).Rank()
		if ra != rb {
			return rb - ra
		}
		return strings.Compare(a, b)
	})
	for _, pr := range priorities {
		fmt.Fprintf(w, "- %s: %d\n", pr, st.ByPriority[pr])
	}

	if len(st.Missing) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Missing parents")
		for _, id := range st.Missing {
			fmt.Fprintf(w, "- #%s (row %d)\n", id, p.RowMap[id])
		}
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

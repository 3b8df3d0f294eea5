// Package tree rebuilds the one-level parent/child structure of an issue
// table and projects it into ordered rows.
package tree

import "github.com/RamXX/redsheet/internal/model"

// ParentEntry is a top-level group: a parent issue and its direct children.
// Issue is nil while only children referencing the parent have been seen.
type ParentEntry struct {
	Issue    *model.Issue
	Children map[string]*model.Issue
}

// Tree is the set of parent entries keyed by parent ID.
type Tree struct {
	Entries map[string]*ParentEntry
	issues  map[string]*model.Issue
}

// Build places every issue under its parent entry. Children may come before
// or after their parent; the result does not depend on iteration order.
// The input issues are not modified.
func Build(issues map[string]*model.Issue) *Tree {
	t := &Tree{
		Entries: make(map[string]*ParentEntry),
		issues:  issues,
	}
	for _, issue := range issues {
		t.place(issue)
	}
	return t
}

func (t *Tree) place(issue *model.Issue) {
	if !issue.HasParent() {
		if entry, ok := t.Entries[issue.ID]; ok {
			// Placeholder left by an earlier child.
			entry.Issue = issue
			return
		}
		t.Entries[issue.ID] = &ParentEntry{
			Issue:    issue,
			Children: make(map[string]*model.Issue),
		}
		return
	}

	if entry, ok := t.Entries[issue.ParentID]; ok {
		entry.Children[issue.ID] = issue
		return
	}
	t.Entries[issue.ParentID] = &ParentEntry{
		Children: map[string]*model.Issue{issue.ID: issue},
	}
}

// Dangling returns the IDs of entries whose parent issue never appeared.
func (t *Tree) Dangling() []string {
	var ids []string
	for id, entry := range t.Entries {
		if entry.Issue == nil {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// Len returns the number of parent entries.
func (t *Tree) Len() int { return len(t.Entries) }

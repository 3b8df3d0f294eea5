// Package deepcopy clones loosely typed values (decoded extra columns,
// JSON-shaped documents) with a bound on nesting depth.
package deepcopy

import (
	"errors"
	"fmt"
)

// DefaultMaxDepth is the nesting depth Clone allows.
const DefaultMaxDepth = 20

// ErrRecursionLimit is returned when a value nests deeper than the allowed depth.
var ErrRecursionLimit = errors.New("recursion limit exceeded")

// Clone copies v with DefaultMaxDepth.
func Clone(v any) (any, error) {
	return CloneDepth(v, DefaultMaxDepth)
}

// CloneDepth returns a copy of v that shares no map or slice with it.
// Only map[string]any and []any are walked; map[string]string and []string
// are copied flat. Any other value is copied as is, so pointers are shared.
// The top-level value is depth 0 and every nested non-empty container adds one.
func CloneDepth(v any, maxDepth int) (any, error) {
	return clone(v, maxDepth, 0)
}

// CloneMap is CloneDepth for the common map case.
func CloneMap(m map[string]any, maxDepth int) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	out, err := CloneDepth(m, maxDepth)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func clone(v any, maxDepth, depth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: reached max recursion depth: %d", ErrRecursionLimit, maxDepth)
	}

	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t, nil
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			c, err := cloneMember(val, maxDepth, depth)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		if t == nil {
			return t, nil
		}
		out := make([]any, len(t))
		for i, val := range t {
			c, err := cloneMember(val, maxDepth, depth)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]string:
		if t == nil {
			return t, nil
		}
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, nil
	case []string:
		if t == nil {
			return t, nil
		}
		return append([]string(nil), t...), nil
	default:
		return v, nil
	}
}

// cloneMember copies a value held inside a container at depth. Scalars are
// assigned directly; only non-empty containers descend a level.
func cloneMember(v any, maxDepth, depth int) (any, error) {
	switch {
	case isEmptyContainer(v):
		return emptyLike(v), nil
	case isContainer(v):
		return clone(v, maxDepth, depth+1)
	default:
		return v, nil
	}
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any, map[string]string, []string:
		return true
	}
	return false
}

// isEmptyContainer reports whether v is a map or slice with no members.
// Such values are leaves: they are replaced without descending.
func isEmptyContainer(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case map[string]string:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

// emptyLike returns a fresh empty container of v's type, keeping nil as nil.
func emptyLike(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t
		}
		return map[string]any{}
	case []any:
		if t == nil {
			return t
		}
		return []any{}
	case map[string]string:
		if t == nil {
			return t
		}
		return map[string]string{}
	case []string:
		if t == nil {
			return t
		}
		return []string{}
	}
	return v
}

package model

import (
	"strconv"
	"strings"
	"time"
)

// Compare orders issues by start date, then due date, then priority rank,
// all ascending. Unset dates sort after set ones. It returns -1, 0 or 1.
func Compare(a, b *Issue) int {
	if c := compareDates(a.StartDate, b.StartDate); c != 0 {
		return c
	}
	if c := compareDates(a.DueDate, b.DueDate); c != 0 {
		return c
	}
	ar, br := a.Priority.Rank(), b.Priority.Rank()
	switch {
	case ar < br:
		return -1
	case ar > br:
		return 1
	}
	return 0
}

func compareDates(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return a.Compare(b)
}

// CompareIDs orders issue IDs numerically when both are integers and
// lexically otherwise. Numeric IDs sort before non-numeric ones. Distinct
// spellings of one number, such as "01" and "1", fall back to lexical order.
func CompareIDs(a, b string) int {
	an, aerr := strconv.ParseInt(a, 10, 64)
	bn, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return strings.Compare(a, b)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

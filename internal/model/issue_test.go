package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// exportRow builds a 19-column export row with the given cells set.
func exportRow(cells map[int]string) []string {
	row := make([]string, 19)
	for i, v := range cells {
		row[i] = v
	}
	return row
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  Priority
		err   bool
	}{
		{"Low", PriorityLow, false},
		{"normal", PriorityNormal, false},
		{"  HIGH ", PriorityHigh, false},
		{"Urgent", PriorityUrgent, false},
		{"Immediate", PriorityImmediate, false},
		{"Whenever", "Whenever", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.input)
		if tt.err && !errors.Is(err, ErrUnknownPriority) {
			t.Errorf("ParsePriority(%q) error = %v, want ErrUnknownPriority", tt.input, err)
		}
		if !tt.err && err != nil {
			t.Errorf("ParsePriority(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent, PriorityImmediate}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s rank %d should be below %s rank %d", order[i-1], order[i-1].Rank(), order[i], order[i].Rank())
		}
	}
	if got := Priority("Someday").Rank(); got != UnknownRank {
		t.Errorf("unknown rank = %d, want %d", got, UnknownRank)
	}
	if UnknownRank >= PriorityLow.Rank() {
		t.Error("unknown priorities should rank below Low")
	}
}

func TestStripParentMarker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"#123", "123"},
		{"123", "123"},
		{"", ""},
		{"#", ""},
		{"  #7 ", "7"},
		{"x42", "42"},
	}
	for _, tt := range tests {
		if got := StripParentMarker(tt.input); got != tt.want {
			t.Errorf("StripParentMarker(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDecodeRecord(t *testing.T) {
	row := exportRow(map[int]string{
		0: "1", 2: "TYPE", 3: "#123", 4: "STATUS", 5: "High", 6: "SUBJECT",
		8: "ASSIGNEE", 9: "UPDATED", 12: "2017-03-01", 13: "03/15/2017",
		14: "ESTIMATEDTIME", 15: "PERCENTDONE", 16: "CREATED", 17: "CLOSED",
		18: "RAWRELATEDISSUES",
	})

	issue, err := Decoder{}.DecodeRecord(row)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}

	checks := []struct {
		field, got, want string
	}{
		{"id", issue.ID, "1"},
		{"type", issue.Type, "TYPE"},
		{"parentId", issue.ParentID, "123"},
		{"status", issue.Status, "STATUS"},
		{"priority", string(issue.Priority), "High"},
		{"subject", issue.Subject, "SUBJECT"},
		{"assignee", issue.Assignee, "ASSIGNEE"},
		{"updated", issue.Updated, "UPDATED"},
		{"estimatedTime", issue.EstimatedTime, "ESTIMATEDTIME"},
		{"percentDone", issue.PercentDone, "PERCENTDONE"},
		{"created", issue.Created, "CREATED"},
		{"closed", issue.Closed, "CLOSED"},
		{"relatedIssues", issue.RawRelatedIssues, "RAWRELATEDISSUES"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if want := time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC); !issue.StartDate.Equal(want) {
		t.Errorf("startDate = %v, want %v", issue.StartDate, want)
	}
	if want := time.Date(2017, 3, 15, 0, 0, 0, 0, time.UTC); !issue.DueDate.Equal(want) {
		t.Errorf("dueDate = %v, want %v", issue.DueDate, want)
	}
	if !issue.HasParent() {
		t.Error("issue with parent #123 should have a parent")
	}
}

func TestDecodeRecordShortRow(t *testing.T) {
	issue, err := Decoder{}.DecodeRecord([]string{"9", "", "Bug"})
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if issue.ID != "9" || issue.Type != "Bug" || issue.Subject != "" {
		t.Errorf("short row decoded as %+v", issue)
	}
	if issue.HasParent() {
		t.Error("short row should be parentless")
	}
}

func TestDecodeRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		dec  Decoder
		row  []string
		want string
	}{
		{"bad date", Decoder{}, exportRow(map[int]string{0: "1", 12: "soon"}), "start date"},
		{"bad due date", Decoder{}, exportRow(map[int]string{0: "1", 13: "later"}), "due date"},
		{"self parent", Decoder{}, exportRow(map[int]string{0: "4", 3: "#4"}), "own parent"},
		{"missing id", Decoder{}, exportRow(map[int]string{6: "orphan"}), "ID is required"},
		{"strict priority", Decoder{StrictPriority: true}, exportRow(map[int]string{0: "1", 5: "Meh"}), "unknown priority"},
	}
	for _, tt := range tests {
		_, err := tt.dec.DecodeRecord(tt.row)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q should mention %q", tt.name, err, tt.want)
		}
	}
}

func TestHasParent(t *testing.T) {
	i := &Issue{ID: "1", ParentID: "123"}
	if !i.HasParent() {
		t.Error("HasParent() = false, want true")
	}
	i.ParentID = ""
	if i.HasParent() {
		t.Error("HasParent() = true for empty parent, want false")
	}
}

func TestDecodeTableSkipsHeader(t *testing.T) {
	header := exportRow(map[int]string{0: "#", 2: "Tracker", 3: "Parent task", 6: "Subject"})
	rows := [][]string{
		header,
		exportRow(map[int]string{0: "1", 6: "one"}),
		exportRow(map[int]string{0: "2", 6: "two"}),
		{"", "  ", ""},
	}
	issues, err := Decoder{}.DecodeTable(rows)
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("len(issues) = %d, want 2", len(issues))
	}
	if _, ok := issues["#"]; ok {
		t.Error("header row decoded as an issue")
	}

	issues, err = Decoder{}.DecodeTable(rows[1:3])
	if err != nil {
		t.Fatalf("DecodeTable without header: %v", err)
	}
	if len(issues) != 2 {
		t.Errorf("len(issues) = %d, want 2", len(issues))
	}
}

func TestDecodeTableDuplicateID(t *testing.T) {
	rows := [][]string{
		exportRow(map[int]string{0: "1"}),
		exportRow(map[int]string{0: "1"}),
	}
	_, err := Decoder{}.DecodeTable(rows)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("error = %v, want ErrDuplicateID", err)
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error %q should name row 2", err)
	}
}

func TestDecodeTableCustomColumns(t *testing.T) {
	dec := Decoder{
		Columns:     ColumnMap{FieldID: 0, FieldParentID: 1, FieldSubject: 2},
		Extra:       ColumnMap{"author": 3},
		HeaderLabel: "Issue",
	}
	rows := [][]string{
		{"Issue", "Parent", "Subject", "Author"},
		{"10", "", "root", "ann"},
		{"11", "#10", "leaf", "bob"},
	}
	issues, err := dec.DecodeTable(rows)
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("len(issues) = %d, want 2", len(issues))
	}
	if issues["11"].ParentID != "10" {
		t.Errorf("parent = %q, want 10", issues["11"].ParentID)
	}
	if issues["10"].Extra["author"] != "ann" {
		t.Errorf("extra author = %v, want ann", issues["10"].Extra["author"])
	}
}

func TestColumnMapValidate(t *testing.T) {
	if err := DefaultColumns.Validate(); err != nil {
		t.Errorf("default columns invalid: %v", err)
	}
	if err := (ColumnMap{FieldSubject: 1}).Validate(); err == nil {
		t.Error("expected error for missing id column")
	}
	if err := (ColumnMap{FieldID: 0, "tracker": 2}).Validate(); err == nil {
		t.Error("expected error for unknown field")
	}
	if err := (ColumnMap{FieldID: -1}).Validate(); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestCloneIndependent(t *testing.T) {
	orig := &Issue{
		ID:    "1",
		Extra: map[string]any{"meta": map[string]any{"k": "v"}},
	}
	child := &Issue{ID: "2", ParentID: "1"}

	c, err := orig.CloneWithChildren([]*Issue{child})
	if err != nil {
		t.Fatalf("CloneWithChildren: %v", err)
	}
	if len(c.Children) != 1 || c.Children[0].ID != "2" {
		t.Fatalf("children = %v", c.Children)
	}
	if c.Children[0] == child {
		t.Error("child should be copied, not shared")
	}
	if orig.Children != nil {
		t.Error("original issue gained children")
	}

	c.Subject = "changed"
	c.Extra["meta"].(map[string]any)["k"] = "changed"
	if orig.Subject != "" {
		t.Error("subject change leaked into original")
	}
	if orig.Extra["meta"].(map[string]any)["k"] != "v" {
		t.Error("extra change leaked into original")
	}
}

func TestRow(t *testing.T) {
	i := &Issue{
		ID: "1", ParentID: "123", Type: "TYPE", Priority: "PRIORITY", Status: "STATUS",
		Subject: "SUBJECT", Assignee: "ASSIGNEE",
		StartDate:     time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC),
		EstimatedTime: "ESTIMATEDTIME", PercentDone: "PERCENTDONE",
	}
	want := []string{"1", "123", "TYPE", "PRIORITY", "STATUS", "SUBJECT", "ASSIGNEE", "2017-03-01", "", "ESTIMATEDTIME", "PERCENTDONE"}
	got := i.Row("2006-01-02")
	if len(got) != len(Header) {
		t.Fatalf("row has %d columns, header has %d", len(got), len(Header))
	}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Errorf("column %s = %q, want %q", Header[idx], got[idx], want[idx])
		}
	}
}

package test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RamXX/redsheet/internal/config"
	"github.com/RamXX/redsheet/internal/format"
	"github.com/RamXX/redsheet/internal/model"
	"github.com/RamXX/redsheet/internal/source"
	"github.com/RamXX/redsheet/internal/tree"
)

// Full pipeline: config -> source -> decode -> build -> project -> outputs.
// No mocks. Real files, a real SQLite database and a real HTTP server.

const export = `#,Project,Tracker,Parent task,Status,Priority,Subject,Author,Assignee,Updated,Category,Target version,Start date,Due date,Estimated time,% Done,Created,Closed,Related issues
4,web,Task,#2,New,Normal,Email,ann,bob,,,,2024-01-06,,2,0,,,
1,web,Feature,,New,High,Login,ann,bob,,,,2024-01-01,2024-01-31,,10,,,"Blocks Feature #2"
3,web,Task,#1,In Progress,Normal,Form,ann,cat,,,,2024-01-02,,,50,,,
2,web,Feature,,New,Normal,Signup,ann,,,,,2024-01-05,,,0,,,
`

var wantIDs = []string{"#", "1", "3", "2", "4"}

var wantRowMap = map[string]int{"1": 2, "3": 3, "2": 4, "4": 5}

func TestCSVWorkflow(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "issues.csv")
	if err := os.WriteFile(csvPath, []byte(export), 0o644); err != nil {
		t.Fatal(err)
	}

	// 1. Init config.
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := config.Init(cfgPath, csvPath); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := config.Load(config.Find(dir))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 2. Read the source named by the config.
	src, err := source.Open(cfg.Source, source.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}

	// 3. Project.
	p, err := tree.FromTable(rows, cfg.Decoder(), cfg.ProjectOptions())
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	checkProjection(t, p)

	// 4. Outputs agree with the projection.
	var rm bytes.Buffer
	format.RowMap(&rm, p)
	if got, want := rm.String(), "1\t2\n3\t3\n2\t4\n4\t5\n"; got != want {
		t.Errorf("RowMap = %q, want %q", got, want)
	}
	styles := format.RowStyles(p)
	for _, s := range styles[1:] {
		if want := p.IsParent(s.ID); (s.Kind == format.KindParent) != want {
			t.Errorf("row %d (#%s) kind = %s, parent = %v", s.Row, s.ID, s.Kind, want)
		}
	}
	login, _ := p.Issue("1")
	if login.RawRelatedIssues != "Blocks Feature #2" {
		t.Errorf("related issues = %q", login.RawRelatedIssues)
	}
}

func TestSQLiteWorkflow(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "redmine.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE export (id INTEGER, project TEXT, tracker TEXT, parent TEXT, status TEXT, priority TEXT, subject TEXT, start_date TEXT)`); err != nil {
		t.Fatal(err)
	}
	for _, r := range [][]any{
		{4, "web", "Task", "#2", "New", "Normal", "Email", "2024-01-06"},
		{1, "web", "Feature", nil, "New", "High", "Login", "2024-01-01"},
		{3, "web", "Task", "#1", "In Progress", "Normal", "Form", "2024-01-02"},
		{2, "web", "Feature", nil, "New", "Normal", "Signup", "2024-01-05"},
	} {
		if _, err := db.Exec(`INSERT INTO export VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, r...); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// Table columns differ from a CSV export: remap the start date.
	cfg := config.Default()
	cfg.Columns = model.DefaultColumns.Merge(model.ColumnMap{model.FieldStartDate: 7})

	src, err := source.Open("sqlite://"+dbPath+"?table=export", source.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	p, err := tree.FromTable(rows, cfg.Decoder(), cfg.ProjectOptions())
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	checkProjection(t, p)
}

func TestHTTPWorkflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(export))
	}))
	defer srv.Close()

	src, err := source.Open(srv.URL+"/issues.csv", source.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rows, err := src.Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	p, err := tree.FromTable(rows, model.Decoder{}, tree.ProjectOptions{})
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	checkProjection(t, p)
}

func TestStrictWorkflowErrors(t *testing.T) {
	bad := strings.Replace(export, "New,High,Login", "New,Whenever,Login", 1)
	rows, err := source.ParseCSV(strings.NewReader(bad))
	if err != nil {
		t.Fatal(err)
	}

	// Lenient: unknown priority ranks below Low but the table still projects.
	if _, err := tree.FromTable(rows, model.Decoder{}, tree.ProjectOptions{}); err != nil {
		t.Fatalf("lenient FromTable: %v", err)
	}

	_, err = tree.FromTable(rows, model.Decoder{StrictPriority: true}, tree.ProjectOptions{})
	if !errors.Is(err, model.ErrUnknownPriority) {
		t.Errorf("strict FromTable error = %v, want ErrUnknownPriority", err)
	}

	orphan := export + "5,web,Task,#99,New,Low,Orphan,,,,,,2024-03-01,,,,,,\n"
	rows, err = source.ParseCSV(strings.NewReader(orphan))
	if err != nil {
		t.Fatal(err)
	}
	_, err = tree.FromTable(rows, model.Decoder{}, tree.ProjectOptions{Dangling: tree.DanglingFail})
	if !errors.Is(err, tree.ErrDanglingParent) {
		t.Errorf("FromTable error = %v, want ErrDanglingParent", err)
	}
}

func checkProjection(t *testing.T, p *tree.Projection) {
	t.Helper()
	var ids []string
	for _, row := range p.Rows {
		ids = append(ids, row[0])
	}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantRowMap, p.RowMap); diff != "" {
		t.Errorf("row map mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Header, p.Rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

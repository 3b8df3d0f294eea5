// Package format writes projections in the output formats of the CLI.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/RamXX/redsheet/internal/model"
	"github.com/RamXX/redsheet/internal/tree"
	"github.com/RamXX/redsheet/internal/ui"
)

// maxSubject truncates long subjects in the terminal table only.
const maxSubject = 60

const subjectCol = 5

// Table renders the projection as a terminal table styled like the sheet:
// a gray centered header, shaded parent rows with a top rule, plain children.
func Table(w io.Writer, p *tree.Projection) {
	if len(p.Rows) <= 1 {
		fmt.Fprintln(w, "No issues found.")
		return
	}

	kinds := rowKinds(p)
	data := make([][]string, 0, len(p.Rows)-1)
	for _, row := range p.Rows[1:] {
		cells := make([]string, len(row))
		copy(cells, row)
		cells[subjectCol] = truncate(cells[subjectCol], maxSubject)
		data = append(data, cells)
	}

	border := lipgloss.ASCIIBorder()
	if ui.ShouldUseColor() {
		border = lipgloss.NormalBorder()
	}
	rule := lipgloss.Border{Top: border.Top}

	t := table.New().
		Border(border).
		BorderStyle(ui.BorderStyle).
		BorderRow(false).
		Headers(p.Rows[0]...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return ui.HeaderCellStyle
			}
			switch kinds[row] {
			case kindSynthetic:
				return ui.SyntheticCellStyle.Border(rule, true, false, false, false)
			case KindParent:
				return ui.ParentCellStyle.Border(rule, true, false, false, false)
			default:
				return ui.ChildCellStyle
			}
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "\n%d parent(s), %d issue(s)\n", len(p.Parents), len(p.Rows)-1)
}

const kindSynthetic = "synthetic"

// rowKinds classifies the data rows of p, indexed from 0.
func rowKinds(p *tree.Projection) []string {
	kinds := make([]string, 0, len(p.Rows))
	for _, parent := range p.Parents {
		if parent.Synthetic {
			kinds = append(kinds, kindSynthetic)
		} else {
			kinds = append(kinds, KindParent)
		}
		for range parent.Children {
			kinds = append(kinds, KindChild)
		}
	}
	return kinds
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// CSV writes the header and rows of p.
func CSV(w io.Writer, p *tree.Projection) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(p.Rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Document is the JSON and YAML shape of a projection.
type Document struct {
	Rows    [][]string     `json:"rows" yaml:"rows"`
	RowMap  map[string]int `json:"row_map" yaml:"row_map"`
	Parents []*model.Issue `json:"parents" yaml:"parents"`
}

func document(p *tree.Projection) Document {
	return Document{Rows: p.Rows, RowMap: p.RowMap, Parents: p.Parents}
}

// JSON outputs the projection as JSON.
func JSON(w io.Writer, p *tree.Projection) error {
	return writeJSON(w, document(p))
}

// YAML outputs the projection as YAML.
func YAML(w io.Writer, p *tree.Projection) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document(p)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RowMap writes one "id<TAB>row" line per issue in row order.
func RowMap(w io.Writer, p *tree.Projection) {
	for _, row := range p.Rows[1:] {
		fmt.Fprintf(w, "%s\t%d\n", row[0], p.RowMap[row[0]])
	}
}

// RowMapJSON outputs the id to row map as a JSON object.
func RowMapJSON(w io.Writer, p *tree.Projection) error {
	return writeJSON(w, p.RowMap)
}

// IssueDocument is the JSON shape of a single issue lookup.
type IssueDocument struct {
	Issue  *model.Issue `json:"issue"`
	Row    int          `json:"row"`
	Parent bool         `json:"parent"`
}

// IssueJSON outputs one issue with its row number.
func IssueJSON(w io.Writer, issue *model.Issue, row int, parent bool) error {
	return writeJSON(w, IssueDocument{Issue: issue, Row: row, Parent: parent})
}

// Detail renders a single issue with labelled fields. Related issues are
// rendered as markdown.
func Detail(w io.Writer, issue *model.Issue, row int, dateLayout string) {
	if dateLayout == "" {
		dateLayout = tree.DefaultDateLayout
	}

	title := issue.Subject
	if issue.Synthetic {
		title = ui.RenderMuted(title)
	} else {
		title = ui.RenderBold(title)
	}
	// Header: #ID . SUBJECT [PRIORITY . STATUS]
	fmt.Fprintf(w, "#%s %s %s [%s %s %s]\n",
		issue.ID,
		ui.RenderMuted("."),
		title,
		ui.RenderPriority(string(issue.Priority)),
		ui.RenderMuted("."),
		ui.RenderStatus(issue.Status),
	)

	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s %s\n", ui.RenderAccent(label+":"), value)
		}
	}
	field("Row", fmt.Sprint(row))
	field("Type", issue.Type)
	if issue.HasParent() {
		field("Parent", "#"+issue.ParentID)
	}
	field("Assignee", issue.Assignee)
	field("Start date", model.FormatDate(issue.StartDate, dateLayout))
	field("Due date", model.FormatDate(issue.DueDate, dateLayout))
	field("Estimated time", issue.EstimatedTime)
	field("Percent done", issue.PercentDone)
	field("Created", issue.Created)
	field("Updated", issue.Updated)
	field("Closed", issue.Closed)
	for _, name := range sortedKeys(issue.Extra) {
		field(name, fmt.Sprint(issue.Extra[name]))
	}

	if len(issue.Children) > 0 {
		fmt.Fprintf(w, "\n%s\n", ui.RenderAccent("Children:"))
		for _, child := range issue.Children {
			fmt.Fprintf(w, "  #%s [%s] %s\n", child.ID, ui.RenderStatus(child.Status), child.Subject)
		}
	}

	if related := ui.RelatedIssuesMarkdown(issue.RawRelatedIssues); related != "" {
		fmt.Fprintf(w, "\n%s\n", ui.RenderAccent("Related issues:"))
		fmt.Fprint(w, ui.RenderMarkdown(related))
	}
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

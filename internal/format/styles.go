package format

import (
	"io"

	"github.com/RamXX/redsheet/internal/tree"
	"github.com/RamXX/redsheet/internal/ui"
)

// Row kinds of a style plan.
const (
	KindHeader = "header"
	KindParent = "parent"
	KindChild  = "child"
	KindPlain  = "plain"
)

const childBackground = "#ffffff"

// RowStyle is the formatting a spreadsheet host applies to one whole row.
type RowStyle struct {
	Row        int    `json:"row"`
	ID         string `json:"id,omitempty"`
	Kind       string `json:"kind"`
	Background string `json:"background"`
	Bold       bool   `json:"bold"`
	BorderTop  bool   `json:"border_top"`
	Align      string `json:"align"`
	VAlign     string `json:"valign"`
	Wrap       bool   `json:"wrap"`
}

// RowStyles returns the style plan for p in row order: a bold gray header,
// then every issue centered and wrapped, parents shaded with a top border.
func RowStyles(p *tree.Projection) []RowStyle {
	styles := make([]RowStyle, 0, len(p.Rows))
	styles = append(styles, RowStyle{
		Row:        tree.HeaderRow,
		Kind:       KindHeader,
		Background: ui.HeaderBackground,
		Bold:       true,
		Align:      "center",
		VAlign:     "middle",
		Wrap:       true,
	})
	for _, parent := range p.Parents {
		styles = append(styles, RowStyle{
			Row:        p.RowMap[parent.ID],
			ID:         parent.ID,
			Kind:       KindParent,
			Background: ui.ParentBackground,
			BorderTop:  true,
			Align:      "center",
			VAlign:     "middle",
			Wrap:       true,
		})
		for _, child := range parent.Children {
			styles = append(styles, RowStyle{
				Row:        p.RowMap[child.ID],
				ID:         child.ID,
				Kind:       KindChild,
				Background: childBackground,
				Align:      "center",
				VAlign:     "middle",
				Wrap:       true,
			})
		}
	}
	return styles
}

// ClearStyles returns a plan that resets every row of p to default formatting.
func ClearStyles(p *tree.Projection) []RowStyle {
	styles := make([]RowStyle, 0, len(p.Rows))
	for i := range p.Rows {
		styles = append(styles, RowStyle{
			Row:        i + tree.HeaderRow,
			Kind:       KindPlain,
			Background: childBackground,
			Align:      "left",
			VAlign:     "bottom",
		})
	}
	return styles
}

// StylesJSON outputs a style plan as JSON.
func StylesJSON(w io.Writer, styles []RowStyle) error {
	return writeJSON(w, styles)
}

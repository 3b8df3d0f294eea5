package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// maxReadableWidth caps markdown wrapping on wide terminals.
const maxReadableWidth = 100

// RenderMarkdown renders markdown with glamour, wrapping at the terminal
// width. The input is returned as is when color is off or rendering fails.
func RenderMarkdown(markdown string) string {
	if !ShouldUseColor() {
		return markdown
	}
	return renderMarkdown(markdown, min(Width(), maxReadableWidth))
}

func renderMarkdown(markdown string, wrapWidth int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}

// RelatedIssuesMarkdown turns a Redmine "Related issues" cell, such as
// "Related to Feature #12, Blocks Bug #7", into a markdown bullet list.
func RelatedIssuesMarkdown(raw string) string {
	var b strings.Builder
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(part)
		b.WriteByte('\n')
	}
	return b.String()
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RamXX/redsheet/internal/format"
)

var childrenCmd = &cobra.Command{
	Use:   "children <id>",
	Short: "List child issues of a parent with their rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")

		p, err := project(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if !p.IsParent(id) {
			return fmt.Errorf("issue %s is not a parent", id)
		}
		parent, _ := p.Issue(id)

		if jsonOut {
			docs := make([]format.IssueDocument, 0, len(parent.Children))
			for _, child := range parent.Children {
				docs = append(docs, format.IssueDocument{Issue: child, Row: p.RowMap[child.ID]})
			}
			return writeJSON(cmd, docs)
		}
		for _, child := range parent.Children {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t#%s\t%s\t%s\n", p.RowMap[child.ID], child.ID, child.Status, child.Subject)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(childrenCmd)
}

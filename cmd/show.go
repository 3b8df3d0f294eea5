package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RamXX/redsheet/internal/format"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show issue detail and its row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")

		p, err := project(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		issue, ok := p.Issue(id)
		if !ok {
			return fmt.Errorf("issue %s not found", id)
		}

		row := p.RowMap[id]
		if jsonOut {
			return format.IssueJSON(cmd.OutOrStdout(), issue, row, p.IsParent(id))
		}
		format.Detail(cmd.OutOrStdout(), issue, row, cfg.DisplayDateLayout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

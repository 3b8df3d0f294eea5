package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RamXX/redsheet/internal/format"
)

var rowmapCmd = &cobra.Command{
	Use:   "rowmap",
	Short: "Print the row number of every issue",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if jsonOut {
			return format.RowMapJSON(cmd.OutOrStdout(), p)
		}
		format.RowMap(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rowmapCmd)
}

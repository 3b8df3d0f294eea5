package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RamXX/redsheet/internal/format"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counts per status and priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if jsonOut {
			return writeJSON(cmd, format.ComputeStats(p))
		}
		format.Summary(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

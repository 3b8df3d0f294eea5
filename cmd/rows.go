package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RamXX/redsheet/internal/format"
	"github.com/RamXX/redsheet/internal/tree"
)

var rowsCmd = &cobra.Command{
	Use:     "rows",
	Aliases: []string{"tasks", "list"},
	Short:   "Print the sorted parent/child rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("format")
		dangling, _ := cmd.Flags().GetString("dangling")

		c := cfg
		if cmd.Flags().Changed("dangling") {
			if _, err := tree.ParseDanglingPolicy(dangling); err != nil {
				return err
			}
			c.Dangling = dangling
		}
		if !cmd.Flags().Changed("format") {
			outFormat = c.Format
		}
		if jsonOut {
			outFormat = "json"
		}

		p, err := project(cmd.Context(), c)
		if err != nil {
			return err
		}
		return writeRows(cmd, p, outFormat)
	},
}

func writeRows(cmd *cobra.Command, p *tree.Projection, outFormat string) error {
	w := cmd.OutOrStdout()
	switch outFormat {
	case "", "table":
		format.Table(w, p)
		return nil
	case "csv":
		return format.CSV(w, p)
	case "json":
		return format.JSON(w, p)
	case "yaml":
		return format.YAML(w, p)
	}
	return fmt.Errorf("invalid --format %q: must be table, csv, json or yaml", outFormat)
}

func init() {
	rowsCmd.Flags().StringP("format", "f", "table", "output format: table, csv, json, yaml")
	rowsCmd.Flags().String("dangling", "synthesize", "missing parents: synthesize a placeholder or fail")
	rootCmd.AddCommand(rowsCmd)
}

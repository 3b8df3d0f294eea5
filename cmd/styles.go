package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RamXX/redsheet/internal/format"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "Print the spreadsheet style plan as JSON",
	Long: "Print the formatting a spreadsheet applies to each row: a bold gray header,\n" +
		"shaded parent rows with a top border and plain child rows. --clear prints a\n" +
		"plan that resets every row instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reset, _ := cmd.Flags().GetBool("clear")

		p, err := project(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if reset {
			return format.StylesJSON(cmd.OutOrStdout(), format.ClearStyles(p))
		}
		return format.StylesJSON(cmd.OutOrStdout(), format.RowStyles(p))
	},
}

func init() {
	stylesCmd.Flags().Bool("clear", false, "reset formatting of every row")
	rootCmd.AddCommand(stylesCmd)
}

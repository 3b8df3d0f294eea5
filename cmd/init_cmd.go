package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RamXX/redsheet/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.FileName,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			path = filepath.Join(dir, config.FileName)
		}

		c, err := config.Init(path, sourceSpec)
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized redsheet config at %s\n", c.Path())
			if c.Source == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Set the issue table with: redsheet config set source <path-or-url>")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

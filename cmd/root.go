package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RamXX/redsheet/internal/config"
	"github.com/RamXX/redsheet/internal/source"
	"github.com/RamXX/redsheet/internal/tree"
)

var (
	configPath string
	sourceSpec string
	jsonOut    bool
	verbose    bool
	quiet      bool
)

// cfg is loaded before every command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "redsheet",
	Short: "Sort a Redmine issue export into parent/child sheet rows",
	Long: "redsheet -- turns a flat Redmine issue export into a sorted two-level\n" +
		"parent/child table, with the row number of every issue and a style plan\n" +
		"for the spreadsheet that displays it.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == initCmd {
			slog.SetDefault(configureLogger(logLevel(config.Default())))
			return nil
		}
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		slog.SetDefault(configureLogger(logLevel(c)))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errorf("%s", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: "+config.FileName+" found from the working directory up)")
	rootCmd.PersistentFlags().StringVar(&sourceSpec, "source", "", "issue table: CSV path, http(s) URL, SQLite file or sqlite://path?table=name")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-essential output")
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		dir, err := os.Getwd()
		if err != nil {
			return config.Config{}, err
		}
		path = config.Find(dir)
	}
	return config.Load(path)
}

// relativeToConfig resolves a relative file source against the directory of
// the config file that names it.
func relativeToConfig(spec, cfgPath string) string {
	if spec == "" || cfgPath == "" || filepath.IsAbs(spec) || strings.Contains(spec, "://") {
		return spec
	}
	return filepath.Join(filepath.Dir(cfgPath), spec)
}

func logLevel(c config.Config) string {
	switch {
	case verbose:
		return "debug"
	case quiet:
		return "error"
	}
	return c.LogLevel
}

func configureLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openSource opens --source if given, else the source named by c.
func openSource(c config.Config) (source.Source, error) {
	spec := sourceSpec
	if spec == "" {
		spec = relativeToConfig(c.Source, c.Path())
	}
	return source.Open(spec, source.Options{HTTPTimeout: c.HTTPTimeout})
}

// project reads the configured source and runs the full pipeline on it.
func project(ctx context.Context, c config.Config) (*tree.Projection, error) {
	src, err := openSource(c)
	if err != nil {
		return nil, err
	}
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("read source", "source", src.Name(), "rows", len(rows))

	p, err := tree.FromTable(rows, c.Decoder(), c.ProjectOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return p, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "redsheet: "+format+"\n", args...)
}

// Package config loads and edits the .redsheet.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/RamXX/redsheet/internal/model"
	"github.com/RamXX/redsheet/internal/tree"
)

// FileName is the config file looked up from the working directory upward.
const FileName = ".redsheet.yaml"

// EnvPrefix prefixes environment overrides, e.g. REDSHEET_SOURCE.
const EnvPrefix = "REDSHEET"

var validFormats = map[string]bool{"table": true, "csv": true, "json": true, "yaml": true}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var errNoFile = errors.New("no config file; run redsheet init first")

var extraNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Config holds redsheet settings.
type Config struct {
	Source            string          `yaml:"source" mapstructure:"source"`
	Format            string          `yaml:"format" mapstructure:"format"`
	HeaderLabel       string          `yaml:"header_label" mapstructure:"header_label"`
	DateLayouts       []string        `yaml:"date_layouts" mapstructure:"date_layouts"`
	DisplayDateLayout string          `yaml:"display_date_layout" mapstructure:"display_date_layout"`
	Dangling          string          `yaml:"dangling" mapstructure:"dangling"`
	StrictPriority    bool            `yaml:"strict_priority" mapstructure:"strict_priority"`
	LogLevel          string          `yaml:"log_level" mapstructure:"log_level"`
	HTTPTimeout       time.Duration   `yaml:"http_timeout" mapstructure:"http_timeout"`
	Columns           model.ColumnMap `yaml:"columns" mapstructure:"columns"`
	ExtraColumns      model.ColumnMap `yaml:"extra_columns,omitempty" mapstructure:"extra_columns"`

	path string
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Format:            "table",
		HeaderLabel:       model.DefaultHeaderLabel,
		DateLayouts:       append([]string(nil), model.DefaultDateLayouts...),
		DisplayDateLayout: tree.DefaultDateLayout,
		Dangling:          string(tree.DanglingSynthesize),
		LogLevel:          "info",
		HTTPTimeout:       30 * time.Second,
		Columns:           model.DefaultColumns.Merge(nil),
	}
}

// Find walks up from dir looking for FileName. It returns "" when none exists.
func Find(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads path (if non-empty) on top of the defaults and applies
// REDSHEET_* environment overrides, including REDSHEET_COLUMNS_<FIELD> and
// REDSHEET_EXTRA_COLUMNS_<NAME>.
func Load(path string) (Config, error) {
	return load(path, true)
}

// loadFile reads path on top of the defaults only. Set edits this view so
// environment overrides never reach the file.
func loadFile(path string) (Config, error) {
	return load(path, false)
}

func load(path string, env bool) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
	}

	v.SetDefault("source", def.Source)
	v.SetDefault("format", def.Format)
	v.SetDefault("header_label", def.HeaderLabel)
	v.SetDefault("date_layouts", def.DateLayouts)
	v.SetDefault("display_date_layout", def.DisplayDateLayout)
	v.SetDefault("dangling", def.Dangling)
	v.SetDefault("strict_priority", def.StrictPriority)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("http_timeout", def.HTTPTimeout)
	// AutomaticEnv only sees keys viper knows about.
	for field, idx := range def.Columns {
		v.SetDefault("columns."+field, idx)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	// Keys come back lower-cased; column overrides are partial and keep
	// the default index of unspecified fields.
	cols := make(model.ColumnMap, len(cfg.Columns))
	for name, idx := range cfg.Columns {
		field, _ := model.CanonicalField(name)
		cols[field] = idx
	}
	cfg.Columns = def.Columns.Merge(cols)
	if env {
		extra, err := extraColumnsFromEnv(os.Environ())
		if err != nil {
			return Config{}, err
		}
		if len(extra) > 0 {
			cfg.ExtraColumns = cfg.ExtraColumns.Merge(extra)
		}
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// extraColumnsFromEnv collects REDSHEET_EXTRA_COLUMNS_<NAME>=<index>
// entries. Extra column names are free-form, so they cannot be bound as
// viper defaults.
func extraColumnsFromEnv(environ []string) (model.ColumnMap, error) {
	prefix := EnvPrefix + "_EXTRA_COLUMNS_"
	var out model.ColumnMap
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		name, found := strings.CutPrefix(key, prefix)
		if !found || name == "" {
			continue
		}
		idx, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid column index %q", key, value)
		}
		if out == nil {
			out = make(model.ColumnMap)
		}
		out[strings.ToLower(name)] = idx
	}
	return out, nil
}

// Init writes a default config file at path. It fails if the file exists.
func Init(path, source string) (Config, error) {
	if _, err := os.Stat(path); err == nil {
		return Config{}, fmt.Errorf("config already exists at %s", path)
	}
	cfg := Default()
	cfg.Source = source
	cfg.path = path
	if err := cfg.Save(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, if any.
func (c Config) Path() string { return c.path }

// Save writes the config back to its file.
func (c Config) Save() error {
	if c.path == "" {
		return errNoFile
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(c.path, data, 0o644)
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format %q: must be table, csv, json or yaml", c.Format)
	}
	if _, err := tree.ParseDanglingPolicy(c.Dangling); err != nil {
		return err
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", c.LogLevel)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative")
	}
	if err := c.Columns.Validate(); err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	for name, idx := range c.ExtraColumns {
		if !extraNameRe.MatchString(name) {
			return fmt.Errorf("invalid extra column name %q: must be lowercase alphanumeric/underscore", name)
		}
		if idx < 0 {
			return fmt.Errorf("extra column %q has negative index %d", name, idx)
		}
	}
	return nil
}

// Decoder returns a model.Decoder configured from c.
func (c Config) Decoder() model.Decoder {
	return model.Decoder{
		Columns:        c.Columns,
		Extra:          c.ExtraColumns,
		DateLayouts:    c.DateLayouts,
		HeaderLabel:    c.HeaderLabel,
		StrictPriority: c.StrictPriority,
	}
}

// ProjectOptions returns tree.ProjectOptions configured from c.
func (c Config) ProjectOptions() tree.ProjectOptions {
	policy, _ := tree.ParseDanglingPolicy(c.Dangling)
	return tree.ProjectOptions{
		Dangling:   policy,
		DateLayout: c.DisplayDateLayout,
	}
}

// Set changes a setting by dot-notation key, validates the result and saves
// it. Only the file contents plus the one key are written; environment
// overrides in effect for c stay out of the file. On success c is reloaded.
func (c *Config) Set(key, value string) error {
	if c.path == "" {
		return errNoFile
	}
	next, err := loadFile(c.path)
	if err != nil {
		return err
	}
	if next.ExtraColumns == nil {
		next.ExtraColumns = make(model.ColumnMap)
	}

	switch {
	case key == "source":
		next.Source = value
	case key == "format":
		next.Format = strings.ToLower(value)
	case key == "header_label":
		next.HeaderLabel = value
	case key == "date_layouts":
		next.DateLayouts = splitCSV(value)
	case key == "display_date_layout":
		next.DisplayDateLayout = value
	case key == "dangling":
		next.Dangling = strings.ToLower(value)
	case key == "strict_priority":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value %q for strict_priority", value)
		}
		next.StrictPriority = b
	case key == "log_level":
		next.LogLevel = strings.ToLower(value)
	case key == "http_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q for http_timeout: %w", value, err)
		}
		next.HTTPTimeout = d
	case strings.HasPrefix(key, "columns."):
		field, ok := model.CanonicalField(strings.TrimPrefix(key, "columns."))
		if !ok {
			return fmt.Errorf("unknown column field %q", field)
		}
		idx, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid column index %q: %w", value, err)
		}
		next.Columns[field] = idx
	case strings.HasPrefix(key, "extra_columns."):
		name := strings.TrimPrefix(key, "extra_columns.")
		if value == "" {
			delete(next.ExtraColumns, name)
			break
		}
		idx, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid column index %q: %w", value, err)
		}
		next.ExtraColumns[name] = idx
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	if err := next.Save(); err != nil {
		return err
	}
	reloaded, err := Load(c.path)
	if err != nil {
		return err
	}
	*c = reloaded
	return nil
}

// Get returns a setting by dot-notation key.
func (c Config) Get(key string) (string, error) {
	for _, e := range c.Entries() {
		if e[0] == key {
			return e[1], nil
		}
	}
	if name, found := strings.CutPrefix(key, "columns."); found {
		if field, ok := model.CanonicalField(name); ok && field != name {
			return c.Get("columns." + field)
		}
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Entries returns every setting as key-value pairs for listing.
func (c Config) Entries() [][2]string {
	entries := [][2]string{
		{"source", c.Source},
		{"format", c.Format},
		{"header_label", c.HeaderLabel},
		{"date_layouts", strings.Join(c.DateLayouts, ",")},
		{"display_date_layout", c.DisplayDateLayout},
		{"dangling", c.Dangling},
		{"strict_priority", strconv.FormatBool(c.StrictPriority)},
		{"log_level", c.LogLevel},
		{"http_timeout", c.HTTPTimeout.String()},
	}
	for _, field := range c.Columns.Fields() {
		entries = append(entries, [2]string{"columns." + field, strconv.Itoa(c.Columns[field])})
	}
	names := make([]string, 0, len(c.ExtraColumns))
	for name := range c.ExtraColumns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entries = append(entries, [2]string{"extra_columns." + name, strconv.Itoa(c.ExtraColumns[name])})
	}
	return entries
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

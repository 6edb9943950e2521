package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/normalize"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/parse"
)

// FileName is the workspace config file created by init.
const FileName = "ekstre.yaml"

// EnvPrefix prefixes environment overrides, e.g. EKSTRE_DATABASE_PATH.
const EnvPrefix = "EKSTRE"

// Config represents the top-level ekstre.yaml configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Statement StatementConfig `yaml:"statement" mapstructure:"statement"`
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile"`
	Import    ImportConfig    `yaml:"import" mapstructure:"import"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig locates the SQLite ledger. Relative paths resolve against
// the config file's directory.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StatementConfig tunes line cleaning and field parsing.
type StatementConfig struct {
	DefaultCurrency string        `yaml:"default_currency" mapstructure:"default_currency"`
	Currencies      []string      `yaml:"currencies" mapstructure:"currencies"`
	EchoPrefixes    []string      `yaml:"echo_prefixes" mapstructure:"echo_prefixes"`
	Exclude         ExcludeConfig `yaml:"exclude" mapstructure:"exclude"`
}

// ExcludeConfig lists extra non-content line matchers.
type ExcludeConfig struct {
	UseDefaults      bool     `yaml:"use_defaults" mapstructure:"use_defaults"`
	Literals         []string `yaml:"literals,omitempty" mapstructure:"literals"`
	Patterns         []string `yaml:"patterns,omitempty" mapstructure:"patterns"`
	Fuzzy            []string `yaml:"fuzzy,omitempty" mapstructure:"fuzzy"`
	FuzzyMaxDistance int      `yaml:"fuzzy_max_distance" mapstructure:"fuzzy_max_distance"`
}

// ReconcileConfig controls balance checking.
type ReconcileConfig struct {
	Tolerance string `yaml:"tolerance" mapstructure:"tolerance"` // decimal, e.g. "0.01"
}

// ImportConfig controls the import command.
type ImportConfig struct {
	Inbox   string `yaml:"inbox" mapstructure:"inbox"`
	Workers int    `yaml:"workers" mapstructure:"workers"`
	Strict  bool   `yaml:"strict" mapstructure:"strict"` // refuse to load statements with anomalies
}

// LogConfig controls logging output.
type LogConfig struct {
	Level   string `yaml:"level" mapstructure:"level"`
	Console bool   `yaml:"console" mapstructure:"console"`
}

// Load reads an ekstre.yaml file from disk and applies EKSTRE_* overrides.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("statement.default_currency", d.Statement.DefaultCurrency)
	v.SetDefault("statement.currencies", d.Statement.Currencies)
	v.SetDefault("statement.echo_prefixes", d.Statement.EchoPrefixes)
	v.SetDefault("statement.exclude.use_defaults", d.Statement.Exclude.UseDefaults)
	v.SetDefault("statement.exclude.literals", d.Statement.Exclude.Literals)
	v.SetDefault("statement.exclude.patterns", d.Statement.Exclude.Patterns)
	v.SetDefault("statement.exclude.fuzzy", d.Statement.Exclude.Fuzzy)
	v.SetDefault("statement.exclude.fuzzy_max_distance", d.Statement.Exclude.FuzzyMaxDistance)
	v.SetDefault("reconcile.tolerance", d.Reconcile.Tolerance)
	v.SetDefault("import.inbox", d.Import.Inbox)
	v.SetDefault("import.workers", d.Import.Workers)
	v.SetDefault("import.strict", d.Import.Strict)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.console", d.Log.Console)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join("data", "ekstre.db"),
		},
		Statement: StatementConfig{
			DefaultCurrency: model.DefaultCurrency,
			Currencies:      append([]string(nil), normalize.DefaultCurrencies...),
			EchoPrefixes:    append([]string(nil), parse.DefaultEchoPrefixes...),
			Exclude: ExcludeConfig{
				UseDefaults:      true,
				FuzzyMaxDistance: 3,
			},
		},
		Reconcile: ReconcileConfig{
			Tolerance: "0.01",
		},
		Import: ImportConfig{
			Inbox:   "inbox",
			Workers: 4,
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Tolerance parses the reconciliation tolerance.
func (c *Config) Tolerance() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Reconcile.Tolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reconcile.tolerance %q: %w", c.Reconcile.Tolerance, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("reconcile.tolerance %q must not be negative", c.Reconcile.Tolerance)
	}
	return d, nil
}

// Matchers builds the line exclusion list: the built-in set (unless
// disabled) followed by configured literals, patterns and fuzzy texts.
func (c *Config) Matchers() ([]normalize.Matcher, error) {
	ex := c.Statement.Exclude
	ms := []normalize.Matcher{}
	if ex.UseDefaults {
		ms = append(ms, normalize.DefaultMatchers()...)
	}
	for _, l := range ex.Literals {
		ms = append(ms, normalize.Literal(l))
	}
	for _, p := range ex.Patterns {
		re, err := normalize.CompileRegex(p)
		if err != nil {
			return nil, err
		}
		ms = append(ms, re)
	}
	for _, f := range ex.Fuzzy {
		ms = append(ms, normalize.Fuzzy{Text: f, MaxDistance: ex.FuzzyMaxDistance})
	}
	return ms, nil
}

// Resolve makes p absolute relative to dir unless it already is.
func Resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

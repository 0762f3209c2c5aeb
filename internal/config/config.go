// Package config loads fieldmap settings from defaults, an optional YAML file, FIELDMAP_*
// environment variables and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/speakeasy-api/fieldmap/internal/impact"
	"github.com/speakeasy-api/fieldmap/internal/resolve"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/speakeasy-api/openapi/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when a setting is out of range.
const ErrInvalidConfig = errors.Error("invalid configuration")

// EnvPrefix prefixes every environment variable, e.g. FIELDMAP_RESOLVE_MAXDEPTH.
const EnvPrefix = "FIELDMAP"

// Config is the complete set of fieldmap settings.
type Config struct {
	Resolve     ResolveConfig     `mapstructure:"resolve"`
	Stats       StatsConfig       `mapstructure:"stats"`
	Search      SearchConfig      `mapstructure:"search"`
	ForeignKeys ForeignKeysConfig `mapstructure:"foreignKeys"`
	Log         LogConfig         `mapstructure:"log"`
	TUI         TUIConfig         `mapstructure:"tui"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type ResolveConfig struct {
	MaxDepth int `mapstructure:"maxDepth"`
}

type StatsConfig struct {
	TopN int `mapstructure:"topN"`
}

type SearchConfig struct {
	MinScore int `mapstructure:"minScore"`
}

// ForeignKeysConfig tunes the suffix-based foreign-key detector.
type ForeignKeysConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// RequireIDField only accepts a target schema that declares an id field.
	RequireIDField bool `mapstructure:"requireIDField"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type TUIConfig struct {
	StatusTimeout time.Duration `mapstructure:"statusTimeout"`
}

// flagKeys maps command-line flag names to config keys. Flags missing from the set are skipped.
var flagKeys = map[string]string{
	"max-depth":    "resolve.maxDepth",
	"top":          "stats.topN",
	"min-score":    "search.minScore",
	"foreign-keys": "foreignKeys.enabled",
	"log-level":    "log.level",
	"log-file":     "log.file",
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Resolve:     ResolveConfig{MaxDepth: resolve.DefaultMaxDepth},
		Stats:       StatsConfig{TopN: 10},
		Search:      SearchConfig{MinScore: 1},
		ForeignKeys: ForeignKeysConfig{Enabled: true, RequireIDField: true},
		Log:         LogConfig{Level: "info"},
		TUI:         TUIConfig{StatusTimeout: 3 * time.Second},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("resolve.maxDepth", d.Resolve.MaxDepth)
	v.SetDefault("stats.topN", d.Stats.TopN)
	v.SetDefault("search.minScore", d.Search.MinScore)
	v.SetDefault("foreignKeys.enabled", d.ForeignKeys.Enabled)
	v.SetDefault("foreignKeys.requireIDField", d.ForeignKeys.RequireIDField)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tui.statusTimeout", d.TUI.StatusTimeout)
}

// Load reads the configuration. An explicit path must exist; otherwise .fieldmap.yaml is looked
// up in the working directory and then the home directory, and its absence is not an error.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".fieldmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every numeric setting is usable.
func (c *Config) Validate() error {
	switch {
	case c.Resolve.MaxDepth < 1:
		return ErrInvalidConfig.Wrap(fmt.Errorf("resolve.maxDepth must be at least 1, got %d", c.Resolve.MaxDepth))
	case c.Stats.TopN < 1:
		return ErrInvalidConfig.Wrap(fmt.Errorf("stats.topN must be at least 1, got %d", c.Stats.TopN))
	case c.Search.MinScore < 1:
		return ErrInvalidConfig.Wrap(fmt.Errorf("search.minScore must be at least 1, got %d", c.Search.MinScore))
	case c.TUI.StatusTimeout <= 0:
		return ErrInvalidConfig.Wrap(fmt.Errorf("tui.statusTimeout must be positive, got %s", c.TUI.StatusTimeout))
	}
	return nil
}

// Detector returns the configured foreign-key detector, nil when detection is disabled.
func (c *Config) Detector() impact.ForeignKeyDetector {
	if !c.ForeignKeys.Enabled {
		return nil
	}
	return impact.SuffixIDDetector{RequireIDField: c.ForeignKeys.RequireIDField}
}

// SnapshotOptions translates the settings into snapshot build options.
func (c *Config) SnapshotOptions(logger *slog.Logger) []snapshot.Option {
	opts := []snapshot.Option{
		snapshot.WithMaxDepth(c.Resolve.MaxDepth),
		snapshot.WithTopN(c.Stats.TopN),
		snapshot.WithMinScore(c.Search.MinScore),
		snapshot.WithForeignKeyDetector(c.Detector()),
	}
	if logger != nil {
		opts = append(opts, snapshot.WithLogger(logger))
	}
	return opts
}

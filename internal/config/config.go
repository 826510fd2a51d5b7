// Package config loads fromremote settings from fromremote.toml, the
// environment and command-line flags using viper.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"fromremote/internal/analyze"
	"fromremote/internal/gen"
)

// Defaults.
const (
	FileName       = "fromremote.toml"
	EnvPrefix      = "FROMREMOTE"
	DefaultWorkers = 0
	// DefaultDebounceMs is the quiet period before watch regenerates.
	DefaultDebounceMs = 200
)

// Config is the resolved configuration of one run.
type Config struct {
	// Directive is the comment keyword marking annotated declarations.
	Directive string `mapstructure:"directive"`
	// Output is the name of the generated file in each package.
	Output string `mapstructure:"output"`
	// Workers bounds concurrent synthesis. Zero means GOMAXPROCS.
	Workers  int    `mapstructure:"workers"`
	Header   string `mapstructure:"header"`
	Comments bool   `mapstructure:"comments"`

	Log   LogConfig   `mapstructure:"log"`
	Watch WatchConfig `mapstructure:"watch"`
}

// LogConfig configures the logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("directive", analyze.DefaultDirective)
	v.SetDefault("output", gen.DefaultFilename)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("header", gen.DefaultHeader)
	v.SetDefault("comments", true)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")

	v.SetDefault("watch.debounce_ms", DefaultDebounceMs)
}

// New returns a viper instance with defaults and environment binding.
// FROMREMOTE_LOG_LEVEL overrides log.level.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	return v
}

// Load reads configuration into v. An explicit path must exist; otherwise
// fromremote.toml is searched upwards from dir and is optional.
func Load(v *viper.Viper, path, dir string) (*Config, error) {
	if path == "" {
		path = FindFile(dir)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")

		err := v.ReadInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates an already populated instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that have no usable interpretation.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.Newf("workers must not be negative, got %d", c.Workers)
	}

	if c.Watch.DebounceMs < 0 {
		return errors.Newf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMs)
	}

	if strings.TrimSpace(c.Directive) == "" || strings.ContainsAny(c.Directive, " \t:") {
		return errors.WithHint(
			errors.Newf("invalid directive keyword %q", c.Directive),
			"use a single word such as "+analyze.DefaultDirective,
		)
	}

	if filepath.Base(c.Output) != c.Output || !strings.HasSuffix(c.Output, ".go") {
		return errors.Newf("output must be a .go file name without directories, got %q", c.Output)
	}

	return nil
}

// FindFile walks up from dir looking for fromremote.toml. It returns an
// empty string when there is none.
func FindFile(dir string) string {
	if dir == "" {
		var err error

		dir, err = os.Getwd()
		if err != nil {
			return ""
		}
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}

// Package config resolves sqlterm settings from flags, the environment and
// an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bawdo/sqlterm/dispatch"
	"github.com/bawdo/sqlterm/engine"
)

// EnvPrefix prefixes every environment variable, e.g. SQLTERM_ENGINE.
const EnvPrefix = "SQLTERM"

// ErrUnknownEngine is returned for an engine that has no driver.
var ErrUnknownEngine = errors.New("unknown engine")

// Config is the resolved session configuration.
type Config struct {
	Engine             string `mapstructure:"engine"`
	DSN                string `mapstructure:"dsn"`
	Prompt             string `mapstructure:"prompt"`
	ContinuationPrompt string `mapstructure:"continuation_prompt"`
	HistoryFile        string `mapstructure:"history_file"`
	HistoryLimit       int    `mapstructure:"history_limit"`
	RecordFailed       bool   `mapstructure:"record_failed"`
	Timing             bool   `mapstructure:"timing"`
	Seed               bool   `mapstructure:"seed"`
	LogLevel           string `mapstructure:"log_level"`
}

// Default returns the built-in configuration: an in-memory SQLite session.
func Default() Config {
	return Config{
		Engine:       "sqlite",
		DSN:          ":memory:",
		Prompt:       dispatch.DefaultPrompt,
		HistoryFile:  DefaultHistoryPath(),
		HistoryLimit: 500,
		RecordFailed: true,
		LogLevel:     "error",
	}
}

// DefaultHistoryPath returns ~/.sqlterm_history, or "" without a home directory.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlterm_history")
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "path to a YAML config file")
	fs.StringP("engine", "e", d.Engine, "database engine ("+strings.Join(engine.Kinds(), ", ")+")")
	fs.StringP("dsn", "d", "", "data source name (default \":memory:\" for sqlite)")
	fs.String("prompt", d.Prompt, "primary prompt")
	fs.String("continuation-prompt", d.ContinuationPrompt, "prompt shown while a statement is incomplete")
	fs.String("history-file", d.HistoryFile, "history file, empty to disable")
	fs.Int("history-limit", d.HistoryLimit, "number of history entries loaded at startup")
	fs.Bool("record-failed", d.RecordFailed, "record failed commands in history")
	fs.Bool("timing", d.Timing, "print the time each command took")
	fs.Bool("seed", d.Seed, "create and fill the demo table \"test\"")
	fs.String("log-level", d.LogLevel, "log level (trace, debug, info, warn, error)")
}

var flagKeys = map[string]string{
	"engine":              "engine",
	"dsn":                 "dsn",
	"prompt":              "prompt",
	"continuation-prompt": "continuation_prompt",
	"history-file":        "history_file",
	"history-limit":       "history_limit",
	"record-failed":       "record_failed",
	"timing":              "timing",
	"seed":                "seed",
	"log-level":           "log_level",
}

// Load resolves the configuration. Precedence: flags set on the command
// line, SQLTERM_* environment variables (DATABASE_URL also sets dsn), the
// config file, then defaults. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("engine", cfg.Engine)
	v.SetDefault("prompt", cfg.Prompt)
	v.SetDefault("continuation_prompt", cfg.ContinuationPrompt)
	v.SetDefault("history_file", cfg.HistoryFile)
	v.SetDefault("history_limit", cfg.HistoryLimit)
	v.SetDefault("record_failed", cfg.RecordFailed)
	v.SetDefault("timing", cfg.Timing)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("log_level", cfg.LogLevel)
	if err := v.BindEnv("dsn", EnvPrefix+"_DSN", "DATABASE_URL"); err != nil {
		return Config{}, err
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg.DSN = ""
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))
	if cfg.DSN == "" && cfg.Engine == "sqlite" {
		cfg.DSN = Default().DSN
	}
	return cfg, cfg.Validate()
}

// Validate checks the engine and DSN.
func (c Config) Validate() error {
	if !slices.Contains(engine.Kinds(), c.Engine) {
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownEngine, c.Engine, strings.Join(engine.Kinds(), ", "))
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("engine %s needs a dsn", c.Engine)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative")
	}
	return nil
}

package config

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"rulematch/internal/errors"
	"rulematch/internal/grammar"
	"rulematch/internal/ruletext"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Start     uint32            `toml:"start"`
	Workers   int               `toml:"workers"`
	Normalize NormalizeConfig   `toml:"normalize"`
	Log       LogConfig         `toml:"log"`
	Overrides map[string]string `toml:"overrides"`
}

type NormalizeConfig struct {
	SinglePassUnits bool `toml:"single_pass_units"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default is used when no config file is given. Its overrides are the two
// self-referential rules 8 and 11.
func Default() *Config {
	cfg := &Config{Overrides: defaultOverrides()}
	applyDefaults(cfg)
	return cfg
}

func defaultOverrides() map[string]string {
	return map[string]string{
		"8":  "42 | 42 8",
		"11": "42 31 | 42 11 31",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotFound, "read config")
	}
	return Parse(string(data))
}

func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "decode config")
	}

	// Only an explicit, possibly empty, [overrides] table replaces the
	// default overrides.
	if !md.IsDefined("overrides") {
		cfg.Overrides = defaultOverrides()
	}
	applyDefaults(&cfg)

	if err := validateWorkers(&cfg); err != nil {
		return nil, err
	}
	if err := validateLog(&cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.GrammarOverrides(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
}

func validateWorkers(cfg *Config) error {
	if cfg.Workers < 0 {
		return errors.Newf(errors.CodeInvalidConfig, "workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

func validateLog(cfg *Config) error {
	if _, err := cfg.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps log.level onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.Wrap(err, errors.CodeInvalidConfig, "log.level")
	}
	return lvl, nil
}

// GrammarOverrides parses the [overrides] table into grammar overrides.
func (c *Config) GrammarOverrides() (grammar.Overrides, error) {
	out := make(grammar.Overrides, len(c.Overrides))
	for key, body := range c.Overrides {
		id, err := strconv.ParseUint(strings.TrimSpace(key), 10, 32)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "override key "+strconv.Quote(key))
		}
		alts, err := ruletext.ParseBody(body)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "override "+key)
		}
		out[grammar.ID(id)] = alts
	}
	return out, nil
}

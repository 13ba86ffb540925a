package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rmkarlsen/tempus/internal/calendar"
	"github.com/rmkarlsen/tempus/internal/llm"
)

// WorkdayConfig is the YAML shape of the business-hours policy.
type WorkdayConfig struct {
	Start string   `yaml:"start"`
	End   string   `yaml:"end"`
	Days  []string `yaml:"days"`
}

// Config is the application configuration. Values resolve in order:
// defaults, then the YAML config file, then environment variables.
type Config struct {
	DBPath  string        `yaml:"db_path"`
	Workday WorkdayConfig `yaml:"workday"`

	// LLM settings come from the environment only; API keys do not
	// belong in config files.
	LLM llm.Config `yaml:"-"`
}

// DefaultConfig returns the built-in defaults: a database under the user's
// home directory and a Monday–Friday 09:00–17:00 workday.
func DefaultConfig() Config {
	return Config{
		DBPath: defaultDBPath(),
		Workday: WorkdayConfig{
			Start: "09:00",
			End:   "17:00",
			Days:  []string{"mon", "tue", "wed", "thu", "fri"},
		},
		LLM: llm.DefaultConfig(),
	}
}

// Load resolves the full configuration. path may be empty, in which case
// TEMPUS_CONFIG and then ~/.tempus/config.yaml are tried. A missing file is
// not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("TEMPUS_CONFIG")
	}
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".tempus", "config.yaml")
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("reading config file: %w", err)
		case len(bytes.TrimSpace(data)) > 0:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	cfg.LLM = llm.LoadConfig()

	if _, err := cfg.Policy(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Policy parses the workday section into a calendar policy.
func (c Config) Policy() (calendar.Policy, error) {
	return calendar.ParsePolicy(c.Workday.Start, c.Workday.End, c.Workday.Days)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TEMPUS_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TEMPUS_WORKDAY_START"); v != "" {
		cfg.Workday.Start = v
	}
	if v := os.Getenv("TEMPUS_WORKDAY_END"); v != "" {
		cfg.Workday.End = v
	}
	if v := os.Getenv("TEMPUS_WORKDAY_DAYS"); v != "" {
		days := strings.Split(v, ",")
		for i := range days {
			days[i] = strings.TrimSpace(days[i])
		}
		cfg.Workday.Days = days
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tempus.db"
	}
	return filepath.Join(home, ".tempus", "tempus.db")
}

package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPrompt        = "> "
	DefaultHistoryDriver = "sqlite3"
	DefaultHistoryLimit  = 500
	HistoryDisabled      = "none"
)

type Configuration struct {
	Version   string `yaml:"-"`
	BuildDate string `yaml:"-"`
	Commit    string `yaml:"-"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	DebugAST bool   `yaml:"debug_ast"`

	Prompt        string `yaml:"prompt"`
	HistoryDriver string `yaml:"history_driver"`
	HistoryDSN    string `yaml:"history_dsn"`
	HistoryLimit  int    `yaml:"history_limit"`
}

// DefaultConfiguration is used for every field a config file leaves unset.
func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel:      "none",
		Prompt:        DefaultPrompt,
		HistoryDriver: DefaultHistoryDriver,
		HistoryDSN:    defaultHistoryDSN(),
		HistoryLimit:  DefaultHistoryLimit,
	}
}

func defaultHistoryDSN() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lox_history.db")
}

// LoadConfiguration decodes the YAML file at path over base. Unknown keys
// are rejected so a typo does not silently fall back to a default.
func LoadConfiguration(path string, base Configuration) (Configuration, error) {
	file, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg := base
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.HistoryLimit < 0 {
		return base, fmt.Errorf("config: history_limit must not be negative, got %d", cfg.HistoryLimit)
	}
	return cfg, nil
}

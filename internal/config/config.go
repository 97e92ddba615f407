// Package config loads runtime settings from the environment (with
// optional .env support) and an optional YAML settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	Env          string
	DBPath       string
	SettingsPath string
	// ActingUser is the username commands act as when --as is not given.
	ActingUser string
	// DemoPassword is hashed for seeded users whose CSV row carries no
	// clear password.
	DemoPassword string

	DayHours     int
	DefaultView  string
	BcryptRounds int
	CSVEncoding  string
}

// settingsFile mirrors the YAML layout of the settings file.
type settingsFile struct {
	Time struct {
		DayHours int `yaml:"day_hours"`
	} `yaml:"time"`
	UI struct {
		DefaultView string `yaml:"default_view"`
	} `yaml:"ui"`
	Security struct {
		BcryptRounds int `yaml:"bcrypt_rounds"`
	} `yaml:"security"`
	Import struct {
		CSVEncoding string `yaml:"csv_encoding"`
	} `yaml:"import"`
}

// Load resolves settings from a .env file (if present), environment
// variables and the YAML settings file. Environment variables name the
// file locations; the YAML file carries the tunables. Missing files
// fall back to defaults, a malformed YAML file is an error.
func Load() (*Settings, error) {
	// Already-set environment variables win over .env contents.
	_ = godotenv.Load()

	s := &Settings{
		Env:          envOr("COCKPIT_ENV", "local"),
		DBPath:       envOr("COCKPIT_DB", ""),
		SettingsPath: envOr("COCKPIT_SETTINGS", ""),
		ActingUser:   os.Getenv("COCKPIT_USER"),
		DemoPassword: envOr("COCKPIT_DEMO_PASSWORD", "admin123"),
		DayHours:     8,
		DefaultView:  "week",
		BcryptRounds: 12,
		CSVEncoding:  "utf-8",
	}

	if s.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		s.DBPath = filepath.Join(home, ".cockpit", "cockpit.db")
	}

	if err := s.applyYAML(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyYAML() error {
	if s.SettingsPath == "" {
		return nil
	}
	data, err := os.ReadFile(s.SettingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading settings file: %w", err)
	}

	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing settings file %s: %w", s.SettingsPath, err)
	}

	if f.Time.DayHours > 0 {
		s.DayHours = f.Time.DayHours
	}
	if f.UI.DefaultView != "" {
		s.DefaultView = f.UI.DefaultView
	}
	if f.Security.BcryptRounds > 0 {
		s.BcryptRounds = f.Security.BcryptRounds
	}
	if f.Import.CSVEncoding != "" {
		s.CSVEncoding = f.Import.CSVEncoding
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

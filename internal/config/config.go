// Package config loads the passbook.yaml project configuration, with
// optional overrides from a .env file and the process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file name.
const FileName = "passbook.yaml"

// Config represents the top-level passbook.yaml configuration.
type Config struct {
	Account   AccountConfig   `yaml:"account"`
	Statement StatementConfig `yaml:"statement"`
	History   HistoryConfig   `yaml:"history"`
	Database  DatabaseConfig  `yaml:"database,omitempty"`
}

// AccountConfig identifies the simulated account.
type AccountConfig struct {
	Number string `yaml:"number"`
	Holder string `yaml:"holder,omitempty"`
	// OpeningBalance seeds the balance computation. Kept as a string so
	// the YAML round-trips exactly; parse with Opening().
	OpeningBalance string `yaml:"opening_balance"`
	// DepositSource is the account deposits default to coming from.
	DepositSource string `yaml:"deposit_source"`
}

// StatementConfig controls statement page capacities.
type StatementConfig struct {
	FirstPageCapacity int `yaml:"first_page_capacity"`
	OtherPageCapacity int `yaml:"other_page_capacity"`
}

// HistoryConfig controls the dashboard history window.
type HistoryConfig struct {
	WindowDays int `yaml:"window_days"`
	Limit      int `yaml:"limit"`
}

// DatabaseConfig selects PostgreSQL storage when a URL is set; otherwise
// records live in CSV files under the project directory.
type DatabaseConfig struct {
	URL string `yaml:"url,omitempty"`
}

// Opening parses the configured opening balance.
func (a AccountConfig) Opening() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(a.OpeningBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing opening_balance %q: %w", a.OpeningBalance, err)
	}
	return d, nil
}

// Load reads passbook.yaml from dir.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to passbook.yaml in dir.
func Save(dir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(holder string) *Config {
	return &Config{
		Account: AccountConfig{
			Number:         "*** 3982",
			Holder:         holder,
			OpeningBalance: "5299.34",
			DepositSource:  "*** 3321",
		},
		Statement: StatementConfig{
			FirstPageCapacity: 7,
			OtherPageCapacity: 12,
		},
		History: HistoryConfig{
			WindowDays: 30,
			Limit:      100,
		},
	}
}

// ApplyEnv overlays environment overrides onto cfg: a .env file in dir is
// loaded first (missing is fine), then DATABASE_URL from the process
// environment wins over the configured database URL.
func ApplyEnv(dir string, cfg *Config) error {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("loading .env: %w", err)
		}
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	return nil
}

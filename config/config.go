package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/forward415/calendar"
	"github.com/rustyeddy/forward415/counterparty"
	"gopkg.in/yaml.v3"
)

// Config represents the complete engine configuration
type Config struct {
	Engine         EngineConfig         `json:"engine" yaml:"engine"`
	Calendar       CalendarConfig       `json:"calendar" yaml:"calendar"`
	Curve          CurveConfig          `json:"curve" yaml:"curve"`
	Counterparties []CounterpartyConfig `json:"counterparties,omitempty" yaml:"counterparties,omitempty"`
	Journal        JournalConfig        `json:"journal" yaml:"journal"`
}

// EngineConfig holds the regulatory constants of the exposure formula
type EngineConfig struct {
	TermFloor               int     `json:"term_floor" yaml:"term_floor"`
	DefaultConversionFactor float64 `json:"default_conversion_factor" yaml:"default_conversion_factor"`
	CurrencyPair            string  `json:"currency_pair" yaml:"currency_pair"`
}

// CalendarConfig selects the holiday provider and its local adjustments
type CalendarConfig struct {
	Jurisdiction    string   `json:"jurisdiction" yaml:"jurisdiction"`
	ExtraHolidays   []string `json:"extra_holidays,omitempty" yaml:"extra_holidays,omitempty"`     // YYYY-MM-DD
	RemovedHolidays []string `json:"removed_holidays,omitempty" yaml:"removed_holidays,omitempty"` // YYYY-MM-DD
}

// CurveConfig points at the IBR curve. Inline points win over the file.
type CurveConfig struct {
	Path   string          `json:"path,omitempty" yaml:"path,omitempty"` // days;rate, no header
	Points map[int]float64 `json:"points,omitempty" yaml:"points,omitempty"`
}

// CounterpartyConfig is one known counterparty
type CounterpartyConfig struct {
	ID               string  `json:"id" yaml:"id"`
	Name             string  `json:"name,omitempty" yaml:"name,omitempty"`
	ConversionFactor float64 `json:"conversion_factor" yaml:"conversion_factor"`
	CreditLine       float64 `json:"credit_line,omitempty" yaml:"credit_line,omitempty"`
	Cushion          float64 `json:"cushion,omitempty" yaml:"cushion,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type           string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	RunsFile       string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	OperationsFile string `json:"operations_file,omitempty" yaml:"operations_file,omitempty"`
	DBPath         string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Enabled reports whether runs should be journaled.
func (j JournalConfig) Enabled() bool {
	return j.Type != "" && j.Type != "none"
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.TermFloor < 0 {
		return fmt.Errorf("engine.term_floor must not be negative")
	}
	if c.Engine.DefaultConversionFactor <= 0 {
		return fmt.Errorf("engine.default_conversion_factor must be positive")
	}

	if c.Calendar.Jurisdiction == "" {
		return fmt.Errorf("calendar.jurisdiction is required")
	}
	if _, err := calendar.ForJurisdiction(c.Calendar.Jurisdiction); err != nil {
		return fmt.Errorf("calendar.jurisdiction: %w", err)
	}
	if err := validDates("calendar.extra_holidays", c.Calendar.ExtraHolidays); err != nil {
		return err
	}
	if err := validDates("calendar.removed_holidays", c.Calendar.RemovedHolidays); err != nil {
		return err
	}

	for tenor, rate := range c.Curve.Points {
		if tenor < 0 || rate < 0 {
			return fmt.Errorf("curve.points: invalid point %d=%v", tenor, rate)
		}
	}

	seen := make(map[string]bool, len(c.Counterparties))
	for i, cp := range c.Counterparties {
		id := counterparty.NormalizeID(cp.ID)
		if id == "" {
			return fmt.Errorf("counterparties[%d].id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("counterparties[%d]: duplicate id %s", i, id)
		}
		seen[id] = true
		if cp.ConversionFactor < 0 {
			return fmt.Errorf("counterparties[%d].conversion_factor must not be negative", i)
		}
		if cp.CreditLine < 0 {
			return fmt.Errorf("counterparties[%d].credit_line must not be negative", i)
		}
		if cp.Cushion < 0 || cp.Cushion >= 1 {
			return fmt.Errorf("counterparties[%d].cushion must be in [0, 1)", i)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.OperationsFile == "" {
			return fmt.Errorf("journal runs_file and operations_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

func validDates(key string, dates []string) error {
	for _, s := range dates {
		if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%s: bad date %q", key, s)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TermFloor:               calendar.DefaultTermFloor,
			DefaultConversionFactor: 0.12,
			CurrencyPair:            "USD_COP",
		},
		Calendar: CalendarConfig{
			Jurisdiction: "CO",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./forward415.sqlite",
		},
	}
}

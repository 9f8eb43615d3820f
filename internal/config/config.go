// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/molvera/gastobot/internal/domain"
	"github.com/molvera/gastobot/internal/parser"
)

// Config holds all application configuration.
type Config struct {
	// Timezone anchors "today" for relative dates. IANA name.
	Timezone string `yaml:"timezone"`

	// PaymentMethods is the allow-list shared by the parser and the draft
	// lifecycle. Order matters only for display.
	PaymentMethods []string `yaml:"payment_methods"`

	// Keywords maps merchant keywords to merchant/category, checked in
	// order with first match winning.
	Keywords []parser.KeywordRule `yaml:"keywords"`

	// Cards carries the billing rules used for statement attribution.
	Cards []domain.CardBillingRule `yaml:"cards"`

	Draft struct {
		// TTLMinutes is how long an unconfirmed draft survives.
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"draft"`

	FX struct {
		// FallbackRate converts one unit of foreign currency to MXN when
		// no live source answers. Zero disables the fallback.
		FallbackRate     float64 `yaml:"fallback_rate"`
		FallbackProvider string  `yaml:"fallback_provider"`
	} `yaml:"fx"`

	BigQuery struct {
		ProjectID string `yaml:"project_id"`
		Dataset   string `yaml:"dataset"`
		Table     string `yaml:"table"`
	} `yaml:"bigquery"`

	Enrich struct {
		// Model is the Gemini model used for merchant/category suggestions.
		// An empty GEMINI_API_KEY disables enrichment entirely.
		Model  string `yaml:"model"`
		APIKey string `yaml:"api_key"`
	} `yaml:"enrich"`

	Schedule struct {
		// ReportCron fires the monthly payment-due report.
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; overrides and
// defaults still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("GASTOBOT_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("GASTOBOT_DRAFT_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Draft.TTLMinutes = n
		}
	}
	if v := os.Getenv("GASTOBOT_FX_FALLBACK_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FX.FallbackRate = f
		}
	}
	if v := os.Getenv("BIGQUERY_PROJECT_ID"); v != "" {
		cfg.BigQuery.ProjectID = v
	}
	if v := os.Getenv("BIGQUERY_DATASET"); v != "" {
		cfg.BigQuery.Dataset = v
	}
	if v := os.Getenv("BIGQUERY_TABLE"); v != "" {
		cfg.BigQuery.Table = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Enrich.APIKey = v
	}
	if v := os.Getenv("GASTOBOT_REPORT_CRON"); v != "" {
		cfg.Schedule.ReportCron = v
	}

	// Defaults
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Mexico_City"
	}
	if cfg.Draft.TTLMinutes == 0 {
		cfg.Draft.TTLMinutes = 30
	}
	if cfg.FX.FallbackProvider == "" {
		cfg.FX.FallbackProvider = "fixed"
	}
	if cfg.BigQuery.Dataset == "" {
		cfg.BigQuery.Dataset = "gastos"
	}
	if cfg.BigQuery.Table == "" {
		cfg.BigQuery.Table = "expenses"
	}
	if cfg.Enrich.Model == "" {
		cfg.Enrich.Model = "gemini-2.0-flash"
	}
	if cfg.Schedule.ReportCron == "" {
		// First day of the month, 09:00.
		cfg.Schedule.ReportCron = "0 9 1 * *"
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if len(c.PaymentMethods) == 0 {
		return fmt.Errorf("payment_methods must not be empty")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	for _, card := range c.Cards {
		if card.CardName == "" {
			return fmt.Errorf("cards: card_name is required")
		}
		if card.CutDay < 1 || card.CutDay > 31 {
			return fmt.Errorf("cards: %s: cut_day %d out of range 1..31", card.CardName, card.CutDay)
		}
		if card.PayOffsetDays < 0 {
			return fmt.Errorf("cards: %s: pay_offset_days must not be negative", card.CardName)
		}
	}
	if c.FX.FallbackRate < 0 {
		return fmt.Errorf("fx.fallback_rate must not be negative")
	}
	return nil
}

// Location resolves the configured timezone. Call Validate first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("CST", -6*60*60)
	}
	return loc
}

// DraftTTL returns the draft TTL as a duration.
func (c *Config) DraftTTL() time.Duration {
	return time.Duration(c.Draft.TTLMinutes) * time.Minute
}

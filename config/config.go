package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete rebalancer configuration.
type Config struct {
	Broker    string          `json:"broker" yaml:"broker"` // "paper" or "alpaca"
	StateDir  string          `json:"state_dir" yaml:"state_dir"`
	Alpaca    AlpacaConfig    `json:"alpaca" yaml:"alpaca"`
	Strategy  StrategyConfig  `json:"strategy" yaml:"strategy"`
	Rebalance RebalanceConfig `json:"rebalance" yaml:"rebalance"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// AlpacaConfig carries live-broker credentials. Key and secret are
// normally supplied through the environment, not the config file.
type AlpacaConfig struct {
	BaseURL   string `json:"base_url" yaml:"base_url"`
	KeyID     string `json:"key_id,omitempty" yaml:"key_id,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
}

// StrategyConfig contains strategy parameters.
type StrategyConfig struct {
	Name     string `json:"name" yaml:"name"`
	ShortSMA int    `json:"short_sma" yaml:"short_sma"`
	LongSMA  int    `json:"long_sma" yaml:"long_sma"`
	Warmup   int    `json:"warmup" yaml:"warmup"` // history bars fed to the strategy
}

// RebalanceConfig contains order-sizing policy.
type RebalanceConfig struct {
	MinCashReserve float64 `json:"min_cash_reserve" yaml:"min_cash_reserve"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	OrdersFile string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig contains logging parameters.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on
// content), then fills credentials from the environment.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
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

// ApplyEnv overlays environment variables onto the config. A .env file
// in the working directory is honored when present. Environment values
// win over file values for credentials.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	c.Alpaca.KeyID = getEnv("ALPACA_KEY_ID", c.Alpaca.KeyID)
	c.Alpaca.SecretKey = getEnv("ALPACA_SECRET_KEY", c.Alpaca.SecretKey)
	c.Alpaca.BaseURL = getEnv("ALPACA_BASE_URL", c.Alpaca.BaseURL)
	c.StateDir = getEnv("REBALANCER_STATE_DIR", c.StateDir)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Broker != "paper" && c.Broker != "alpaca" {
		return fmt.Errorf("broker must be 'paper' or 'alpaca', got %q", c.Broker)
	}
	if c.Broker == "paper" && c.StateDir == "" {
		return fmt.Errorf("state_dir is required for the paper broker")
	}
	if c.Broker == "alpaca" && (c.Alpaca.KeyID == "" || c.Alpaca.SecretKey == "") {
		return fmt.Errorf("alpaca credentials are not set (ALPACA_KEY_ID / ALPACA_SECRET_KEY)")
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if c.Strategy.ShortSMA <= 0 || c.Strategy.LongSMA <= 0 {
		return fmt.Errorf("strategy SMA windows must be positive")
	}
	if c.Strategy.ShortSMA >= c.Strategy.LongSMA {
		return fmt.Errorf("strategy.short_sma must be less than strategy.long_sma")
	}
	if c.Strategy.Warmup <= 0 {
		return fmt.Errorf("strategy.warmup must be positive")
	}
	if c.Rebalance.MinCashReserve < 0 || c.Rebalance.MinCashReserve >= 1 {
		return fmt.Errorf("rebalance.min_cash_reserve must be in [0, 1)")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.OrdersFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal orders_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Broker:   "paper",
		StateDir: "./state",
		Alpaca: AlpacaConfig{
			BaseURL: "https://paper-api.alpaca.markets",
		},
		Strategy: StrategyConfig{
			Name:     "sma-above",
			ShortSMA: 50,
			LongSMA:  200,
			Warmup:   200,
		},
		Rebalance: RebalanceConfig{
			MinCashReserve: 0.01,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./state/journal.db",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

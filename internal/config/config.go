// Package config loads the bot configuration from a JSON file with
// environment fallbacks for the secrets.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// EnvConfigFile overrides the config file path.
const EnvConfigFile = "DEBITS_CONFIG_FILE"

// DefaultPath is the config file read when DEBITS_CONFIG_FILE is unset.
const DefaultPath = "config.json"

// Config is the flat bot configuration.
type Config struct {
	SlackBotToken string `json:"slack_bot_token,omitempty"` // xoxb-, env DEBITS_SLACK_BOT_TOKEN
	SlackAppToken string `json:"slack_app_token,omitempty"` // xapp-, env DEBITS_SLACK_APP_TOKEN

	DBPath         string `json:"db_path"`         // env DEBITS_DB_PATH
	DefaultChannel string `json:"default_channel"` // fallback channel for undeliverable messages
	ListenAddr     string `json:"listen_addr"`     // ops server bind address

	ReportCheckInterval Duration `json:"report_check_interval"`
	ResetCheckInterval  Duration `json:"reset_check_interval"`

	LogFile string `json:"log_file,omitempty"` // optional log tee target
}

// Duration is a time.Duration that marshals as a string like "1m".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration written by the init command.
func Default() *Config {
	return &Config{
		DBPath:              "debits.db",
		DefaultChannel:      "debits-general",
		ListenAddr:          ":8090",
		ReportCheckInterval: Duration(time.Minute),
		ResetCheckInterval:  Duration(time.Hour),
	}
}

// Load reads the config file, applies environment fallbacks, and validates.
// A missing file is not an error when the environment carries the tokens.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the config file and applies environment fallbacks without
// validating. Doctor uses this to report on partial configurations.
func LoadFile() (*Config, error) {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DEBITS_SLACK_BOT_TOKEN"); v != "" {
		cfg.SlackBotToken = v
	}
	if v := os.Getenv("DEBITS_SLACK_APP_TOKEN"); v != "" {
		cfg.SlackAppToken = v
	}
	if v := os.Getenv("DEBITS_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
}

// Validate checks the fields the process cannot run without.
func (c *Config) Validate() error {
	if c.SlackBotToken == "" {
		return fmt.Errorf("slack bot token missing: set slack_bot_token or DEBITS_SLACK_BOT_TOKEN")
	}
	if c.SlackAppToken == "" {
		return fmt.Errorf("slack app token missing: set slack_app_token or DEBITS_SLACK_APP_TOKEN")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.DefaultChannel == "" {
		return fmt.Errorf("default_channel must not be empty")
	}
	if time.Duration(c.ReportCheckInterval) <= 0 {
		return fmt.Errorf("report_check_interval must be positive")
	}
	if time.Duration(c.ResetCheckInterval) <= 0 {
		return fmt.Errorf("reset_check_interval must be positive")
	}
	return nil
}

// Save writes the config as indented JSON. Secrets present in the struct are
// written too; init writes a tokenless template.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/realtime"
)

// Config holds everything the gateway and the CLI need to reach the
// upstream store. Values come from an optional YAML file overridden by
// environment variables.
type Config struct {
	Port        string `yaml:"port"`
	StoreURL    string `yaml:"store_url"`
	PushURL     string `yaml:"push_url"`
	StoreToken  string `yaml:"store_token"`
	AdminUserID string `yaml:"admin_user_id"`

	Push PushConfig `yaml:"push"`
}

// Duration unmarshals YAML strings like "2s" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// PushConfig bounds the push channel connection.
type PushConfig struct {
	Reconnection         *bool    `yaml:"reconnection"`
	ReconnectionAttempts int      `yaml:"reconnection_attempts"`
	ReconnectionDelay    Duration `yaml:"reconnection_delay"`
	Timeout              Duration `yaml:"timeout"`
}

// Channel converts the push settings into the realtime package's config,
// filling gaps from the defaults.
func (p PushConfig) Channel() realtime.Config {
	cfg := realtime.DefaultConfig()
	if p.Reconnection != nil {
		cfg.Reconnection = *p.Reconnection
	}
	if p.ReconnectionAttempts > 0 {
		cfg.ReconnectionAttempts = p.ReconnectionAttempts
	}
	if p.ReconnectionDelay > 0 {
		cfg.ReconnectionDelay = time.Duration(p.ReconnectionDelay)
	}
	if p.Timeout > 0 {
		cfg.Timeout = time.Duration(p.Timeout)
	}
	return cfg
}

// LoadConfig reads the optional file named by CONFIG_FILE and then
// applies environment overrides.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.Port = getEnv("PORT", defaultStr(cfg.Port, "8585"))
	cfg.StoreURL = getEnv("STORE_URL", defaultStr(cfg.StoreURL, "http://localhost:4000"))
	cfg.PushURL = getEnv("PUSH_URL", defaultStr(cfg.PushURL, "ws://localhost:4000/push"))
	cfg.StoreToken = getEnv("STORE_TOKEN", cfg.StoreToken)
	cfg.AdminUserID = getEnv("ADMIN_USER_ID", cfg.AdminUserID)

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func defaultStr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Garmin  GarminConfig  `json:"garmin"`
	Athlete AthleteConfig `json:"athlete"`
	Goals   GoalsConfig   `json:"goals"`
	Coach   CoachConfig   `json:"coach"`
	Logging LoggingConfig `json:"logging"`
}

// GarminConfig holds the Connect API credentials
type GarminConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AthleteConfig holds the physiological constants for the load model
type AthleteConfig struct {
	RestingHR float64 `json:"resting_hr"`
	MaxHR     float64 `json:"max_hr"`
}

// GoalsConfig holds the annual targets
type GoalsConfig struct {
	RunningKm     float64 `json:"running_km"`
	HalfMarathons int     `json:"half_marathons"`
	StrengthCount int     `json:"strength_sessions"`
	ActiveDays    int     `json:"active_days"`
}

// CoachConfig holds the AI coach settings. The API key can also come
// from the GEMINI_API_KEY environment variable; the coach is disabled
// when neither is set.
type CoachConfig struct {
	APIKey        string `json:"api_key"`
	Model         string `json:"model"`
	CacheTTLHours int    `json:"cache_ttl_hours"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level string `json:"level"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			RestingHR: 45,
			MaxHR:     197,
		},
		Goals: GoalsConfig{
			RunningKm:     2026,
			HalfMarathons: 26,
			StrengthCount: 104,
			ActiveDays:    200,
		},
		Coach: CoachConfig{
			Model:         "gemini-2.0-flash",
			CacheTTLHours: 6,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from ~/.fitdash/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Athlete.RestingHR == 0 {
		cfg.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if cfg.Athlete.MaxHR == 0 {
		cfg.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if cfg.Goals.RunningKm == 0 {
		cfg.Goals.RunningKm = defaults.Goals.RunningKm
	}
	if cfg.Goals.HalfMarathons == 0 {
		cfg.Goals.HalfMarathons = defaults.Goals.HalfMarathons
	}
	if cfg.Goals.StrengthCount == 0 {
		cfg.Goals.StrengthCount = defaults.Goals.StrengthCount
	}
	if cfg.Goals.ActiveDays == 0 {
		cfg.Goals.ActiveDays = defaults.Goals.ActiveDays
	}
	if cfg.Coach.Model == "" {
		cfg.Coach.Model = defaults.Coach.Model
	}
	if cfg.Coach.CacheTTLHours == 0 {
		cfg.Coach.CacheTTLHours = defaults.Coach.CacheTTLHours
	}
	if cfg.Coach.APIKey == "" {
		cfg.Coach.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.fitdash/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Garmin = GarminConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Garmin.ClientID == "" || c.Garmin.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("garmin.client_id is required - register an app at https://developerportal.garmin.com")
	}
	if c.Garmin.ClientSecret == "" || c.Garmin.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("garmin.client_secret is required - register an app at https://developerportal.garmin.com")
	}

	if c.Athlete.RestingHR < 0 || c.Athlete.MaxHR < 0 {
		return errors.New("athlete heart rates must be positive")
	}
	if c.Athlete.MaxHR > 0 && c.Athlete.RestingHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.resting_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.RestingHR, c.Athlete.MaxHR)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".fitdash", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".fitdash"), nil
}

package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Athlete defaults
	if cfg.Athlete.RestingHR != 45 {
		t.Errorf("Athlete.RestingHR = %v, want 45", cfg.Athlete.RestingHR)
	}
	if cfg.Athlete.MaxHR != 197 {
		t.Errorf("Athlete.MaxHR = %v, want 197", cfg.Athlete.MaxHR)
	}

	// Goal defaults
	if cfg.Goals.RunningKm != 2026 {
		t.Errorf("Goals.RunningKm = %v, want 2026", cfg.Goals.RunningKm)
	}
	if cfg.Goals.HalfMarathons != 26 {
		t.Errorf("Goals.HalfMarathons = %v, want 26", cfg.Goals.HalfMarathons)
	}
	if cfg.Goals.StrengthCount != 104 {
		t.Errorf("Goals.StrengthCount = %v, want 104", cfg.Goals.StrengthCount)
	}
	if cfg.Goals.ActiveDays != 200 {
		t.Errorf("Goals.ActiveDays = %v, want 200", cfg.Goals.ActiveDays)
	}

	// Coach defaults
	if cfg.Coach.Model == "" {
		t.Error("Coach.Model should have a default")
	}
	if cfg.Coach.CacheTTLHours != 6 {
		t.Errorf("Coach.CacheTTLHours = %v, want 6", cfg.Coach.CacheTTLHours)
	}

	// Garmin credentials should be empty by default
	if cfg.Garmin.ClientID != "" || cfg.Garmin.ClientSecret != "" {
		t.Error("Garmin credentials should be empty by default")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Garmin = GarminConfig{ClientID: "12345", ClientSecret: "secret"}
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errContains string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "empty client ID",
			mutate:      func(c *Config) { c.Garmin.ClientID = "" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "placeholder client ID",
			mutate:      func(c *Config) { c.Garmin.ClientID = "YOUR_CLIENT_ID" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "empty client secret",
			mutate:      func(c *Config) { c.Garmin.ClientSecret = "" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name: "resting HR above max HR",
			mutate: func(c *Config) {
				c.Athlete.RestingHR = 200
				c.Athlete.MaxHR = 190
			},
			expectError: true,
			errContains: "resting_hr",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
			errContains: "logging.level",
		},
		{
			name:   "empty log level is fine",
			mutate: func(c *Config) { c.Logging.Level = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want mention of %q", err, tt.errContains)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

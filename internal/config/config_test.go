package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(*testing.T, *Config)
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.DataFile != "accounts.dat" {
					t.Errorf("expected DataFile to be accounts.dat, got %s", cfg.DataFile)
				}
				if cfg.FirstAccountNumber != 100100 {
					t.Errorf("expected FirstAccountNumber to be 100100, got %d", cfg.FirstAccountNumber)
				}
				if cfg.LogLevel != logrus.WarnLevel {
					t.Errorf("expected LogLevel to be warn, got %s", cfg.LogLevel)
				}
			},
		},
		{
			name: "custom values",
			envVars: map[string]string{
				"ATM_DATA_FILE":     "/tmp/bank.dat",
				"ATM_FIRST_ACCOUNT": "200000",
				"ATM_LOG_LEVEL":     "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.DataFile != "/tmp/bank.dat" {
					t.Errorf("expected DataFile to be /tmp/bank.dat, got %s", cfg.DataFile)
				}
				if cfg.FirstAccountNumber != 200000 {
					t.Errorf("expected FirstAccountNumber to be 200000, got %d", cfg.FirstAccountNumber)
				}
				if cfg.LogLevel != logrus.DebugLevel {
					t.Errorf("expected LogLevel to be debug, got %s", cfg.LogLevel)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}
			defer clearEnv()

			cfg, err := Load("")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non numeric account", "ATM_FIRST_ACCOUNT", "abc"},
		{"zero account", "ATM_FIRST_ACCOUNT", "0"},
		{"unknown level", "ATM_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			os.Setenv(tt.key, tt.value)
			defer clearEnv()

			if _, err := Load(""); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv()
	defer clearEnv()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ATM_DATA_FILE=from-dotenv.dat\nATM_LOG_LEVEL=info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Setenv("ATM_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataFile != "from-dotenv.dat" {
		t.Errorf("expected DataFile from .env, got %s", cfg.DataFile)
	}
	if cfg.LogLevel != logrus.ErrorLevel {
		t.Errorf("expected existing env to win, got %s", cfg.LogLevel)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv()
	defer clearEnv()

	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}

// clearEnv clears all test environment variables
func clearEnv() {
	for _, key := range []string{"ATM_DATA_FILE", "ATM_FIRST_ACCOUNT", "ATM_LOG_LEVEL"} {
		os.Unsetenv(key)
	}
}

// internal/config/config.go
//
// 由環境變數（可選的 .env 檔）載入執行設定。核心 bank 套件不讀取任何環境變數，
// 所有設定皆由 main 組裝後注入。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the ATM simulator.
type Config struct {
	DataFile           string
	FirstAccountNumber int64
	LogLevel           logrus.Level
}

// Load 讀取 envFile（不存在則略過），再以環境變數與預設值組成 Config。
// 已存在的環境變數優先於 .env 內容。
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	first, err := strconv.ParseInt(getEnv("ATM_FIRST_ACCOUNT", "100100"), 10, 64)
	if err != nil || first <= 0 {
		return nil, fmt.Errorf("ATM_FIRST_ACCOUNT must be a positive integer: %q", os.Getenv("ATM_FIRST_ACCOUNT"))
	}
	level, err := logrus.ParseLevel(getEnv("ATM_LOG_LEVEL", "warn"))
	if err != nil {
		return nil, fmt.Errorf("ATM_LOG_LEVEL: %w", err)
	}

	return &Config{
		DataFile:           getEnv("ATM_DATA_FILE", "accounts.dat"),
		FirstAccountNumber: first,
		LogLevel:           level,
	}, nil
}

// getEnv retrieves an environment variable or returns a default value if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DataDir            string
	DBFile             string
	DefaultUserID      string
	MaxAccountsPerUser int
	SeedAccounts       bool
	LogLevel           string
}

// DBPath joins the data directory and database file name.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("HOUSEHOLDER_DATA_DIR", ".householder")
	viper.SetDefault("HOUSEHOLDER_DB_FILE", "householder.db")
	viper.SetDefault("DEFAULT_USER_ID", "demo")
	viper.SetDefault("MAX_ACCOUNTS_PER_USER", 5)
	viper.SetDefault("SEED_ACCOUNTS", true)
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	cfg := &Config{
		DataDir:            viper.GetString("HOUSEHOLDER_DATA_DIR"),
		DBFile:             viper.GetString("HOUSEHOLDER_DB_FILE"),
		DefaultUserID:      viper.GetString("DEFAULT_USER_ID"),
		MaxAccountsPerUser: viper.GetInt("MAX_ACCOUNTS_PER_USER"),
		SeedAccounts:       viper.GetBool("SEED_ACCOUNTS"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
	}

	if cfg.MaxAccountsPerUser <= 0 {
		log.Printf("Warning: Invalid value for MAX_ACCOUNTS_PER_USER (%d). Defaulting to 5.\n", cfg.MaxAccountsPerUser)
		cfg.MaxAccountsPerUser = 5
	}

	return cfg, nil
}

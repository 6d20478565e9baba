package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Bank ledger accounts live in this chart code range (ASSET type).
	BankAccountCodeLow  int
	BankAccountCodeHigh int

	// Statement import limits.
	ImportChunkSize int

	// External AI suggestion endpoint. Empty disables suggestions.
	SuggestionURL     string
	SuggestionTimeout time.Duration

	// Requests per period for the rate limit middleware, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and an optional
// .env file. Defaults keep a development setup working out of the box.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("BANK_ACCOUNT_CODE_LOW", 8400)
	viper.SetDefault("BANK_ACCOUNT_CODE_HIGH", 8499)
	viper.SetDefault("IMPORT_CHUNK_SIZE", 500)
	viper.SetDefault("SUGGESTION_URL", "")
	viper.SetDefault("SUGGESTION_TIMEOUT", "5s")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.BankAccountCodeLow = viper.GetInt("BANK_ACCOUNT_CODE_LOW")
	cfg.BankAccountCodeHigh = viper.GetInt("BANK_ACCOUNT_CODE_HIGH")
	if cfg.BankAccountCodeLow > cfg.BankAccountCodeHigh {
		log.Printf("Warning: BANK_ACCOUNT_CODE_LOW (%d) above BANK_ACCOUNT_CODE_HIGH (%d); swapping.\n",
			cfg.BankAccountCodeLow, cfg.BankAccountCodeHigh)
		cfg.BankAccountCodeLow, cfg.BankAccountCodeHigh = cfg.BankAccountCodeHigh, cfg.BankAccountCodeLow
	}

	cfg.ImportChunkSize = viper.GetInt("IMPORT_CHUNK_SIZE")
	if cfg.ImportChunkSize <= 0 {
		cfg.ImportChunkSize = 500
	}

	cfg.SuggestionURL = viper.GetString("SUGGESTION_URL")

	timeoutStr := viper.GetString("SUGGESTION_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 5 * time.Second
		if timeoutStr != "" {
			log.Printf("Warning: Invalid value for SUGGESTION_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
		}
	}
	cfg.SuggestionTimeout = timeout

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

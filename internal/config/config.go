package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Ledger source
	LedgerBackend string
	LedgerCSVPath string
	SQLiteDBPath  string

	// Google Sheets (sheets backend)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Reports
	ReportsDir string

	// Market enrichment
	UserSettingsPath string
	ExchangeAPIKey   string
	StockAPIKey      string
	LookupTimeout    time.Duration
	MarketCacheTTL   time.Duration
	MarketCacheSize  int

	// AMQP (report-saved events, optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		LedgerBackend: getEnv("LEDGER_BACKEND", "memory"),
		LedgerCSVPath: getEnv("LEDGER_CSV_PATH", "./data/operations.csv"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/cardstats.db"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),

		ReportsDir: getEnv("REPORTS_DIR", "./reports"),

		UserSettingsPath: getEnv("USER_SETTINGS_PATH", "./user_settings.json"),
		ExchangeAPIKey:   getEnv("EXCHANGE_API_KEY", ""),
		StockAPIKey:      getEnv("STOCK_API_KEY", ""),
		LookupTimeout:    getEnvDuration("LOOKUP_TIMEOUT", 10*time.Second),
		MarketCacheTTL:   getEnvDuration("MARKET_CACHE_TTL", 5*time.Minute),
		MarketCacheSize:  getEnvInt("MARKET_CACHE_SIZE", 128),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cardstats"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_artifacts"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate ledger backend
	validBackends := []string{"memory", "csv", "sqlite", "sheets"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.LedgerBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid ledger backend '%s': must be one of %v", c.LedgerBackend, validBackends))
	}

	// Validate CSV configuration if backend is csv
	if c.LedgerBackend == "csv" && c.LedgerCSVPath == "" {
		errors = append(errors, "ledger CSV path cannot be empty when using csv backend")
	}

	// Validate SQLite configuration if backend is sqlite
	if c.LedgerBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.LedgerBackend == "sheets" && c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
	}

	if c.ReportsDir == "" {
		errors = append(errors, "reports directory cannot be empty")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate lookup timeout and cache settings
	if c.LookupTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid lookup timeout %v: must be at least 1 second", c.LookupTimeout))
	} else if c.LookupTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid lookup timeout %v: must be at most 1 minute", c.LookupTimeout))
	}

	if c.MarketCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid market cache size %d: must be at least 1", c.MarketCacheSize))
	}

	if c.MarketCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid market cache TTL %v: must be at least 1 second", c.MarketCacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

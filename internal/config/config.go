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

	// Data source
	DataSource        string
	Schema            string
	UserColumn        int
	SheetExportURL    string
	MileageExportURL  string
	GoogleAPIKey      string
	SpreadsheetID     string
	TransactionsRange string
	MileageRange      string
	TransactionsFile  string
	MileageFile       string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Refresh
	FetchTimeout    time.Duration
	RefreshInterval time.Duration
	CacheTTL        time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DataSource:        getEnv("DATA_SOURCE", "export"),
		Schema:            getEnv("SHEET_SCHEMA", "mendel"),
		UserColumn:        getEnvInt("USER_COLUMN", -1),
		SheetExportURL:    getEnv("SHEET_EXPORT_URL", ""),
		MileageExportURL:  getEnv("MILEAGE_EXPORT_URL", ""),
		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		SpreadsheetID:     getEnv("GOOGLE_SPREADSHEET_ID", ""),
		TransactionsRange: getEnv("TRANSACTIONS_RANGE", "A:BZ"),
		MileageRange:      getEnv("MILEAGE_RANGE", ""),
		TransactionsFile:  getEnv("TRANSACTIONS_FILE", ""),
		MileageFile:       getEnv("MILEAGE_FILE", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/dashboard.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "dashboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "dataset_refreshed"),

		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 15*time.Minute),
		CacheTTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
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

	// Validate data source
	validSources := []string{"export", "sheets", "file"}
	isValidSource := false
	for _, source := range validSources {
		if c.DataSource == source {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid data source '%s': must be one of %v", c.DataSource, validSources))
	}

	// Validate schema
	validSchemas := []string{"basic", "mendel"}
	isValidSchema := false
	for _, schema := range validSchemas {
		if c.Schema == schema {
			isValidSchema = true
			break
		}
	}
	if !isValidSchema {
		errors = append(errors, fmt.Sprintf("invalid sheet schema '%s': must be one of %v", c.Schema, validSchemas))
	}

	// Validate source-specific settings
	switch c.DataSource {
	case "export":
		if c.SheetExportURL == "" {
			errors = append(errors, "SHEET_EXPORT_URL is required when using export source")
		} else if parsedURL, err := url.Parse(c.SheetExportURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid sheet export URL '%s': %v", c.SheetExportURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid sheet export URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	case "sheets":
		if c.GoogleAPIKey == "" {
			errors = append(errors, "GOOGLE_API_KEY is required when using sheets source")
		}
		if c.SpreadsheetID == "" {
			errors = append(errors, "GOOGLE_SPREADSHEET_ID is required when using sheets source")
		}
	case "file":
		if c.TransactionsFile == "" {
			errors = append(errors, "TRANSACTIONS_FILE is required when using file source")
		} else if _, err := os.Stat(c.TransactionsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("transactions file does not exist: %s", c.TransactionsFile))
		}
	}

	// Validate SQLite configuration if a path is set
	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
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

	// Validate timing settings
	if c.FetchTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at least 1 second", c.FetchTimeout))
	}
	if c.RefreshInterval != 0 && c.RefreshInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 1 minute (or 0 to disable)", c.RefreshInterval))
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
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

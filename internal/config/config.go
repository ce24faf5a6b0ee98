// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/novasolutions/novainvoice/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Assistant AssistantConfig
	Company   models.CompanySettings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// StorageConfig selects where the invoice document lives.
type StorageConfig struct {
	// Driver is one of "file", "sqlite", "postgres".
	Driver string
	// Dir holds the document files for the file driver.
	Dir string
	// Path is the database file for the sqlite driver.
	Path string
	// DSN is the connection string for the postgres driver.
	DSN string
	// Key is the storage key the invoice collection is kept under.
	Key string
}

// AssistantConfig holds the text-generation service settings. An empty URL
// disables the service; every request then resolves to its local fallback.
type AssistantConfig struct {
	URL     string
	Timeout int // seconds
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local use.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "file"),
			Dir:    getEnv("STORAGE_DIR", "data"),
			Path:   getEnv("STORAGE_SQLITE_PATH", "data/novainvoice.db"),
			DSN:    getEnv("STORAGE_POSTGRES_DSN", ""),
			Key:    getEnv("STORAGE_KEY", "nova_invoices"),
		},
		Assistant: AssistantConfig{
			URL:     getEnv("ASSISTANT_URL", ""),
			Timeout: getEnvInt("ASSISTANT_TIMEOUT", 10),
		},
		Company: models.CompanySettings{
			Name:     getEnv("COMPANY_NAME", "Nova Solutions Inc."),
			Address:  getEnv("COMPANY_ADDRESS", "456 Business Park, Austin, TX 78701"),
			Email:    getEnv("COMPANY_EMAIL", "hello@novasolutions.com"),
			Website:  getEnv("COMPANY_WEBSITE", "www.novasolutions.com"),
			TaxRate:  getEnvFloat("COMPANY_TAX_RATE", 8.25),
			Currency: getEnv("COMPANY_CURRENCY", "USD"),
			Template: models.PrintTemplateSettings{
				PrimaryColor: getEnv("TEMPLATE_PRIMARY_COLOR", "#4f46e5"),
				Layout:       models.NormalizeLayout(models.TemplateLayout(getEnv("TEMPLATE_LAYOUT", "modern"))),
				ShowLogo:     getEnvBool("TEMPLATE_SHOW_LOGO", true),
				HeaderFont:   getEnv("TEMPLATE_HEADER_FONT", "Inter"),
				FooterText:   getEnv("TEMPLATE_FOOTER_TEXT", ""),
			},
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvFloat returns the float value of an environment variable or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

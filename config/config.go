package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type GitHubConfig struct {
	WebhookSecret string
}

// IsConfigured returns true if all required GitHub configuration is present
func (c GitHubConfig) IsConfigured() bool {
	return c.WebhookSecret != ""
}

type AlertingConfig struct {
	WebhookURL string
	LogsURL    string
}

// IsConfigured returns true if all required alerting configuration is present
func (c AlertingConfig) IsConfigured() bool {
	return c.WebhookURL != ""
	// Note: LogsURL is optional
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	// Integration configurations (grouped)
	GitHubConfig   GitHubConfig
	AlertingConfig AlertingConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		// Core configuration
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "false") == "true",

		// GitHub configuration (optional at startup - the webhook endpoint
		// rejects deliveries with 500 until a secret is set)
		GitHubConfig: GitHubConfig{
			WebhookSecret: os.Getenv("GITHUB_WEBHOOK_SECRET"),
		},

		// Alerting configuration (optional)
		AlertingConfig: AlertingConfig{
			WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
			LogsURL:    getEnvWithDefault("SERVER_LOGS_URL", ""),
		},
	}

	// Log which integrations are configured
	if config.GitHubConfig.IsConfigured() {
		log.Printf("✅ GitHub webhook secret configured")
	} else {
		log.Printf("⚠️ GitHub webhook secret not configured - webhook deliveries will be rejected")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("GitHub webhook secret is not configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.AlertingConfig.IsConfigured() {
		log.Printf("✅ Error alerting configured")
	} else {
		log.Printf("⚠️ Error alerting not configured - alerts will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("error alerting is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

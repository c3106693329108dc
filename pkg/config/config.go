// Package config builds the process-wide configuration from the
// environment. The struct is assembled once at startup and passed down;
// nothing below this layer reads env vars directly.
package config

import (
	"fmt"

	"aws-cost-optimizer/pkg/platform"
)

const (
	BackendDynamoDB   = "dynamodb"
	BackendClickHouse = "clickhouse"
	BackendPostgres   = "postgres"
)

// ClickHouseConfig holds connection settings for the ClickHouse store.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// Config is the immutable process configuration.
type Config struct {
	// AI report generation
	AIProvider    string
	AIModel       string
	AITemperature float64
	AIMaxTokens   int
	GroqAPIKey    string
	OpenRouterKey string
	OllamaHost    string

	// Persistence
	StoreBackend  string
	DynamoDBTable string
	ClickHouse    ClickHouseConfig
	DatabaseURL   string

	// Distribution
	SNSTopicARN string
	S3Bucket    string
	EnableEmail bool
	EnableS3    bool

	// Optional pricing enrichment
	EnablePricingEnrichment bool

	// Trigger server
	HTTPPort int
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		AIProvider:    platform.GetEnv("AI_PROVIDER", "groq"),
		AIModel:       platform.GetEnv("AI_MODEL", ""),
		AITemperature: platform.GetEnvFloat("AI_TEMPERATURE", 0.7),
		AIMaxTokens:   platform.GetEnvInt("AI_MAX_TOKENS", 2000),
		GroqAPIKey:    platform.GetEnv("GROQ_API_KEY", ""),
		OpenRouterKey: platform.GetEnv("OPENROUTER_API_KEY", ""),
		OllamaHost:    platform.GetEnv("OLLAMA_HOST", "http://localhost:11434"),

		StoreBackend:  platform.GetEnv("STORE_BACKEND", BackendDynamoDB),
		DynamoDBTable: platform.GetEnv("DYNAMODB_TABLE", "cost-optimizer-data"),
		ClickHouse: ClickHouseConfig{
			Host:     platform.GetEnv("CLICKHOUSE_HOST", "localhost"),
			Port:     platform.GetEnvInt("CLICKHOUSE_PORT", 9000),
			Database: platform.GetEnv("CLICKHOUSE_DATABASE", "costoptimizer"),
			Username: platform.GetEnv("CLICKHOUSE_USER", "default"),
			Password: platform.GetEnv("CLICKHOUSE_PASSWORD", ""),
		},
		DatabaseURL: platform.GetEnv("DATABASE_URL", ""),

		SNSTopicARN: platform.GetEnv("SNS_TOPIC_ARN", ""),
		S3Bucket:    platform.GetEnv("S3_BUCKET", ""),
		EnableEmail: platform.GetEnvBool("ENABLE_EMAIL_NOTIFICATIONS", true),
		EnableS3:    platform.GetEnvBool("ENABLE_S3_REPORTS", true),

		EnablePricingEnrichment: platform.GetEnvBool("ENABLE_PRICING_ENRICHMENT", false),

		HTTPPort: platform.GetEnvInt("HTTP_PORT", 8080),
	}
}

// Validate checks settings that would otherwise fail deep in a stage.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendDynamoDB, BackendClickHouse, BackendPostgres:
	default:
		return fmt.Errorf("unsupported store backend %q", c.StoreBackend)
	}
	if c.StoreBackend == BackendPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when STORE_BACKEND is postgres")
	}
	if c.AIMaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS must be positive")
	}
	return nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "groq", cfg.AIProvider)
	assert.Equal(t, 0.7, cfg.AITemperature)
	assert.Equal(t, 2000, cfg.AIMaxTokens)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
	assert.Equal(t, BackendDynamoDB, cfg.StoreBackend)
	assert.Equal(t, "cost-optimizer-data", cfg.DynamoDBTable)
	assert.Equal(t, "localhost", cfg.ClickHouse.Host)
	assert.Equal(t, 9000, cfg.ClickHouse.Port)
	assert.True(t, cfg.EnableEmail)
	assert.True(t, cfg.EnableS3)
	assert.False(t, cfg.EnablePricingEnrichment)
	assert.Equal(t, 8080, cfg.HTTPPort)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("AI_PROVIDER", "ollama")
	t.Setenv("AI_MODEL", "llama3.1:70b")
	t.Setenv("AI_TEMPERATURE", "0.3")
	t.Setenv("AI_MAX_TOKENS", "500")
	t.Setenv("STORE_BACKEND", "clickhouse")
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")
	t.Setenv("CLICKHOUSE_PORT", "9440")
	t.Setenv("ENABLE_S3_REPORTS", "false")
	t.Setenv("ENABLE_PRICING_ENRICHMENT", "true")
	t.Setenv("HTTP_PORT", "9090")

	cfg := Load()

	assert.Equal(t, "ollama", cfg.AIProvider)
	assert.Equal(t, "llama3.1:70b", cfg.AIModel)
	assert.Equal(t, 0.3, cfg.AITemperature)
	assert.Equal(t, 500, cfg.AIMaxTokens)
	assert.Equal(t, BackendClickHouse, cfg.StoreBackend)
	assert.Equal(t, "ch.internal", cfg.ClickHouse.Host)
	assert.Equal(t, 9440, cfg.ClickHouse.Port)
	assert.False(t, cfg.EnableS3)
	assert.True(t, cfg.EnablePricingEnrichment)
	assert.Equal(t, 9090, cfg.HTTPPort)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("AI_MAX_TOKENS", "lots")
	t.Setenv("AI_TEMPERATURE", "warm")

	cfg := Load()

	assert.Equal(t, 2000, cfg.AIMaxTokens)
	assert.Equal(t, 0.7, cfg.AITemperature)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	cfg.StoreBackend = "redis"
	assert.Error(t, cfg.Validate())

	cfg.StoreBackend = BackendPostgres
	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg.DatabaseURL = "postgres://localhost/costs?sslmode=disable"
	assert.NoError(t, cfg.Validate())

	cfg.AIMaxTokens = 0
	assert.Error(t, cfg.Validate())
}

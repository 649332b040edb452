package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8000", cfg.ServerAddr)
	assert.Equal(t, "medrag_docs", cfg.Collection)
	assert.Equal(t, 1.2, cfg.MaxDistance)
	assert.True(t, cfg.RequireCitations)
	assert.Equal(t, "llama3.1", cfg.OllamaModel)
	assert.Equal(t, 0.0, cfg.LLMTemperature)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_DISTANCE", "0.9")
	t.Setenv("REQUIRE_CITATIONS", "false")
	t.Setenv("API_KEY", "secret123")
	t.Setenv("PG_PORT", "5433")
	t.Setenv("VECTOR_STORE", "memory")

	cfg := Load()

	assert.Equal(t, 0.9, cfg.MaxDistance)
	assert.False(t, cfg.RequireCitations)
	assert.Equal(t, "secret123", cfg.APIKey)
	assert.Equal(t, 5433, cfg.PGPort)
	assert.Equal(t, "memory", cfg.StoreKind)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_DISTANCE", "not-a-number")
	t.Setenv("PG_PORT", "fifty")

	cfg := Load()

	assert.Equal(t, 1.2, cfg.MaxDistance)
	assert.Equal(t, 5432, cfg.PGPort)
}

func TestConnString(t *testing.T) {
	cfg := Settings{PGHost: "db", PGPort: 5432, PGUser: "u", PGPass: "p", PGDBName: "medrag"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=medrag sslmode=disable", cfg.ConnString())
}

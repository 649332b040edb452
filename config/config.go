package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Settings is the environment-sourced configuration, read once at startup.
type Settings struct {
	ServerAddr string

	// Vector store
	StoreKind  string
	PGHost     string
	PGPort     int
	PGUser     string
	PGPass     string
	PGDBName   string
	Collection string
	EmbedDim   int

	// Retrieval / grounding
	MaxDistance      float64
	RequireCitations bool

	// LLM
	OllamaBaseURL  string
	OllamaModel    string
	EmbeddingModel string
	LLMTemperature float64

	// API security
	APIKey string

	// Loader
	SourceDir     string
	ArchiveDir    string
	BadDir        string
	ChunkSize     int
	ChunkOverlap  int
	WatchInterval time.Duration
}

// Load reads settings from the environment, applying defaults for anything
// unset. godotenv is expected to have populated the environment already.
func Load() Settings {
	return Settings{
		ServerAddr: getEnv("SERVER_ADDR", ":8000"),

		StoreKind:  getEnv("VECTOR_STORE", "postgres"),
		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getInt("PG_PORT", 5432),
		PGUser:     getEnv("PG_USER", "postgres"),
		PGPass:     getEnv("PG_PASS", "postgres"),
		PGDBName:   getEnv("PG_DB_NAME", "medrag"),
		Collection: getEnv("COLLECTION", "medrag_docs"),
		EmbedDim:   getInt("EMBEDDING_DIM", 768),

		MaxDistance:      getFloat("MAX_DISTANCE", 1.2),
		RequireCitations: getBool("REQUIRE_CITATIONS", true),

		OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3.1"),
		EmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		LLMTemperature: getFloat("LLM_TEMPERATURE", 0),

		APIKey: os.Getenv("API_KEY"),

		SourceDir:     getEnv("LOADER_SOURCE_DIR", "data/source"),
		ArchiveDir:    getEnv("LOADER_ARCHIVE_DIR", "data/archive"),
		BadDir:        getEnv("LOADER_BAD_DIR", "data/bad"),
		ChunkSize:     getInt("CHUNK_SIZE", 1000),
		ChunkOverlap:  getInt("CHUNK_OVERLAP", 200),
		WatchInterval: getDuration("LOADER_WATCH_INTERVAL", time.Second),
	}
}

// ConnString builds the pgx connection string for the configured database.
func (s Settings) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		s.PGHost, s.PGPort, s.PGUser, s.PGPass, s.PGDBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// ABOUTME: Centralized configuration for the rulekeeper system
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Validator strategy names accepted by RULES_VALIDATOR.
const (
	ValidatorEmbedding = "embedding"
	ValidatorLLM       = "llm"
)

// Vector store backend names accepted by RULES_VECTOR_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
	BackendNone   = "none"
)

// Config holds all configuration for the rule registry
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Validation settings
	SimilarityThreshold float64
	MinSegmentLength    int
	SearchLimit         int
	Validator           string
	VectorBackend       string

	// Storage settings
	DataDir string

	// Charm settings (used when VectorBackend == "charm")
	CharmHost   string
	CharmDBName string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("RULES_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:      getEnv("RULES_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:             getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:          getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:          getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		SimilarityThreshold: getEnvFloat("RULES_SIMILARITY_THRESHOLD", 0.8),
		MinSegmentLength:    getEnvInt("RULES_MIN_SEGMENT_LEN", 10),
		SearchLimit:         getEnvInt("RULES_SEARCH_LIMIT", 5),
		Validator:           getEnv("RULES_VALIDATOR", ValidatorEmbedding),
		VectorBackend:       getEnv("RULES_VECTOR_BACKEND", BackendSQLite),
		DataDir:             getEnv("RULES_DATA_DIR", defaultDataDir()),
		CharmHost:           getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:         getEnv("CHARM_DB", "rulekeeper"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("RULES_SIMILARITY_THRESHOLD must be -1..1, got %f", c.SimilarityThreshold)
	}
	if c.MinSegmentLength < 0 {
		return fmt.Errorf("RULES_MIN_SEGMENT_LEN must be >= 0, got %d", c.MinSegmentLength)
	}
	if c.SearchLimit <= 0 {
		return fmt.Errorf("RULES_SEARCH_LIMIT must be positive, got %d", c.SearchLimit)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("OPENAI_RETRY_DELAY must be >= 0, got %s", c.RetryDelay)
	}
	switch c.Validator {
	case ValidatorEmbedding, ValidatorLLM:
	default:
		return fmt.Errorf("RULES_VALIDATOR must be %q or %q, got %q", ValidatorEmbedding, ValidatorLLM, c.Validator)
	}
	switch c.VectorBackend {
	case BackendSQLite, BackendCharm, BackendNone:
	default:
		return fmt.Errorf("RULES_VECTOR_BACKEND must be %q, %q or %q, got %q", BackendSQLite, BackendCharm, BackendNone, c.VectorBackend)
	}
	return nil
}

// RulesPath returns the path of the JSON rule repository file.
func (c *Config) RulesPath() string {
	return filepath.Join(c.DataDir, "rules.json")
}

// VectorDBPath returns the path of the SQLite embedding database.
func (c *Config) VectorDBPath() string {
	return filepath.Join(c.DataDir, "embeddings.db")
}

// defaultDataDir returns the XDG data directory for rulekeeper.
// Respects XDG_DATA_HOME environment variable override for testing.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "rulekeeper")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// ABOUTME: Charm KV-backed vector store for segment embeddings
// ABOUTME: Cloud-synced alternative to the SQLite backend with SSH key auth
package charmkv

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/harper/rulekeeper/internal/models"
	"github.com/harper/rulekeeper/internal/vector"
)

// embeddingPrefix namespaces embedding keys in the shared KV database.
// Keys are "embedding:<rule_id>:<segment_id>" so a rule's embeddings can be
// enumerated by prefix.
const embeddingPrefix = "embedding:"

// Config holds charm store configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for the charm store
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{
		Host:     host,
		DBName:   "rulekeeper",
		AutoSync: true,
	}
}

// Store persists segment embeddings in Charm KV
type Store struct {
	kv     *kv.KV
	config *Config
	mu     sync.Mutex
}

// Open opens the charm KV database with the given config
func Open(cfg *Config) (*Store, error) {
	// Set CHARM_HOST before opening KV
	os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	s := &Store{
		kv:     db,
		config: cfg,
	}

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return s, nil
}

// Save persists one segment embedding under its rule-scoped key
func (s *Store) Save(emb models.SegmentEmbedding) error {
	if emb.RuleID == "" {
		return fmt.Errorf("embedding requires a rule id")
	}
	if emb.CreatedAt.IsZero() {
		emb.CreatedAt = time.Now()
	}

	data, err := json.Marshal(emb)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := embeddingKey(emb.RuleID, emb.SegmentID)
	if err := s.kv.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	s.syncIfEnabled()
	return nil
}

// Search scans all stored embeddings and returns hits at or above threshold,
// ordered by similarity descending, at most limit.
func (s *Store) Search(query []float64, threshold float64, limit int) ([]models.VectorSearchResult, error) {
	keys, err := s.listKeys(embeddingPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list embedding keys: %w", err)
	}

	var results []models.VectorSearchResult

	for _, key := range keys {
		var emb models.SegmentEmbedding
		if err := s.getJSON(key, &emb); err != nil {
			continue
		}

		similarity := vector.CosineSimilarity(query, emb.Vector)
		if similarity < threshold {
			continue
		}

		results = append(results, models.VectorSearchResult{
			SegmentID:  emb.SegmentID,
			RuleID:     emb.RuleID,
			Text:       emb.Text,
			Title:      emb.Title,
			Similarity: similarity,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// DeleteByRule removes every embedding owned by the given rule
func (s *Store) DeleteByRule(ruleID string) error {
	keys, err := s.listKeys(embeddingPrefix + ruleID + ":")
	if err != nil {
		return fmt.Errorf("failed to list embedding keys: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if err := s.kv.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}
	}
	s.syncIfEnabled()
	return nil
}

// Sync manually triggers a sync with the cloud
func (s *Store) Sync() error {
	return s.kv.Sync()
}

// Close closes the KV database
func (s *Store) Close() error {
	if s.kv != nil {
		err := s.kv.Close()
		s.kv = nil
		return err
	}
	return nil
}

// syncIfEnabled syncs to cloud after writes. Callers hold s.mu.
func (s *Store) syncIfEnabled() {
	if s.config.AutoSync {
		_ = s.kv.Sync()
	}
}

func (s *Store) getJSON(key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Get([]byte(key))
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("key not found: %s", key)
	}
	return json.Unmarshal(data, dest)
}

func (s *Store) listKeys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys()
	if err != nil {
		return nil, err
	}

	var result []string
	for _, key := range keys {
		keyStr := string(key)
		if strings.HasPrefix(keyStr, prefix) {
			result = append(result, keyStr)
		}
	}
	return result, nil
}

func embeddingKey(ruleID, segmentID string) string {
	return embeddingPrefix + ruleID + ":" + segmentID
}

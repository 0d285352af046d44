// ABOUTME: JSON-file rule repository, the canonical ordered list of accepted rules
// ABOUTME: Reads the whole collection on load and rewrites it on every mutation
package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/harper/rulekeeper/internal/models"
)

// Store owns the ordered collection of accepted rules, persisted as a JSON
// array. The file is the source of truth; vector-store embeddings are
// derived data keyed by rule id.
type Store struct {
	path  string
	rules []models.Rule
	mu    sync.Mutex
}

// Open loads the rule repository at path, creating an empty one if the file
// does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.rules); err != nil {
			return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
		}
	}

	return s, nil
}

// List returns a copy of all rules in insertion order.
func (s *Store) List() []models.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of stored rules.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rules)
}

// Get returns the rule with the given id, or nil if absent.
func (s *Store) Get(ruleID string) *models.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].RuleID == ruleID {
			rule := s.rules[i]
			return &rule
		}
	}
	return nil
}

// GetByPosition returns the rule at the given zero-based position, or nil
// if out of range. Positions follow insertion order, for display.
func (s *Store) GetByPosition(pos int) *models.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos < 0 || pos >= len(s.rules) {
		return nil
	}
	rule := s.rules[pos]
	return &rule
}

// Append adds an accepted rule to the end of the collection and rewrites
// the file. The rule must already carry an identifier.
func (s *Store) Append(rule models.Rule) error {
	if rule.RuleID == "" {
		return fmt.Errorf("cannot store a rule without an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = append(s.rules, rule)
	if err := s.save(); err != nil {
		s.rules = s.rules[:len(s.rules)-1]
		return err
	}
	return nil
}

// Update replaces the rule with the given id in place, preserving its
// position, and rewrites the file.
func (s *Store) Update(ruleID string, rule models.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].RuleID == ruleID {
			old := s.rules[i]
			rule.RuleID = ruleID
			s.rules[i] = rule
			if err := s.save(); err != nil {
				s.rules[i] = old
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("rule not found: %s", ruleID)
}

// Delete removes the rule with the given id and rewrites the file.
func (s *Store) Delete(ruleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].RuleID == ruleID {
			removed := s.rules[i]
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			if err := s.save(); err != nil {
				s.rules = append(s.rules[:i], append([]models.Rule{removed}, s.rules[i:]...)...)
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("rule not found: %s", ruleID)
}

// save rewrites the whole collection. Callers hold s.mu.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(s.rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}
	return nil
}

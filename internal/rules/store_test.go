// ABOUTME: Tests for the JSON-file rule repository
// ABOUTME: Verifies persistence round trips, ordering, update-in-place, and delete
package rules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/rulekeeper/internal/models"
)

func testRule(id, title string) models.Rule {
	return models.Rule{
		RuleID:    id,
		Title:     title,
		Context:   "Some rule content for " + title,
		CreatedAt: time.Now().Truncate(time.Second),
	}
}

func TestOpen_MissingFile(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "rules.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

func TestAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := store.Append(testRule("r1", "First")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(testRule("r2", "Second")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// Reload from disk
	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reload error = %v", err)
	}

	list := reloaded.List()
	if len(list) != 2 {
		t.Fatalf("List() = %d rules, want 2", len(list))
	}
	if list[0].RuleID != "r1" || list[1].RuleID != "r2" {
		t.Errorf("List() order = [%s, %s], want [r1, r2]", list[0].RuleID, list[1].RuleID)
	}
	if list[0].Title != "First" {
		t.Errorf("Title = %q, want First", list[0].Title)
	}
}

func TestAppend_RequiresID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "rules.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := store.Append(testRule("", "No id")); err == nil {
		t.Error("Append() without rule id should fail")
	}
}

func TestGet(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "rules.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Append(testRule("r1", "First")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if rule := store.Get("r1"); rule == nil || rule.Title != "First" {
		t.Errorf("Get(r1) = %v, want First", rule)
	}
	if rule := store.Get("missing"); rule != nil {
		t.Errorf("Get(missing) = %v, want nil", rule)
	}
}

func TestGetByPosition(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "rules.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Append(testRule("r1", "First")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(testRule("r2", "Second")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if rule := store.GetByPosition(1); rule == nil || rule.RuleID != "r2" {
		t.Errorf("GetByPosition(1) = %v, want r2", rule)
	}
	if rule := store.GetByPosition(-1); rule != nil {
		t.Error("GetByPosition(-1) should be nil")
	}
	if rule := store.GetByPosition(2); rule != nil {
		t.Error("GetByPosition(out of range) should be nil")
	}
}

func TestUpdate_PreservesPositionAndID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	for _, r := range []models.Rule{testRule("r1", "First"), testRule("r2", "Second"), testRule("r3", "Third")} {
		if err := store.Append(r); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	updated := testRule("", "Second revised")
	if err := store.Update("r2", updated); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	list := store.List()
	if list[1].RuleID != "r2" {
		t.Errorf("updated rule id = %s, want r2 (preserved)", list[1].RuleID)
	}
	if list[1].Title != "Second revised" {
		t.Errorf("updated title = %q, want Second revised", list[1].Title)
	}
	if list[0].RuleID != "r1" || list[2].RuleID != "r3" {
		t.Error("Update() disturbed the order of other rules")
	}
}

func TestUpdate_MissingRule(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "rules.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := store.Update("missing", testRule("", "X")); err == nil {
		t.Error("Update() on missing rule should fail")
	}
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := store.Append(testRule("r1", "First")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(testRule("r2", "Second")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := store.Delete("r1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if store.Get("r1") != nil {
		t.Error("Get(r1) after delete should be nil")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}

	// Deletion persisted
	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("Open() reload error = %v", err)
	}
	if reloaded.Get("r1") != nil {
		t.Error("deleted rule came back after reload")
	}

	if err := store.Delete("r1"); err == nil {
		t.Error("Delete() on missing rule should fail")
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Error("Open() on corrupt file should fail")
	}
}

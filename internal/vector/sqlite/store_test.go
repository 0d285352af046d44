// ABOUTME: Tests for the SQLite-backed segment embedding store
// ABOUTME: Verifies save, threshold search, delete-by-rule, and dimension validation
package sqlite

import (
	"testing"
	"time"

	"github.com/harper/rulekeeper/internal/llm"
	"github.com/harper/rulekeeper/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, 3)
}

func seg(id, ruleID, text string, vec []float64) models.SegmentEmbedding {
	return models.SegmentEmbedding{
		SegmentID: id,
		RuleID:    ruleID,
		Text:      text,
		Title:     "Test rule",
		Vector:    vec,
		CreatedAt: time.Now(),
	}
}

func TestStore_SaveAndSearch(t *testing.T) {
	store := testStore(t)

	if err := store.Save(seg("seg_1", "r1", "payments must be encrypted", []float64{1, 0, 0})); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(seg("seg_2", "r1", "refunds within thirty days", []float64{0, 1, 0})); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	results, err := store.Search([]float64{1, 0, 0}, 0.8, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(results))
	}
	if results[0].SegmentID != "seg_1" {
		t.Errorf("SegmentID = %s, want seg_1", results[0].SegmentID)
	}
	if results[0].RuleID != "r1" {
		t.Errorf("RuleID = %s, want r1", results[0].RuleID)
	}
	if results[0].Text != "payments must be encrypted" {
		t.Errorf("Text = %q, want stored segment text", results[0].Text)
	}
	if results[0].Title != "Test rule" {
		t.Errorf("Title = %q, want Test rule", results[0].Title)
	}
	if results[0].Similarity < 0.999 {
		t.Errorf("Similarity = %f, want ~1.0", results[0].Similarity)
	}
}

func TestStore_SearchThresholdFilters(t *testing.T) {
	store := testStore(t)

	if err := store.Save(seg("seg_1", "r1", "a", []float64{1, 0, 0})); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// ~0.707 similarity to the query
	if err := store.Save(seg("seg_2", "r2", "b", []float64{1, 1, 0})); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	results, err := store.Search([]float64{1, 0, 0}, 0.8, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search(threshold=0.8) returned %d results, want 1", len(results))
	}

	results, err = store.Search([]float64{1, 0, 0}, 0.5, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search(threshold=0.5) returned %d results, want 2", len(results))
	}

	// Ordered by similarity descending
	if results[0].SegmentID != "seg_1" {
		t.Errorf("first result = %s, want seg_1", results[0].SegmentID)
	}
}

func TestStore_SearchLimit(t *testing.T) {
	store := testStore(t)

	for i, id := range []string{"seg_1", "seg_2", "seg_3"} {
		v := []float64{1, float64(i) * 0.01, 0}
		if err := store.Save(seg(id, "r1", id, v)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	results, err := store.Search([]float64{1, 0, 0}, 0.9, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Search(limit=2) returned %d results, want 2", len(results))
	}
}

func TestStore_SaveOverwritesSegment(t *testing.T) {
	store := testStore(t)

	if err := store.Save(seg("seg_1", "r1", "old text", []float64{1, 0, 0})); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(seg("seg_1", "r1", "new text", []float64{0, 1, 0})); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}

	results, err := store.Search([]float64{0, 1, 0}, 0.9, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(results))
	}
	if results[0].Text != "new text" {
		t.Errorf("Text = %q, want new text", results[0].Text)
	}
}

func TestStore_DeleteByRule(t *testing.T) {
	store := testStore(t)

	// Three segments for r1, one for r2
	vecs := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, v := range vecs {
		id := []string{"seg_1", "seg_2", "seg_3"}[i]
		if err := store.Save(seg(id, "r1", id, v)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	if err := store.Save(seg("seg_other", "r2", "other", []float64{1, 1, 1})); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	count, err := store.CountByRule("r1")
	if err != nil {
		t.Fatalf("CountByRule() error = %v", err)
	}
	if count != 3 {
		t.Fatalf("CountByRule(r1) = %d, want 3", count)
	}

	if err := store.DeleteByRule("r1"); err != nil {
		t.Fatalf("DeleteByRule() error = %v", err)
	}

	count, err = store.CountByRule("r1")
	if err != nil {
		t.Fatalf("CountByRule() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountByRule(r1) after delete = %d, want 0", count)
	}

	count, err = store.CountByRule("r2")
	if err != nil {
		t.Fatalf("CountByRule() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountByRule(r2) = %d, want 1 (unaffected)", count)
	}
}

func TestStore_DimensionValidation(t *testing.T) {
	store := testStore(t)

	err := store.Save(seg("seg_1", "r1", "text", []float64{1, 0}))
	if err == nil {
		t.Error("Save() with wrong dimension should fail")
	}
}

func TestStore_DimensionFollowsModel(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// A store sized for text-embedding-3-large accepts its 3072-d vectors
	store := NewStore(db, llm.DimensionForModel("text-embedding-3-large"))
	if err := store.Save(seg("seg_1", "r1", "text", make([]float64, 3072))); err != nil {
		t.Errorf("Save() 3072-d vector = %v, want nil", err)
	}
	if err := store.Save(seg("seg_2", "r1", "text", make([]float64, 1536))); err == nil {
		t.Error("Save() 1536-d vector in a 3072-d store should fail")
	}

	// Unknown models disable the check rather than rejecting every vector
	open := NewStore(db, llm.DimensionForModel("text-embedding-4-future"))
	if err := open.Save(seg("seg_3", "r1", "text", make([]float64, 4096))); err != nil {
		t.Errorf("Save() with unknown model dimension = %v, want nil", err)
	}
}

func TestStore_RequiresRuleID(t *testing.T) {
	store := testStore(t)

	err := store.Save(seg("seg_1", "", "text", []float64{1, 0, 0}))
	if err == nil {
		t.Error("Save() without rule id should fail")
	}
}

func TestInitSchemaStampsVersion(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("reading user_version: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("user_version = %d, want %d", version, SchemaVersion)
	}
}

func TestVectorBlobRoundTrip(t *testing.T) {
	vec := []float64{0.1, -2.5, 3.14159, 0}
	got := blobToVector(vectorToBlob(vec))

	if len(got) != len(vec) {
		t.Fatalf("round trip length = %d, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("round trip [%d] = %f, want %f", i, got[i], vec[i])
		}
	}
}

// ABOUTME: SQLite schema for segment embedding storage
// ABOUTME: One row per embedded segment, keyed by segment id and owning rule id
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Segment embeddings (vector storage)
CREATE TABLE IF NOT EXISTS embeddings (
    segment_id TEXT PRIMARY KEY,
    rule_id TEXT NOT NULL,
    text TEXT NOT NULL,
    title TEXT,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_embeddings_rule ON embeddings(rule_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1

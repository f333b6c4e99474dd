// Package audit persists decision provenance and reduced-safety invocations
// in SQLite, so experiment runs can be reconstructed after the fact.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/safety"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS safety_invocations (
	id            TEXT PRIMARY KEY,
	level         TEXT NOT NULL,
	experiment_id TEXT,
	variant_id    TEXT,
	agent_id      TEXT,
	removed_terms TEXT,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS decision_log (
	id          TEXT PRIMARY KEY,
	provider_id TEXT NOT NULL,
	agent_id    TEXT,
	source      TEXT NOT NULL,
	reason      TEXT,
	action      TEXT NOT NULL,
	cache_key   TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region records

// DecisionRecord is one provenance row: where a tick's decision came from.
type DecisionRecord struct {
	ID         string
	ProviderID string
	AgentID    string
	Source     string // "heuristic" | "cache" | "model" | "fallback"
	Reason     string
	Action     string
	CacheKey   string
	CreatedAt  time.Time
}

// SafetyRecord is one persisted reduced-safety invocation.
type SafetyRecord struct {
	ID           string
	Level        string
	ExperimentID string
	VariantID    string
	AgentID      string
	RemovedTerms []string
	CreatedAt    time.Time
}

// #endregion records

// #region store

// Store wraps the audit database.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle for read-only tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region safety-sink

// RecordSafetyInvocation implements safety.AuditSink.
func (s *Store) RecordSafetyInvocation(ctx context.Context, inv safety.Invocation) error {
	at := inv.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO safety_invocations (id, level, experiment_id, variant_id, agent_id, removed_terms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		string(inv.Level),
		nullIfEmpty(inv.ExperimentID),
		nullIfEmpty(inv.VariantID),
		nullIfEmpty(inv.AgentID),
		nullIfEmpty(strings.Join(inv.RemovedTerms, ",")),
		at.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record safety invocation: %w", err)
	}
	return nil
}

// #endregion safety-sink

// #region decision-log

// RecordDecision appends one provenance row.
func (s *Store) RecordDecision(ctx context.Context, rec DecisionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decision_log (id, provider_id, agent_id, source, reason, action, cache_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.ProviderID,
		nullIfEmpty(rec.AgentID),
		rec.Source,
		nullIfEmpty(rec.Reason),
		rec.Action,
		nullIfEmpty(rec.CacheKey),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record decision: %w", err)
	}
	return nil
}

// RecentDecisions returns up to n provenance rows, newest first.
func (s *Store) RecentDecisions(ctx context.Context, n int) ([]DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider_id, agent_id, source, reason, action, cache_key, created_at
		 FROM decision_log ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var rec DecisionRecord
		var agentID, reason, cacheKey sql.NullString
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.ProviderID, &agentID, &rec.Source,
			&reason, &rec.Action, &cacheKey, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		rec.AgentID = agentID.String
		rec.Reason = reason.String
		rec.CacheKey = cacheKey.String
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecentSafetyInvocations returns up to n safety rows, newest first.
func (s *Store) RecentSafetyInvocations(ctx context.Context, n int) ([]SafetyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, experiment_id, variant_id, agent_id, removed_terms, created_at
		 FROM safety_invocations ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query safety invocations: %w", err)
	}
	defer rows.Close()

	var out []SafetyRecord
	for rows.Next() {
		var rec SafetyRecord
		var experimentID, variantID, agentID, removed sql.NullString
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Level, &experimentID, &variantID,
			&agentID, &removed, &createdAt); err != nil {
			return nil, fmt.Errorf("scan safety invocation: %w", err)
		}
		rec.ExperimentID = experimentID.String
		rec.VariantID = variantID.String
		rec.AgentID = agentID.String
		if removed.String != "" {
			rec.RemovedTerms = strings.Split(removed.String, ",")
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion decision-log

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

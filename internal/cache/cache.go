// Copyright (c) 2025 The docsage authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides a local transcript cache for offline browsing.
//
// The history panel writes every session list and transcript it fetches
// into this cache; when the backend is unreachable the panel serves the
// cached copies instead of an empty list.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/docsage/docsage-tui/internal/api"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotCached     = errors.New("session not cached")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// TRANSCRIPT CACHE
// =============================================================================

// DefaultMaxSessions bounds the cache so an old install does not grow
// without limit. Oldest sessions are pruned first.
const DefaultMaxSessions = 200

// TranscriptCache stores fetched session lists and transcripts in SQLite.
type TranscriptCache struct {
	db          *sql.DB
	maxSessions int
}

// DefaultPath returns the cache location under the user's config directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "transcripts.db"
	}
	return filepath.Join(home, ".docsage", "transcripts.db")
}

// Open opens (or creates) the transcript cache at the given path.
func Open(path string) (*TranscriptCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite supports a single writer; a second connection only blocks.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := db.Exec(
		`INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(SchemaVersion),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	return &TranscriptCache{db: db, maxSessions: DefaultMaxSessions}, nil
}

// SetMaxSessions overrides the prune limit. Values below 1 keep the default.
func (c *TranscriptCache) SetMaxSessions(n int) {
	if n > 0 {
		c.maxSessions = n
	}
}

// Close closes the underlying database.
func (c *TranscriptCache) Close() error {
	return c.db.Close()
}

// =============================================================================
// SESSION LIST
// =============================================================================

// PutSessions replaces the cached session list.
func (c *TranscriptCache) PutSessions(ctx context.Context, sessions []api.SessionInfo) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for i, s := range sessions {
		// Preserve backend ordering (newest first) in updated_at.
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (session_id, title, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(session_id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
			s.SessionID, s.Title, now-int64(i),
		); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if err := pruneTx(ctx, tx, c.maxSessions); err != nil {
		return err
	}
	return tx.Commit()
}

// Sessions returns the cached session list, most recent first.
func (c *TranscriptCache) Sessions(ctx context.Context) ([]api.SessionInfo, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT session_id, title FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var sessions []api.SessionInfo
	for rows.Next() {
		var s api.SessionInfo
		if err := rows.Scan(&s.SessionID, &s.Title); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		sessions = append(sessions, s)
	}
	if sessions == nil {
		sessions = []api.SessionInfo{}
	}
	return sessions, rows.Err()
}

// =============================================================================
// TRANSCRIPTS
// =============================================================================

// PutHistory replaces the cached transcript of one session.
func (c *TranscriptCache) PutHistory(ctx context.Context, sessionID string, history []api.HistoryMessage) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (session_id, title, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET updated_at = excluded.updated_at`,
		sessionID, titleFromHistory(history), time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	for i, msg := range history {
		sources, err := json.Marshal(msg.Sources)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, position, role, text, sources) VALUES (?, ?, ?, ?, ?)`,
			sessionID, i, msg.Role, msg.Text, string(sources),
		); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if err := pruneTx(ctx, tx, c.maxSessions); err != nil {
		return err
	}
	return tx.Commit()
}

// pruneTx drops the oldest sessions (and their transcripts) beyond limit.
func pruneTx(ctx context.Context, tx *sql.Tx, limit int) error {
	if limit <= 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE session_id IN (
		    SELECT session_id FROM sessions
		    ORDER BY updated_at DESC LIMIT -1 OFFSET ?)`, limit); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id IN (
		    SELECT session_id FROM sessions
		    ORDER BY updated_at DESC LIMIT -1 OFFSET ?)`, limit); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// History returns one cached transcript in message order.
func (c *TranscriptCache) History(ctx context.Context, sessionID string) ([]api.HistoryMessage, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT role, text, sources FROM messages WHERE session_id = ? ORDER BY position`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var history []api.HistoryMessage
	for rows.Next() {
		var msg api.HistoryMessage
		var sources sql.NullString
		if err := rows.Scan(&msg.Role, &msg.Text, &sources); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		if sources.Valid && sources.String != "" && sources.String != "null" {
			if err := json.Unmarshal([]byte(sources.String), &msg.Sources); err != nil {
				msg.Sources = nil
			}
		}
		history = append(history, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if history == nil {
		return nil, ErrNotCached
	}
	return history, nil
}

// DeleteSession removes one session and its transcript from the cache.
func (c *TranscriptCache) DeleteSession(ctx context.Context, sessionID string) error {
	// No ON DELETE CASCADE without foreign_keys pragma; delete both.
	if _, err := c.db.ExecContext(ctx,
		`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := c.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// titleFromHistory derives a display title from the first user message,
// truncated on runes so multi-byte characters stay intact.
func titleFromHistory(history []api.HistoryMessage) string {
	for _, msg := range history {
		if msg.Role == "user" {
			if runes := []rune(msg.Text); len(runes) > 50 {
				return string(runes[:50])
			}
			return msg.Text
		}
	}
	return "Untitled"
}

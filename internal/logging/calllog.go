package logging

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS call_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id     TEXT NOT NULL,
	turn_id        TEXT NOT NULL,
	stage          TEXT NOT NULL,
	user_text      TEXT,
	reply          TEXT,
	extracted_json TEXT,
	decision       TEXT NOT NULL,
	reason         TEXT,
	flags_json     TEXT,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_call_log_session
ON call_log(session_id, created_at);
`

// #endregion schema

// #region log-struct
// CallLog appends per-turn provenance rows to SQLite.
type CallLog struct {
	db *sql.DB
}

// Open opens (or creates) a call log database and runs migrations.
func Open(dbPath string) (*CallLog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open call log: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &CallLog{db: db}, nil
}

// Close closes the underlying database connection.
func (l *CallLog) Close() error {
	return l.db.Close()
}

// DB returns the underlying *sql.DB.
func (l *CallLog) DB() *sql.DB {
	return l.db
}

// #endregion log-struct

// #region append

// Append writes one turn entry.
func (l *CallLog) Append(entry TurnEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.Exec(`
		INSERT INTO call_log
		(session_id, turn_id, stage, user_text, reply, extracted_json,
		 decision, reason, flags_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.TurnID,
		entry.Stage,
		entry.UserText,
		entry.Reply,
		nullIfEmpty(entry.ExtractedJSON),
		entry.Decision,
		nullIfEmpty(entry.Reason),
		nullIfEmpty(entry.FlagsJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// #endregion append

// #region queries

// BySession returns every turn entry for a session in order.
func (l *CallLog) BySession(sessionID string) ([]TurnEntry, error) {
	rows, err := l.db.Query(`
		SELECT session_id, turn_id, stage, user_text, reply, extracted_json,
		       decision, reason, flags_json, created_at
		FROM call_log WHERE session_id = ? ORDER BY created_at ASC, id ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", sessionID, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Recent returns the most recent turn entries across all sessions.
func (l *CallLog) Recent(limit int) ([]TurnEntry, error) {
	rows, err := l.db.Query(`
		SELECT session_id, turn_id, stage, user_text, reply, extracted_json,
		       decision, reason, flags_json, created_at
		FROM call_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Sessions lists distinct session IDs, most recent first.
func (l *CallLog) Sessions(limit int) ([]string, error) {
	rows, err := l.db.Query(`
		SELECT session_id, MAX(created_at) AS latest
		FROM call_log GROUP BY session_id ORDER BY latest DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id, latest string
		if err := rows.Scan(&id, &latest); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]TurnEntry, error) {
	var entries []TurnEntry
	for rows.Next() {
		var e TurnEntry
		var userText, reply, extracted, reason, flags sql.NullString
		var createdStr string
		if err := rows.Scan(&e.SessionID, &e.TurnID, &e.Stage, &userText, &reply,
			&extracted, &e.Decision, &reason, &flags, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.UserText = userText.String
		e.Reply = reply.String
		e.ExtractedJSON = extracted.String
		e.Reason = reason.String
		e.FlagsJSON = flags.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion queries

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

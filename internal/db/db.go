// Package db provides the SQLite database wrapper and model types for briefd.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps *sql.DB and provides migration support.
type DB struct {
	*sql.DB
}

// New opens a SQLite connection with WAL mode and foreign keys enabled.
// Driver name is "sqlite" (modernc.org/sqlite, not mattn/go-sqlite3).
func New(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_journal=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("db.New: open: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db.New: ping: %w", err)
	}
	// Limit to 1 writer at a time to avoid SQLITE_BUSY in WAL mode.
	sqlDB.SetMaxOpenConns(1)
	return &DB{sqlDB}, nil
}

// Migrate runs all CREATE TABLE IF NOT EXISTS migrations exactly once per schema version.
func (d *DB) Migrate() error {
	// Ensure the settings table exists first (holds schema_version).
	if _, err := d.Exec(ddlSettings); err != nil {
		return fmt.Errorf("db.Migrate: settings table: %w", err)
	}

	// Seed user-facing default settings on every startup.
	// INSERT OR IGNORE is idempotent; existing values are never overwritten.
	defaults := []struct{ k, v string }{
		{"telegram_token", ""},
		{"telegram_chat_id", ""},
		{"tracker_url", ""},
		{"briefing_capacity", "2000"},
		{"history_keep", "30"},
	}
	for _, s := range defaults {
		if _, err := d.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, s.k, s.v); err != nil {
			return fmt.Errorf("db.Migrate: seed setting %q: %w", s.k, err)
		}
	}

	// Read current schema version.
	var version int
	row := d.QueryRow(`SELECT value FROM settings WHERE key='schema_version' LIMIT 1`)
	_ = row.Scan(&version) // Ignore scan error; row may not exist yet (version=0).

	if version >= schemaVersion {
		return nil
	}

	tables := []string{
		ddlPins,
		ddlBriefings,
		ddlSchedules,
		ddlWebhooks,
	}

	for _, ddl := range tables {
		if _, err := d.Exec(ddl); err != nil {
			return fmt.Errorf("db.Migrate: %w", err)
		}
	}

	// Upsert schema version.
	_, err := d.Exec(`INSERT INTO settings (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, schemaVersion)
	if err != nil {
		return fmt.Errorf("db.Migrate: schema_version upsert: %w", err)
	}
	return nil
}

const schemaVersion = 1

// ── Model Types ──────────────────────────────────────────────────────────────

// Pin is a persisted per-item override: pinned items always lead their
// section; boost shifts the heuristic score.
type Pin struct {
	ID        int       `json:"id"`
	ItemKind  string    `json:"item_kind"` // "ticket" | "pr"
	ItemID    string    `json:"item_id"`
	Pinned    bool      `json:"pinned"`
	Boost     int       `json:"boost"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Briefing is one stored assembly run.
type Briefing struct {
	ID              string    `json:"id"` // run UUID
	DayPart         string    `json:"day_part"`
	Document        string    `json:"document"`
	Narrative       string    `json:"narrative,omitempty"`
	TokensUsed      int       `json:"tokens_used"`
	TokensRemaining int       `json:"tokens_remaining"`
	SectionsKept    int       `json:"sections_kept"`
	Evicted         string    `json:"evicted,omitempty"` // comma-separated section names
	CreatedAt       time.Time `json:"created_at"`
}

// Schedule defines a cron-triggered briefing run.
type Schedule struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	CronExpr  string       `json:"cron_expr"`
	Enabled   bool         `json:"enabled"`
	NextRun   sql.NullTime `json:"next_run,omitempty"`
	LastRun   sql.NullTime `json:"last_run,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Webhook defines an outbound webhook subscription.
type Webhook struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	URL        string       `json:"url"`
	Events     string       `json:"events"`
	Secret     string       `json:"-"`
	Enabled    bool         `json:"enabled"`
	LastStatus int          `json:"last_status"`
	LastFired  sql.NullTime `json:"last_fired,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// ── DDL Statements ───────────────────────────────────────────────────────────

const ddlSettings = `CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);`

const ddlPins = `CREATE TABLE IF NOT EXISTS pins (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	item_kind  TEXT    NOT NULL,
	item_id    TEXT    NOT NULL,
	pinned     INTEGER NOT NULL DEFAULT 0,
	boost      INTEGER NOT NULL DEFAULT 0,
	note       TEXT    NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(item_kind, item_id)
);`

const ddlBriefings = `CREATE TABLE IF NOT EXISTS briefings (
	id               TEXT PRIMARY KEY,
	day_part         TEXT    NOT NULL DEFAULT '',
	document         TEXT    NOT NULL,
	narrative        TEXT    NOT NULL DEFAULT '',
	tokens_used      INTEGER NOT NULL DEFAULT 0,
	tokens_remaining INTEGER NOT NULL DEFAULT 0,
	sections_kept    INTEGER NOT NULL DEFAULT 0,
	evicted          TEXT    NOT NULL DEFAULT '',
	created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
);`

const ddlSchedules = `CREATE TABLE IF NOT EXISTS schedules (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL,
	cron_expr  TEXT    NOT NULL,
	enabled    INTEGER NOT NULL DEFAULT 1,
	next_run   DATETIME,
	last_run   DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

const ddlWebhooks = `CREATE TABLE IF NOT EXISTS webhooks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT    NOT NULL,
	url         TEXT    NOT NULL,
	events      TEXT    NOT NULL DEFAULT '',
	secret      TEXT    NOT NULL DEFAULT '',
	enabled     INTEGER NOT NULL DEFAULT 1,
	last_status INTEGER NOT NULL DEFAULT 0,
	last_fired  DATETIME,
	created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// ── Pins ─────────────────────────────────────────────────────────────────────

// UpsertPin creates or replaces the override for an item.
func (d *DB) UpsertPin(ctx context.Context, p *Pin) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO pins (item_kind, item_id, pinned, boost, note)
		VALUES (?,?,?,?,?)
		ON CONFLICT(item_kind, item_id)
		DO UPDATE SET pinned=excluded.pinned, boost=excluded.boost, note=excluded.note`,
		p.ItemKind, p.ItemID, p.Pinned, p.Boost, p.Note,
	)
	if err != nil {
		return fmt.Errorf("db.UpsertPin: %w", err)
	}
	return nil
}

// ListPins returns all stored overrides.
func (d *DB) ListPins(ctx context.Context) ([]Pin, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, item_kind, item_id, pinned, boost, note, created_at
		FROM pins ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db.ListPins: %w", err)
	}
	defer rows.Close()

	var pins []Pin
	for rows.Next() {
		var p Pin
		if err := rows.Scan(&p.ID, &p.ItemKind, &p.ItemID, &p.Pinned, &p.Boost, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db.ListPins: scan: %w", err)
		}
		pins = append(pins, p)
	}
	return pins, rows.Err()
}

// DeletePin removes an override by row id.
func (d *DB) DeletePin(ctx context.Context, id int) error {
	_, err := d.ExecContext(ctx, `DELETE FROM pins WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("db.DeletePin: %w", err)
	}
	return nil
}

// ── Briefings ────────────────────────────────────────────────────────────────

// SaveBriefing stores a finished assembly run and prunes history beyond keep.
func (d *DB) SaveBriefing(ctx context.Context, b *Briefing, keep int) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO briefings (id, day_part, document, narrative, tokens_used,
		                       tokens_remaining, sections_kept, evicted)
		VALUES (?,?,?,?,?,?,?,?)`,
		b.ID, b.DayPart, b.Document, b.Narrative,
		b.TokensUsed, b.TokensRemaining, b.SectionsKept, b.Evicted,
	)
	if err != nil {
		return fmt.Errorf("db.SaveBriefing: %w", err)
	}
	if keep > 0 {
		_, err = d.ExecContext(ctx, `
			DELETE FROM briefings WHERE id NOT IN (
				SELECT id FROM briefings ORDER BY created_at DESC, rowid DESC LIMIT ?)`, keep)
		if err != nil {
			return fmt.Errorf("db.SaveBriefing: prune: %w", err)
		}
	}
	return nil
}

// GetBriefing fetches one briefing by run id.
func (d *DB) GetBriefing(ctx context.Context, id string) (*Briefing, error) {
	var b Briefing
	err := d.QueryRowContext(ctx, `
		SELECT id, day_part, document, narrative, tokens_used, tokens_remaining,
		       sections_kept, evicted, created_at
		FROM briefings WHERE id=?`, id,
	).Scan(&b.ID, &b.DayPart, &b.Document, &b.Narrative, &b.TokensUsed,
		&b.TokensRemaining, &b.SectionsKept, &b.Evicted, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db.GetBriefing: %w", err)
	}
	return &b, nil
}

// LatestBriefing returns the most recent briefing, or nil when none exist.
func (d *DB) LatestBriefing(ctx context.Context) (*Briefing, error) {
	var b Briefing
	err := d.QueryRowContext(ctx, `
		SELECT id, day_part, document, narrative, tokens_used, tokens_remaining,
		       sections_kept, evicted, created_at
		FROM briefings ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&b.ID, &b.DayPart, &b.Document, &b.Narrative, &b.TokensUsed,
		&b.TokensRemaining, &b.SectionsKept, &b.Evicted, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.LatestBriefing: %w", err)
	}
	return &b, nil
}

// ListBriefings returns recent briefings without their documents (listing view).
func (d *DB) ListBriefings(ctx context.Context, limit int) ([]Briefing, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, day_part, tokens_used, tokens_remaining, sections_kept, evicted, created_at
		FROM briefings ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("db.ListBriefings: %w", err)
	}
	defer rows.Close()

	var out []Briefing
	for rows.Next() {
		var b Briefing
		if err := rows.Scan(&b.ID, &b.DayPart, &b.TokensUsed, &b.TokensRemaining,
			&b.SectionsKept, &b.Evicted, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("db.ListBriefings: scan: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// GetSetting retrieves a settings value by key, returning fallback if not found.
func (d *DB) GetSetting(key, fallback string) string {
	var v string
	if err := d.QueryRow(`SELECT value FROM settings WHERE key=?`, key).Scan(&v); err != nil {
		return fallback
	}
	return v
}

// SetSetting upserts a settings key-value pair.
func (d *DB) SetSetting(key, value string) error {
	_, err := d.Exec(
		`INSERT INTO settings (key, value) VALUES (?,?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("db.SetSetting: %w", err)
	}
	return nil
}

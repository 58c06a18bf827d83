// Package prefs persists per-installation display preferences in SQLite.
package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/text/language"

	_ "modernc.org/sqlite"
)

// Preference keys as stored.
const (
	keyLanguage      = "language"
	keyTheme         = "theme"
	keyMonthlyBudget = "monthly_budget"
)

// Defaults applied when a key has never been saved.
const (
	DefaultLanguage = "en-IN"
	DefaultTheme    = "dark"
)

// Preferences is the full set of stored display preferences. A zero
// MonthlyBudget means "use the configured default".
type Preferences struct {
	Language      string  `json:"language"`
	Theme         string  `json:"theme"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

// Validate rejects values the dashboard cannot render.
func (p Preferences) Validate() error {
	if _, err := language.Parse(p.Language); err != nil {
		return fmt.Errorf("invalid language tag %q: %w", p.Language, err)
	}
	switch p.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("invalid theme %q: must be light or dark", p.Theme)
	}
	if p.MonthlyBudget < 0 {
		return fmt.Errorf("monthly budget must not be negative")
	}
	return nil
}

// Store is a SQLite-backed preference store.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the preferences database at dbPath and
// migrates its schema.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the stored preferences, filling defaults for unset keys.
func (s *Store) Load(ctx context.Context) (Preferences, error) {
	p := Preferences{
		Language: DefaultLanguage,
		Theme:    DefaultTheme,
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return p, fmt.Errorf("load preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return p, fmt.Errorf("scan preference: %w", err)
		}
		switch key {
		case keyLanguage:
			p.Language = value
		case keyTheme:
			p.Theme = value
		case keyMonthlyBudget:
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				p.MonthlyBudget = v
			}
		}
	}
	if err := rows.Err(); err != nil {
		return p, fmt.Errorf("iterate preferences: %w", err)
	}
	return p, nil
}

// Save validates and upserts the full preference set atomically.
func (s *Store) Save(ctx context.Context, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	entries := map[string]string{
		keyLanguage:      p.Language,
		keyTheme:         p.Theme,
		keyMonthlyBudget: strconv.FormatFloat(p.MonthlyBudget, 'f', -1, 64),
	}
	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, key, value); err != nil {
			return fmt.Errorf("save preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

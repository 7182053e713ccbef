// Package prefs persists user preferences in SQLite. The only preference
// today is the tri-state voice consent flag: absent until the user decides,
// then "enabled" or "disabled" forever (short of an external storage clear).
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/liseuse/dbopen"
)

// Voice is the tri-state voice-consent preference.
type Voice string

const (
	VoiceUnset    Voice = ""
	VoiceEnabled  Voice = "enabled"
	VoiceDisabled Voice = "disabled"
)

const voiceKey = "voice_enabled_pref"

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// Store reads and writes preferences.
type Store struct {
	db *sql.DB
}

// Open initialises the preferences schema on db and returns a Store.
func Open(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("prefs: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Voice returns the persisted consent flag, VoiceUnset if never stored.
func (s *Store) Voice(ctx context.Context) (Voice, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, voiceKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return VoiceUnset, nil
	}
	if err != nil {
		return VoiceUnset, fmt.Errorf("prefs: read voice: %w", err)
	}
	switch Voice(v) {
	case VoiceEnabled, VoiceDisabled:
		return Voice(v), nil
	default:
		return VoiceUnset, nil
	}
}

// SetVoice persists the consent flag. Only the two decided states are
// storable: reverting to unset is an external storage operation, not an
// API of this store.
func (s *Store) SetVoice(ctx context.Context, v Voice) error {
	if v != VoiceEnabled && v != VoiceDisabled {
		return fmt.Errorf("prefs: invalid voice preference %q", v)
	}
	_, err := dbopen.Exec(ctx, s.db, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		voiceKey, string(v), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("prefs: write voice: %w", err)
	}
	return nil
}

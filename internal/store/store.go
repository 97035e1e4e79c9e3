// Package store persists the sign-in list and agent settings as JSON values
// under fixed keys in the local database.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/huepham/openhouse/internal/settings"
	"github.com/huepham/openhouse/internal/visitor"
)

// Fixed storage keys. These match the keys the app has always used, so an
// existing database keeps its data across upgrades.
const (
	visitorsKey = "openhouse.visitors"
	settingsKey = "openhouse.settings"
)

// Store provides load/save access to the two persisted values.
type Store struct {
	db *sql.DB
}

// New creates a store backed by the given database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Visitors loads the persisted sign-in list in insertion order. A missing or
// undecodable value yields an empty list; corruption is never surfaced.
func (s *Store) Visitors() []visitor.Record {
	data, ok := s.get(visitorsKey)
	if !ok {
		return nil
	}

	var list []visitor.Record
	if err := json.Unmarshal(data, &list); err != nil {
		slog.Debug("ignoring undecodable visitor list", "error", err)
		return nil
	}
	return list
}

// SaveVisitors overwrites the persisted sign-in list.
func (s *Store) SaveVisitors(list []visitor.Record) error {
	if list == nil {
		list = []visitor.Record{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshaling visitors: %w", err)
	}
	return s.put(visitorsKey, data)
}

// ClearVisitors removes all persisted sign-ins.
func (s *Store) ClearVisitors() error {
	return s.SaveVisitors(nil)
}

// Settings loads the persisted agent settings. A missing or undecodable
// value yields the defaults.
func (s *Store) Settings() settings.Settings {
	data, ok := s.get(settingsKey)
	if !ok {
		return settings.Default()
	}

	var cfg settings.Settings
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Debug("ignoring undecodable settings", "error", err)
		return settings.Default()
	}
	cfg.Normalize()
	return cfg
}

// SaveSettings overwrites the persisted agent settings.
func (s *Store) SaveSettings(cfg settings.Settings) error {
	cfg.Normalize()
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	return s.put(settingsKey, data)
}

// get reads a raw value by key.
func (s *Store) get(key string) ([]byte, bool) {
	var data []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		slog.Debug("reading stored value", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

// put writes a raw value by key, replacing any existing value.
func (s *Store) put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

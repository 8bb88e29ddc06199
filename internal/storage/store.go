// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists client-side state across restarts.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/obsidian-tui/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// lastChatKey is the state key holding the last active chat id.
	lastChatKey = "last_chat_id"

	dbFileName = "state.db"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_cache (
		position INTEGER PRIMARY KEY,
		chat_id  TEXT NOT NULL,
		title    TEXT NOT NULL
	)`,
}

// =============================================================================
// STORE
// =============================================================================

// Store is the SQLite-backed client state store. It plays the role the
// browser's localStorage plays for the web client: a small key/value
// area plus a chat list cache, never authoritative over the server.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the state database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	path := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	// A single writer keeps "database is locked" errors away.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init state schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// LAST ACTIVE CHAT
// =============================================================================

// LastChatID returns the persisted last active chat id, or "" when
// none is stored.
func (s *Store) LastChatID() (model.ChatID, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM state WHERE key = ?`, lastChatKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read last chat: %w", err)
	}
	return model.ChatID(value), nil
}

// SetLastChatID persists id as the last active chat.
func (s *Store) SetLastChatID(id model.ChatID) error {
	_, err := s.db.Exec(
		`INSERT INTO state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastChatKey, string(id))
	if err != nil {
		return fmt.Errorf("persist last chat: %w", err)
	}
	return nil
}

// ClearLastChatID removes the persisted last active chat. Called when
// the server no longer knows the chat, so the next startup does not
// chase a dead id.
func (s *Store) ClearLastChatID() error {
	_, err := s.db.Exec(`DELETE FROM state WHERE key = ?`, lastChatKey)
	if err != nil {
		return fmt.Errorf("clear last chat: %w", err)
	}
	return nil
}

// =============================================================================
// CHAT LIST CACHE
// =============================================================================

// CacheChatList replaces the cached chat list with summaries, kept in
// the given order.
func (s *Store) CacheChatList(summaries []model.ChatSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("cache chat list: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chat_cache`); err != nil {
		return fmt.Errorf("cache chat list: %w", err)
	}
	for i, c := range summaries {
		_, err := tx.Exec(
			`INSERT INTO chat_cache (position, chat_id, title) VALUES (?, ?, ?)`,
			i, string(c.ID), c.Title)
		if err != nil {
			return fmt.Errorf("cache chat list: %w", err)
		}
	}
	return tx.Commit()
}

// CachedChatList returns the cached chat list in stored order. An
// empty cache yields a nil slice.
func (s *Store) CachedChatList() ([]model.ChatSummary, error) {
	rows, err := s.db.Query(`SELECT chat_id, title FROM chat_cache ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("read chat cache: %w", err)
	}
	defer rows.Close()

	var out []model.ChatSummary
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("read chat cache: %w", err)
		}
		out = append(out, model.ChatSummary{ID: model.ChatID(id), Title: title})
	}
	return out, rows.Err()
}

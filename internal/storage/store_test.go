// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists client-side state across restarts.
package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/obsidian-tui/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LastChatRoundTrip(t *testing.T) {
	s := openTestStore(t)

	id, err := s.LastChatID()
	require.NoError(t, err)
	require.Empty(t, id, "fresh store should have no last chat")

	require.NoError(t, s.SetLastChatID("42"))
	require.NoError(t, s.SetLastChatID("7"))

	id, err = s.LastChatID()
	require.NoError(t, err)
	require.Equal(t, model.ChatID("7"), id)
}

func TestStore_ClearLastChat(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetLastChatID("9"))
	require.NoError(t, s.ClearLastChatID())

	id, err := s.LastChatID()
	require.NoError(t, err)
	require.Empty(t, id)

	// Clearing an already-empty store is fine.
	require.NoError(t, s.ClearLastChatID())
}

func TestStore_ChatCacheReplace(t *testing.T) {
	s := openTestStore(t)

	first := []model.ChatSummary{
		{ID: "1", Title: "alpha"},
		{ID: "2", Title: "beta"},
		{ID: "3", Title: "gamma"},
	}
	require.NoError(t, s.CacheChatList(first))

	second := []model.ChatSummary{
		{ID: "2", Title: "beta renamed"},
	}
	require.NoError(t, s.CacheChatList(second))

	got, err := s.CachedChatList()
	require.NoError(t, err)
	require.Equal(t, second, got)
}

func TestStore_ChatCacheOrder(t *testing.T) {
	s := openTestStore(t)

	list := []model.ChatSummary{
		{ID: "9", Title: "newest"},
		{ID: "4", Title: "middle"},
		{ID: "1", Title: "oldest"},
	}
	require.NoError(t, s.CacheChatList(list))

	got, err := s.CachedChatList()
	require.NoError(t, err)
	require.Equal(t, list, got)
}

func TestStore_EmptyCache(t *testing.T) {
	s := openTestStore(t)

	got, err := s.CachedChatList()
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, s.CacheChatList(nil))
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetLastChatID("11"))
	s.Close()

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	id, err := s2.LastChatID()
	require.NoError(t, err)
	require.Equal(t, model.ChatID("11"), id)
}

// velquity - SMS sales assistant webhook
// Copyright (C) 2025  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

package conversation

import "sync"

// DefaultLimit is the number of turns kept per sender: four exchanges.
const DefaultLimit = 8

// Store maps sender identifiers to their conversation.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the sender's conversation, or an empty one if none exists.
	Get(senderID string) Conversation

	// Set replaces the sender's conversation, keeping only the most recent
	// turns up to the store's limit.
	Set(senderID string, conv Conversation)
}

// MemoryStore is an in-memory Store.  Entries live for the life of the
// process and are never evicted; the number of senders is unbounded.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string]Conversation
	limit int
}

// NewMemoryStore creates a MemoryStore that keeps at most limit turns per
// sender.  A non-positive limit falls back to DefaultLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{
		convs: make(map[string]Conversation),
		limit: limit,
	}
}

// Get returns a copy of the sender's conversation.
func (s *MemoryStore) Get(senderID string) Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.convs[senderID].Last(s.limit)
}

// Set stores the last limit turns of conv for the sender.
func (s *MemoryStore) Set(senderID string, conv Conversation) {
	trimmed := conv.Last(s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[senderID] = trimmed
}

// Limit reports the per-sender turn cap.
func (s *MemoryStore) Limit() int {
	return s.limit
}

// Len returns the number of senders with a stored conversation.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.convs)
}

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

import (
	"context"
	"sync"
)

// Locks serialises work per sender.  A request holding a sender's lock can
// read the history, wait on the completion service, and write the result
// back without another request for the same sender slipping in between and
// losing a turn.  Different senders never block each other.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

// lockEntry is a one-slot semaphore: holding the lock means owning the slot.
type lockEntry struct {
	slot chan struct{}
	refs int
}

// NewLocks returns an empty lock set.
func NewLocks() *Locks {
	return &Locks{entries: make(map[string]*lockEntry)}
}

// Lock blocks until the sender's lock is held and returns the function that
// releases it.
func (l *Locks) Lock(senderID string) (unlock func()) {
	unlock, _ = l.LockContext(context.Background(), senderID)
	return unlock
}

// LockContext is Lock, giving up with ctx.Err() if ctx is done before the
// lock is acquired.  Idle entries are dropped so the map only holds senders
// with requests in flight.
func (l *Locks) LockContext(ctx context.Context, senderID string) (unlock func(), err error) {
	l.mu.Lock()
	e, ok := l.entries[senderID]
	if !ok {
		e = &lockEntry{slot: make(chan struct{}, 1)}
		l.entries[senderID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		l.release(senderID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.slot
			l.release(senderID, e)
		})
	}, nil
}

func (l *Locks) release(senderID string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, senderID)
	}
}

// Active returns the number of senders with a held or awaited lock.
func (l *Locks) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

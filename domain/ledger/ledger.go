package ledger

import (
	"context"
	"sync"
)

// Store persists ledger entries beyond the session lifetime. The in-memory
// ledger is the source of truth during a run; a store is an optional sink.
type Store interface {
	// Append persists entries for a session, preserving order.
	Append(ctx context.Context, sessionID string, entries ...Entry) error
	// List returns all persisted entries for a session in append order.
	List(ctx context.Context, sessionID string) ([]Entry, error)
	// Close releases store resources.
	Close() error
}

// Ledger is the append-only event record for one session.
type Ledger struct {
	sessionID string
	entries   []Entry
	mu        sync.RWMutex
}

// New creates a ledger for the given session.
func New(sessionID string) *Ledger {
	return &Ledger{
		sessionID: sessionID,
		entries:   make([]Entry, 0),
	}
}

// Append adds an entry, stamping it with the session ID.
func (l *Ledger) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.SessionID = l.sessionID
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of all entries.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// EntriesByType returns entries of the given type, in append order.
func (l *Ledger) EntriesByType(t EntryType) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var filtered []Entry
	for _, e := range l.entries {
		if e.Type == t {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Count returns the number of entries.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// SessionID returns the associated session ID.
func (l *Ledger) SessionID() string {
	return l.sessionID
}

// Flush copies all entries into the given store.
func (l *Ledger) Flush(ctx context.Context, store Store) error {
	return store.Append(ctx, l.sessionID, l.Entries()...)
}

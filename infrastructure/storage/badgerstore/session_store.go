package badgerstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/entanglenet/distill-agent/domain/ledger"
)

// SessionStore is a BadgerDB-backed implementation of ledger.Store. Entries
// are keyed by session and a big-endian sequence number, so iteration in key
// order recovers append order.
type SessionStore struct {
	db        *badger.DB
	keyPrefix string
}

// NewSessionStore creates a session store with the given configuration.
func NewSessionStore(cfg Config, opts ...Option) (*SessionStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	return &SessionStore{db: db, keyPrefix: cfg.KeyPrefix}, nil
}

// NewSessionStoreFromDB creates a session store from an existing database.
func NewSessionStoreFromDB(db *badger.DB, keyPrefix string) *SessionStore {
	return &SessionStore{db: db, keyPrefix: keyPrefix}
}

// Key format: prefix:entries:sessionID:sequence (8 bytes, big-endian)
func (s *SessionStore) entryKey(sessionID string, seq uint64) []byte {
	seqBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(seqBytes, seq)
	return append([]byte(s.keyPrefix+"entries:"+sessionID+":"), seqBytes...)
}

// Key format: prefix:seq:sessionID for the per-session sequence counter
func (s *SessionStore) seqKey(sessionID string) []byte {
	return []byte(s.keyPrefix + "seq:" + sessionID)
}

// Append persists entries for a session atomically, preserving order.
func (s *SessionStore) Append(ctx context.Context, sessionID string, entries ...ledger.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var seq uint64
		seqKey := s.seqKey(sessionID)

		item, err := txn.Get(seqKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				if len(val) == 8 {
					seq = binary.BigEndian.Uint64(val)
				}
				return nil
			})
			if err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		for i := range entries {
			e := entries[i]
			if e.ID == "" {
				e.ID = uuid.NewString()
			}
			e.SessionID = sessionID

			data, err := json.Marshal(e)
			if err != nil {
				return err
			}

			seq++
			if err := txn.Set(s.entryKey(sessionID, seq), data); err != nil {
				return err
			}
		}

		seqBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(seqBytes, seq)
		return txn.Set(seqKey, seqBytes)
	})
}

// List returns all persisted entries for a session in append order.
func (s *SessionStore) List(ctx context.Context, sessionID string) ([]ledger.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(s.keyPrefix + "entries:" + sessionID + ":")
	var entries []ledger.Entry

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var e ledger.Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				continue // skip malformed entries
			}
			entries = append(entries, e)
		}
		return nil
	})

	return entries, err
}

// Sessions returns the IDs of all sessions with persisted entries.
func (s *SessionStore) Sessions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(s.keyPrefix + "seq:")
	prefixLen := len(prefix)
	var sessions []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			sessions = append(sessions, string(key[prefixLen:]))
		}
		return nil
	})

	return sessions, err
}

// DeleteSession removes all entries for a session.
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := []byte(s.keyPrefix + "entries:" + sessionID + ":")
	if err := s.db.DropPrefix(prefix); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.seqKey(sessionID))
	})
}

// Close closes the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

// Ensure SessionStore implements ledger.Store
var _ ledger.Store = (*SessionStore)(nil)

// Package storage persists derived addresses in badger so repeated
// derivations for the same inputs skip the bump search.
package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// Store is a badger-backed key/value cache.
type Store struct {
	db *badger.DB
}

// Open opens the store at path. An empty path opens an in-memory store.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Lookup returns a copy of the value stored under key.
func (s *Store) Lookup(key []byte) ([]byte, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Store writes val under key, replacing any previous value.
func (s *Store) Store(key, val []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

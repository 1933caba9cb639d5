package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/wricardo/dicechess/game/service"
)

// sessionKeyPrefix namespaces session records in the key space
const sessionKeyPrefix = "session/"

// BadgerPersistence implements SessionPersistence on an embedded BadgerDB,
// one key per session.
type BadgerPersistence struct {
	db            *badger.DB
	configManager service.ConfigManager
}

// NewBadgerPersistence opens (or creates) a database in dir
func NewBadgerPersistence(dir string, configManager service.ConfigManager) (*BadgerPersistence, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	return openBadger(opts, configManager)
}

// NewInMemoryBadgerPersistence is backed by a non-durable in-memory database
func NewInMemoryBadgerPersistence(configManager service.ConfigManager) (*BadgerPersistence, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return openBadger(opts, configManager)
}

func openBadger(opts badger.Options, configManager service.ConfigManager) (*BadgerPersistence, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return &BadgerPersistence{db: db, configManager: configManager}, nil
}

// Close closes the database
func (bp *BadgerPersistence) Close() error {
	if bp.db != nil {
		return bp.db.Close()
	}
	return nil
}

// Save writes the session record
func (bp *BadgerPersistence) Save(session *service.Session) error {
	data, err := encodeSession(session, false)
	if err != nil {
		return err
	}

	return bp.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(session.ID), data)
	})
}

// Load reads a session record
func (bp *BadgerPersistence) Load(id string) (*service.Session, error) {
	var raw []byte

	err := bp.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	return decodeSession(raw, bp.configManager)
}

// Delete removes a session record
func (bp *BadgerPersistence) Delete(id string) error {
	if !bp.Exists(id) {
		return ErrSessionNotFound
	}

	return bp.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}

// ListAll returns all persisted session IDs
func (bp *BadgerPersistence) ListAll() ([]string, error) {
	var ids []string

	err := bp.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, sessionKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return ids, nil
}

// Exists checks if a session record exists
func (bp *BadgerPersistence) Exists(id string) bool {
	err := bp.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(sessionKey(id))
		return err
	})
	return err == nil
}

func sessionKey(id string) []byte {
	return []byte(sessionKeyPrefix + strings.ToLower(id))
}

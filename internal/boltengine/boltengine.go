// Package boltengine adapts github.com/boltdb/bolt into the engine
// capability abstraction (adapter.Store), the "thin adapter to an
// off-the-shelf embedded store" called for by spec section 9's
// trait-based-dispatch redesign. It shares no state or code with the
// log-structured engine — a directory committed to this engine never sees
// a segment file.
package boltengine

import (
	"path/filepath"

	"github.com/boltdb/bolt"

	kverrors "github.com/ignitedb/ignite/pkg/errors"
)

const databaseFileName = "store.db"

var bucketName = []byte("ignite")

// Engine is a single-bucket key-value store backed by a Bolt database
// file. Every operation is its own transaction — Bolt already serializes
// writers internally, so Engine adds no locking of its own.
type Engine struct {
	db *bolt.DB
}

// Open creates or opens the Bolt database file inside dir.
func Open(dir string) (*Engine, error) {
	db, err := bolt.Open(filepath.Join(dir, databaseFileName), 0644, nil)
	if err != nil {
		return nil, kverrors.NewIOError(err, "failed to open embedded store database")
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, kverrors.NewIOError(err, "failed to create embedded store bucket")
	}

	return &Engine{db: db}, nil
}

// Set stores key=value, satisfying the engine API's `set(key, value) → Ok |
// Io/Encode error` contract (spec section 6.2).
func (e *Engine) Set(key, value string) error {
	if key == "" {
		return kverrors.NewRequiredFieldError("key")
	}
	err := e.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return kverrors.NewIOError(err, "failed to write key to embedded store").WithKey(key)
	}
	return nil
}

// Get returns the value for key, or ok=false if absent.
func (e *Engine) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, kverrors.NewRequiredFieldError("key")
	}

	var value []byte
	var found bool
	err := e.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return "", false, kverrors.NewIOError(err, "failed to read key from embedded store").WithKey(key)
	}
	if !found {
		return "", false, nil
	}
	return string(value), true, nil
}

// Remove deletes key, returning a KeyNotFound-coded error if it was absent
// (mirroring the log-structured engine's remove contract exactly, so the
// two engines are interchangeable behind adapter.Store).
func (e *Engine) Remove(key string) error {
	if key == "" {
		return kverrors.NewRequiredFieldError("key")
	}

	var existed bool
	err := e.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(key)) == nil {
			return nil
		}
		existed = true
		return b.Delete([]byte(key))
	})
	if err != nil {
		return kverrors.NewIOError(err, "failed to remove key from embedded store").WithKey(key)
	}
	if !existed {
		return kverrors.NewKeyNotFoundError(key)
	}
	return nil
}

// Close releases the underlying database file.
func (e *Engine) Close() error {
	if err := e.db.Close(); err != nil {
		return kverrors.NewIOError(err, "failed to close embedded store database")
	}
	return nil
}

// Package ignite provides a persistent key-value data store, inspired by
// Bitcask. It combines an in-memory index with an append-only log
// structure on disk to achieve high throughput, usable directly as a
// library or hosted behind internal/server's network protocol.
package ignite

import (
	"context"

	"github.com/ignitedb/ignite/internal/adapter"
	"github.com/ignitedb/ignite/internal/boltengine"
	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

// Instance is the primary entry point for interacting with an Ignite
// store: it resolves which storage engine owns the configured directory
// and dispatches every operation to it.
type Instance struct {
	store   adapter.Store
	options *options.Options
}

// NewInstance opens (or creates) a store at the configured data directory
// with the requested storage engine. A fresh directory records that engine
// in its marker; reopening a directory whose marker names a different
// engine returns an error.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	resolvedOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolvedOpts)
	}

	kind, err := adapter.Resolve(resolvedOpts.DataDir, resolvedOpts.EngineKind)
	if err != nil {
		return nil, err
	}

	var store adapter.Store
	switch kind {
	case options.EngineKindEmbedded:
		store, err = boltengine.Open(resolvedOpts.DataDir)
	default:
		store, err = engine.Open(&engine.Config{Logger: log, Options: &resolvedOpts})
	}
	if err != nil {
		return nil, err
	}

	return &Instance{store: store, options: &resolvedOpts}, nil
}

// Set stores value under key, overwriting any previous value.
func (i *Instance) Set(ctx context.Context, key, value string) error {
	return i.store.Set(key, value)
}

// Get retrieves the value stored under key. ok is false if key has no
// mapping.
func (i *Instance) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	return i.store.Get(key)
}

// Remove deletes key. Returns a KeyNotFound-coded error if key was absent.
func (i *Instance) Remove(ctx context.Context, key string) error {
	return i.store.Remove(key)
}

// Close releases every resource the instance's storage engine holds.
func (i *Instance) Close(ctx context.Context) error {
	return i.store.Close()
}

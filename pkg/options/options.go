// Package options provides the functional-options configuration for an
// Ignite store: where it persists data, what triggers compaction, and
// which storage engine backs it.
package options

import "strings"

// EngineKind selects which storage engine backs a store. It is persisted
// alongside the data directory (see internal/adapter) so a directory can't
// silently be reopened with a different engine.
type EngineKind string

const (
	// EngineKindLog is the log-structured Bitcask-style engine (spec
	// sections 2-7): this module's primary, fully-specified engine.
	EngineKindLog EngineKind = "kvs"
	// EngineKindEmbedded is the pluggable alternative backed by an
	// embedded B+tree store (spec section 8).
	EngineKindEmbedded EngineKind = "sled"
)

// Options configures an Ignite store.
type Options struct {
	// DataDir is the base path where the store's files live.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// CompactionThreshold is the number of stale bytes accumulated in the
	// log-structured engine before an inline compaction pass runs.
	//
	// Default: 1 MiB
	CompactionThreshold uint64 `json:"compactionThreshold"`

	// EngineKind selects the storage engine. A data directory remembers
	// the engine it was opened with and refuses to be reopened with a
	// different one.
	//
	// Default: EngineKindLog
	EngineKind EngineKind `json:"engineKind"`
}

// OptionFunc modifies Options during construction.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to its library default.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.CompactionThreshold = opts.CompactionThreshold
		o.EngineKind = opts.EngineKind
	}
}

// WithDataDir sets the store's base directory.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactionThreshold sets the stale-byte watermark that triggers
// compaction in the log-structured engine.
func WithCompactionThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold >= MinCompactionThreshold {
			o.CompactionThreshold = threshold
		}
	}
}

// WithEngineKind selects which storage engine a new store uses. Reopening
// an existing directory whose marker names a different engine fails
// (internal/adapter.Resolve returns ErrEngineMismatch).
func WithEngineKind(kind EngineKind) OptionFunc {
	return func(o *Options) {
		if kind == EngineKindLog || kind == EngineKindEmbedded {
			o.EngineKind = kind
		}
	}
}

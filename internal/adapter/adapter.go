// Package adapter selects and guards the storage engine a directory uses.
// It owns the `engine` marker file (spec section 6.1): written once when a
// fresh directory is opened, checked on every reopen, and never touched by
// the engines themselves (spec section 9's trait-based-dispatch redesign).
package adapter

import (
	stdErrors "errors"
	"os"
	"path/filepath"
	"strings"

	kverrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/options"
)

const markerFileName = "engine"

// ErrEngineMismatch is returned by Resolve when a directory's marker names
// a different engine than the one requested.
var ErrEngineMismatch = stdErrors.New("data directory was created with a different storage engine")

// Store is the capability abstraction both storage backends satisfy: the
// log-structured engine (internal/engine) and the embedded-store adapter
// (internal/boltengine). Neither shares state with the other — a directory
// belongs to exactly one engine for its lifetime.
type Store interface {
	Set(key, value string) error
	Get(key string) (string, bool, error)
	Remove(key string) error
	Close() error
}

// Resolve reads (or creates) dir's engine marker, refusing to open dir with
// a different engine than the one it was created with, then returns the
// engine kind the caller should actually construct.
func Resolve(dir string, requested options.EngineKind) (options.EngineKind, error) {
	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return "", kverrors.NewIOError(err, "failed to create data directory")
	}

	markerPath := filepath.Join(dir, markerFileName)
	exists, err := filesys.Exists(markerPath)
	if err != nil {
		return "", kverrors.NewIOError(err, "failed to stat engine marker")
	}

	if !exists {
		if err := writeMarker(markerPath, requested); err != nil {
			return "", err
		}
		return requested, nil
	}

	recorded, err := readMarker(markerPath)
	if err != nil {
		return "", err
	}
	if recorded != requested {
		return "", ErrEngineMismatch
	}
	return recorded, nil
}

func readMarker(path string) (options.EngineKind, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", kverrors.NewIOError(err, "failed to read engine marker")
	}
	kind := options.EngineKind(strings.TrimSpace(string(b)))
	if kind != options.EngineKindLog && kind != options.EngineKindEmbedded {
		return "", kverrors.NewDecodeError(nil, "engine marker contains an unrecognized value")
	}
	return kind, nil
}

func writeMarker(path string, kind options.EngineKind) error {
	if err := os.WriteFile(path, []byte(kind), 0644); err != nil {
		return kverrors.NewIOError(err, "failed to write engine marker")
	}
	return nil
}

package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/pkg/options"
)

func TestResolveWritesMarkerOnFreshDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	kind, err := Resolve(dir, options.EngineKindLog)
	require.NoError(t, err)
	require.Equal(t, options.EngineKindLog, kind)

	b, err := os.ReadFile(filepath.Join(dir, markerFileName))
	require.NoError(t, err)
	require.Equal(t, "kvs", string(b))
}

func TestResolveAcceptsMatchingReopen(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve(dir, options.EngineKindEmbedded)
	require.NoError(t, err)

	kind, err := Resolve(dir, options.EngineKindEmbedded)
	require.NoError(t, err)
	require.Equal(t, options.EngineKindEmbedded, kind)
}

func TestResolveRejectsEngineMismatch(t *testing.T) {
	dir := t.TempDir()
	_, err := Resolve(dir, options.EngineKindLog)
	require.NoError(t, err)

	_, err = Resolve(dir, options.EngineKindEmbedded)
	require.ErrorIs(t, err, ErrEngineMismatch)
}

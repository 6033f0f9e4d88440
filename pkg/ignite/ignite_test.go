package ignite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	kverrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
)

func TestInstanceSetGetRemove(t *testing.T) {
	ctx := context.Background()
	inst, err := NewInstance(ctx, "test", options.WithDataDir(t.TempDir()))
	require.NoError(t, err)
	defer inst.Close(ctx)

	require.NoError(t, inst.Set(ctx, "key1", "value1"))

	val, ok, err := inst.Get(ctx, "key1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value1", val)

	require.NoError(t, inst.Remove(ctx, "key1"))
	err = inst.Remove(ctx, "key1")
	require.True(t, kverrors.IsKeyNotFound(err))
}

func TestInstanceWithEmbeddedEngine(t *testing.T) {
	ctx := context.Background()
	inst, err := NewInstance(ctx, "test",
		options.WithDataDir(t.TempDir()),
		options.WithEngineKind(options.EngineKindEmbedded),
	)
	require.NoError(t, err)
	defer inst.Close(ctx)

	require.NoError(t, inst.Set(ctx, "a", "1"))
	val, ok, err := inst.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", val)
}

func TestReopenWithDifferentEngineIsRejected(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	inst, err := NewInstance(ctx, "test", options.WithDataDir(dir), options.WithEngineKind(options.EngineKindLog))
	require.NoError(t, err)
	require.NoError(t, inst.Close(ctx))

	_, err = NewInstance(ctx, "test", options.WithDataDir(dir), options.WithEngineKind(options.EngineKindEmbedded))
	require.Error(t, err)
}

package engine

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/segment"
	kverrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
)

func testConfig(t *testing.T, threshold uint64) *Config {
	t.Helper()
	return &Config{
		Options: &options.Options{DataDir: t.TempDir(), CompactionThreshold: threshold},
		Logger:  zap.NewNop().Sugar(),
	}
}

func TestSetThenGetRoundTrips(t *testing.T) {
	e, err := Open(testConfig(t, 1<<20))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("key1", "value1"))

	val, ok, err := e.Get("key1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value1", val)
}

func TestGetMissingKeyReturnsNotOkWithoutError(t *testing.T) {
	e, err := Open(testConfig(t, 1<<20))
	require.NoError(t, err)
	defer e.Close()

	_, ok, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveMissingKeyReturnsKeyNotFound(t *testing.T) {
	e, err := Open(testConfig(t, 1<<20))
	require.NoError(t, err)
	defer e.Close()

	err = e.Remove("missing")
	require.True(t, kverrors.IsKeyNotFound(err))
}

func TestRemoveDeletesKey(t *testing.T) {
	e, err := Open(testConfig(t, 1<<20))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("key1", "value1"))
	require.NoError(t, e.Remove("key1"))

	_, ok, err := e.Get("key1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetEmptyValueIsDistinctFromAbsent(t *testing.T) {
	e, err := Open(testConfig(t, 1<<20))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("a", ""))

	val, ok, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "", val)
}

func TestSetEmptyKeyIsRejected(t *testing.T) {
	e, err := Open(testConfig(t, 1<<20))
	require.NoError(t, err)
	defer e.Close()

	err = e.Set("", "value")
	require.True(t, kverrors.IsValidationError(err))
}

func TestOpenRecoversStateFromExistingSegments(t *testing.T) {
	cfg := testConfig(t, 1<<20)

	e, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, e.Set("key1", "value1"))
	require.NoError(t, e.Set("key2", "value2"))
	require.NoError(t, e.Remove("key1"))
	require.NoError(t, e.Close())

	reopened, err := Open(cfg)
	require.NoError(t, err)
	defer reopened.Close()

	_, ok, err := reopened.Get("key1")
	require.NoError(t, err)
	require.False(t, ok)

	val, ok, err := reopened.Get("key2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value2", val)
}

func TestCompactionTriggersAtThresholdAndPreservesData(t *testing.T) {
	e, err := Open(testConfig(t, 256))
	require.NoError(t, err)
	defer e.Close()

	for i := 0; i < 50; i++ {
		require.NoError(t, e.Set("key", fmt.Sprintf("value-%d", i)))
	}

	val, ok, err := e.Get("key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value-49", val)
	require.Less(t, e.staleBytes, uint64(256))
}

func TestOperationsAfterCloseFail(t *testing.T) {
	e, err := Open(testConfig(t, 1<<20))
	require.NoError(t, err)
	require.NoError(t, e.Close())

	err = e.Set("key", "value")
	require.ErrorIs(t, err, ErrEngineClosed)

	err = e.Close()
	require.ErrorIs(t, err, ErrEngineClosed)
}

func TestOverwriteAllKeysBoundsSegmentCount(t *testing.T) {
	cfg := testConfig(t, 64*1024)
	e, err := Open(cfg)
	require.NoError(t, err)
	defer e.Close()

	for i := 0; i < 500; i++ {
		require.NoError(t, e.Set(fmt.Sprintf("key%d", i), fmt.Sprintf("value%d", i)))
	}
	for i := 0; i < 500; i++ {
		require.NoError(t, e.Set(fmt.Sprintf("key%d", i), fmt.Sprintf("VALUE%d", i)))
	}

	val, ok, err := e.Get("key1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "VALUE1", val)
	require.LessOrEqual(t, len(e.segments.Gens()), 2)
}

// appendRaw appends b directly to the on-disk segment file for gen, bypassing
// the engine entirely, to simulate a record that was never cleanly written.
func appendRaw(t *testing.T, dir string, gen uint64, b []byte) {
	t.Helper()
	f, err := os.OpenFile(segment.Path(dir, gen), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Write(b)
	require.NoError(t, err)
}

func TestOpenTreatsTruncatedTrailingRecordAsRecoverable(t *testing.T) {
	cfg := testConfig(t, 1<<20)

	e, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))
	require.NoError(t, e.Close())

	full, err := codec.Encode(codec.SetCommand("c", "3"))
	require.NoError(t, err)
	appendRaw(t, cfg.Options.DataDir, 1, full[:len(full)/2])

	reopened, err := Open(cfg)
	require.NoError(t, err)
	defer reopened.Close()

	val, ok, err := reopened.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", val)

	val, ok, err = reopened.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", val)

	_, ok, err = reopened.Get("c")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenFailsOnMidSegmentCorruption(t *testing.T) {
	cfg := testConfig(t, 1<<20)

	e, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Close())

	trailing, err := codec.Encode(codec.SetCommand("b", "2"))
	require.NoError(t, err)

	var corrupt []byte
	corrupt = append(corrupt, "####not-json####"...)
	corrupt = append(corrupt, trailing...)
	appendRaw(t, cfg.Options.DataDir, 1, corrupt)

	_, err = Open(cfg)
	require.Error(t, err)
	require.True(t, kverrors.IsEngineError(err))
}

package compaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/segment"
)

func writeRecord(t *testing.T, mgr *segment.Manager, idx *index.Index, gen uint64, cmd codec.Command) {
	t.Helper()
	w, err := mgr.Create(gen)
	require.NoError(t, err)
	b, err := codec.Encode(cmd)
	require.NoError(t, err)
	start := w.Pos()
	_, err = w.Write(b)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	if cmd.Op == codec.OpSet {
		idx.Insert(cmd.Key, index.Locator{Gen: gen, Offset: start, Length: int64(len(b))})
	}
}

func TestRunRewritesLiveRecordsAndDeletesOldSegments(t *testing.T) {
	dir := t.TempDir()
	mgr := segment.NewManager(dir)
	defer mgr.Close()
	idx := index.New()

	writeRecord(t, mgr, idx, 1, codec.SetCommand("a", "1"))
	writeRecord(t, mgr, idx, 1, codec.SetCommand("b", "2"))
	writeRecord(t, mgr, idx, 1, codec.SetCommand("a", "overwritten"))

	result, err := Run(mgr, idx, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(3), result.NewActiveGen)
	require.Equal(t, []uint64{1}, result.DeletedGens)

	locA, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, uint64(2), locA.Gen)

	reader, ok := mgr.Reader(locA.Gen)
	require.True(t, ok)
	require.NoError(t, reader.Seek(locA.Offset))
	buf := make([]byte, locA.Length)
	_, err = reader.Read(buf)
	require.NoError(t, err)
	cmd, err := codec.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, "overwritten", cmd.Value)

	gens, err := segment.Enumerate(dir)
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 3}, gens)
}

func TestRunWithEmptyIndexStillBumpsGenerations(t *testing.T) {
	dir := t.TempDir()
	mgr := segment.NewManager(dir)
	defer mgr.Close()
	idx := index.New()

	_, err := mgr.Create(5)
	require.NoError(t, err)

	result, err := Run(mgr, idx, 5)
	require.NoError(t, err)
	require.Equal(t, uint64(7), result.NewActiveGen)
	require.Equal(t, []uint64{5}, result.DeletedGens)
}

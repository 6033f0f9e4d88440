// Package compaction implements the engine's reclaim pass: rewriting every
// live record into one fresh segment and deleting the segments it
// superseded, per the two-generation-bump algorithm (spec section 4.6).
package compaction

import (
	"io"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/segment"
	"github.com/ignitedb/ignite/internal/stream"
	kverrors "github.com/ignitedb/ignite/pkg/errors"
)

// Result carries the state the engine must adopt after a successful
// compaction run.
type Result struct {
	// NewActiveGen is the generation the engine must treat as current_gen
	// going forward.
	NewActiveGen uint64
	// ActiveWriter is already open and positioned at the new active
	// segment's end; the engine adopts it as its writer.
	ActiveWriter *stream.Writer
	// DeletedGens lists every generation the compactor removed, in case
	// the caller wants to log or verify the result.
	DeletedGens []uint64
}

// Run executes one compaction pass. currentGen is the generation of the
// writer segment in use when compaction was triggered; mgr and idx are
// mutated in place as the run proceeds. The caller must already hold
// whatever lock serializes engine access — Run performs no locking of its
// own.
func Run(mgr *segment.Manager, idx *index.Index, currentGen uint64) (Result, error) {
	compactionGen := currentGen + 1
	newActiveGen := currentGen + 2

	// Open the new active segment first so writes landing after compaction
	// finishes go to a segment the compactor never touches.
	activeWriter, err := mgr.Create(newActiveGen)
	if err != nil {
		return Result{}, err
	}

	compactionWriter, err := mgr.Create(compactionGen)
	if err != nil {
		return Result{}, err
	}

	var writePos int64
	type relocation struct {
		key string
		loc index.Locator
	}
	relocations := make([]relocation, 0, idx.Len())

	var copyErr error
	idx.Each(func(key string, loc index.Locator) {
		if copyErr != nil {
			return
		}
		reader, ok := mgr.Reader(loc.Gen)
		if !ok {
			copyErr = kverrors.NewMissingReaderError(key, loc.Gen)
			return
		}
		if err := reader.Seek(loc.Offset); err != nil {
			copyErr = kverrors.NewIOError(err, "failed to seek source segment during compaction").
				WithKey(key).WithLocator(loc.Gen, loc.Offset)
			return
		}
		buf := make([]byte, loc.Length)
		if _, err := io.ReadFull(reader, buf); err != nil {
			copyErr = kverrors.NewIOError(err, "failed to read record during compaction").
				WithKey(key).WithLocator(loc.Gen, loc.Offset)
			return
		}
		if _, err := compactionWriter.Write(buf); err != nil {
			copyErr = kverrors.NewIOError(err, "failed to write record during compaction").
				WithKey(key).WithLocator(compactionGen, writePos)
			return
		}
		relocations = append(relocations, relocation{
			key: key,
			loc: index.Locator{Gen: compactionGen, Offset: writePos, Length: loc.Length},
		})
		writePos += loc.Length
	})
	if copyErr != nil {
		return Result{}, copyErr
	}

	if err := compactionWriter.Close(); err != nil {
		return Result{}, kverrors.NewIOError(err, "failed to flush and close compaction segment")
	}

	for _, r := range relocations {
		idx.Set(r.key, r.loc)
	}

	var deleted []uint64
	for _, gen := range mgr.Gens() {
		if gen < compactionGen {
			if err := mgr.Delete(gen); err != nil {
				return Result{}, err
			}
			deleted = append(deleted, gen)
		}
	}

	return Result{NewActiveGen: newActiveGen, ActiveWriter: activeWriter, DeletedGens: deleted}, nil
}

// Package engine implements the log-structured storage engine: the
// coordinator that ties the segment manager, in-memory index, codec, and
// compactor together into the Get/Set/Remove contract (spec section 4).
//
// An Engine holds a single mutex across every operation. The spec's
// concurrent-writers non-goal means this is not a scalability compromise —
// it's the entire concurrency model: one writer, reads and writes
// serialized, compaction run inline on the triggering call.
package engine

import (
	stdErrors "errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/compaction"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/segment"
	"github.com/ignitedb/ignite/internal/stream"
	kverrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned by any operation attempted after Close.
var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

// Engine is the log-structured key-value engine. It satisfies the store's
// Get/Set/Remove contract directly; pkg/ignite wraps it (or the embedded
// alternative) behind the public facade.
type Engine struct {
	mu sync.Mutex

	dir        string
	log        *zap.SugaredLogger
	threshold  uint64
	segments   *segment.Manager
	index      *index.Index
	writer     *stream.Writer
	currentGen uint64
	staleBytes uint64
	closed     atomic.Bool
}

// Config holds the parameters needed to open an Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Open creates dir if absent, replays every segment found there to rebuild
// the index, and returns a ready-to-use Engine (spec section 4.5, open).
func Open(config *Config) (*Engine, error) {
	dir := config.Options.DataDir
	logger := config.Logger

	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return nil, kverrors.NewIOError(err, "failed to create data directory")
	}

	segments := segment.NewManager(dir)
	gens, err := segment.Enumerate(dir)
	if err != nil {
		return nil, err
	}

	idx := index.New()
	var staleBytes uint64

	for _, gen := range gens {
		if err := segments.OpenReader(gen); err != nil {
			return nil, err
		}
		reader, _ := segments.Reader(gen)
		if err := reader.Seek(0); err != nil {
			return nil, kverrors.NewIOError(err, "failed to seek segment for replay").WithLocator(gen, 0)
		}

		fileSize, sizeErr := segmentSize(dir, gen)
		if sizeErr != nil {
			return nil, sizeErr
		}

		if err := replaySegment(reader, gen, fileSize, idx, &staleBytes); err != nil {
			return nil, err
		}
	}

	var currentGen uint64
	if len(gens) > 0 {
		currentGen = gens[len(gens)-1]
	}
	currentGen++

	writer, err := segments.Create(currentGen)
	if err != nil {
		return nil, err
	}

	logger.Infow("engine opened", "dir", dir, "currentGen", currentGen, "segments", len(gens), "keys", idx.Len())

	return &Engine{
		dir:        dir,
		log:        logger,
		threshold:  config.Options.CompactionThreshold,
		segments:   segments,
		index:      idx,
		writer:     writer,
		currentGen: currentGen,
		staleBytes: staleBytes,
	}, nil
}

// replaySegment stream-decodes records from reader starting at offset 0,
// rebuilding idx and accumulating staleBytes. A decode error exactly at the
// segment's end is treated as a truncated trailing record (spec section
// 7); any earlier decode error is fatal.
func replaySegment(reader *stream.Reader, gen uint64, fileSize int64, idx *index.Index, staleBytes *uint64) error {
	dec := codec.NewDecoder(reader)
	var prevOffset int64

	for {
		cmd, err := dec.Decode()
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			if dec.Offset() >= fileSize {
				return nil
			}
			return kverrors.NewDecodeError(err, "corrupt record encountered during recovery").
				WithLocator(gen, prevOffset)
		}

		newOffset := dec.Offset()
		length := newOffset - prevOffset
		loc := index.Locator{Gen: gen, Offset: prevOffset, Length: length}

		switch cmd.Op {
		case codec.OpSet:
			prev, existed := idx.Insert(cmd.Key, loc)
			if existed {
				*staleBytes += uint64(prev.Length)
			}
		case codec.OpRemove:
			prev, existed := idx.Remove(cmd.Key)
			if existed {
				*staleBytes += uint64(prev.Length)
			}
			*staleBytes += uint64(length)
		}

		prevOffset = newOffset
	}
}

func segmentSize(dir string, gen uint64) (int64, error) {
	info, err := os.Stat(segment.Path(dir, gen))
	if err != nil {
		return 0, kverrors.NewIOError(err, "failed to stat segment").WithLocator(gen, 0)
	}
	return info.Size(), nil
}

// Set writes key=value to the active segment and updates the index,
// triggering compaction if the stale-byte threshold is crossed (spec
// section 4.5, set).
func (e *Engine) Set(key, value string) error {
	if key == "" {
		return kverrors.NewRequiredFieldError("key")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return ErrEngineClosed
	}

	cmd := codec.SetCommand(key, value)
	b, err := codec.Encode(cmd)
	if err != nil {
		return kverrors.NewDecodeError(err, "failed to encode set command").WithKey(key)
	}

	start := e.writer.Pos()
	if _, err := e.writer.Write(b); err != nil {
		return kverrors.NewIOError(err, "failed to write set record").WithKey(key)
	}
	if err := e.writer.Flush(); err != nil {
		return kverrors.NewIOError(err, "failed to flush set record").WithKey(key)
	}

	length := e.writer.Pos() - start
	prev, existed := e.index.Insert(key, index.Locator{Gen: e.currentGen, Offset: start, Length: length})
	if existed {
		e.staleBytes += uint64(prev.Length)
	}

	return e.maybeCompact()
}

// Get returns the value for key, or ok=false if key has no mapping (spec
// section 4.5, get).
func (e *Engine) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, kverrors.NewRequiredFieldError("key")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}

	loc, ok := e.index.Get(key)
	if !ok {
		return "", false, nil
	}

	cmd, err := e.readAt(key, loc)
	if err != nil {
		return "", false, err
	}
	if cmd.Op != codec.OpSet {
		return "", false, kverrors.NewUnexpectedCommandTypeError(key, loc.Gen, loc.Offset)
	}

	return cmd.Value, true, nil
}

// Remove deletes key, returning a KeyNotFound-coded error if it had no
// mapping (spec section 4.5, remove).
func (e *Engine) Remove(key string) error {
	if key == "" {
		return kverrors.NewRequiredFieldError("key")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return ErrEngineClosed
	}

	prevLoc, existed := e.index.Get(key)
	if !existed {
		return kverrors.NewKeyNotFoundError(key)
	}

	cmd := codec.RemoveCommand(key)
	b, err := codec.Encode(cmd)
	if err != nil {
		return kverrors.NewDecodeError(err, "failed to encode remove command").WithKey(key)
	}

	start := e.writer.Pos()
	if _, err := e.writer.Write(b); err != nil {
		return kverrors.NewIOError(err, "failed to write remove record").WithKey(key)
	}
	if err := e.writer.Flush(); err != nil {
		return kverrors.NewIOError(err, "failed to flush remove record").WithKey(key)
	}
	length := e.writer.Pos() - start

	e.index.Remove(key)
	e.staleBytes += uint64(prevLoc.Length)
	e.staleBytes += uint64(length)

	return e.maybeCompact()
}

func (e *Engine) readAt(key string, loc index.Locator) (codec.Command, error) {
	reader, ok := e.segments.Reader(loc.Gen)
	if !ok {
		return codec.Command{}, kverrors.NewMissingReaderError(key, loc.Gen)
	}
	if err := reader.Seek(loc.Offset); err != nil {
		return codec.Command{}, kverrors.NewIOError(err, "failed to seek to record").
			WithKey(key).WithLocator(loc.Gen, loc.Offset)
	}

	buf := make([]byte, loc.Length)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return codec.Command{}, kverrors.NewIOError(err, "failed to read record").
			WithKey(key).WithLocator(loc.Gen, loc.Offset)
	}

	cmd, err := codec.Decode(buf)
	if err != nil {
		return codec.Command{}, kverrors.NewDecodeError(err, "failed to decode record").
			WithKey(key).WithLocator(loc.Gen, loc.Offset)
	}
	return cmd, nil
}

// maybeCompact runs compaction inline when staleBytes has crossed the
// configured threshold. Caller must hold e.mu.
func (e *Engine) maybeCompact() error {
	if e.staleBytes < e.threshold {
		return nil
	}

	e.log.Infow("compaction triggered", "staleBytes", e.staleBytes, "threshold", e.threshold, "currentGen", e.currentGen)

	if err := e.writer.Flush(); err != nil {
		return kverrors.NewIOError(err, "failed to flush active writer before compaction")
	}

	result, err := compaction.Run(e.segments, e.index, e.currentGen)
	if err != nil {
		return err
	}

	oldWriter := e.writer
	e.writer = result.ActiveWriter
	e.currentGen = result.NewActiveGen
	e.staleBytes = 0
	if err := oldWriter.Close(); err != nil {
		e.log.Warnw("failed to close superseded writer", "error", err)
	}

	e.log.Infow("compaction finished", "newActiveGen", e.currentGen, "deletedSegments", result.DeletedGens)
	return nil
}

// Close releases every file descriptor the engine holds. Safe to call once;
// a second call returns ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	var closeErr error
	if err := e.writer.Close(); err != nil {
		closeErr = multierr.Append(closeErr, kverrors.NewIOError(err, "failed to close active writer"))
	}
	if err := e.segments.Close(); err != nil {
		closeErr = multierr.Append(closeErr, err)
	}
	return closeErr
}

// Package segment manages the numbered, append-only log files that make up
// the engine's on-disk state: `<gen>.log`, one writer for the active
// generation and one reader per generation present on disk.
package segment

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	kverrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/internal/stream"
)

const extension = ".log"

// Path returns the canonical on-disk path for generation gen within dir.
func Path(dir string, gen uint64) string {
	return filepath.Join(dir, strconv.FormatUint(gen, 10)+extension)
}

// Enumerate lists the generation numbers of every `<u64>.log` file in dir,
// ascending by numeric value. Files that don't match the naming convention
// are ignored rather than rejected, since a data directory may carry
// unrelated files (the engine marker, for one).
func Enumerate(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, kverrors.NewIOError(err, "failed to read segment directory")
	}

	var gens []uint64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, extension) {
			continue
		}
		base := strings.TrimSuffix(name, extension)
		gen, err := strconv.ParseUint(base, 10, 64)
		if err != nil {
			continue
		}
		gens = append(gens, gen)
	}

	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens, nil
}

// Manager owns a reader per present generation; the writers Create returns
// belong to the caller. It is not safe for concurrent use without external
// synchronization — the engine holds a single mutex across all calls.
type Manager struct {
	dir     string
	readers map[uint64]*stream.Reader
}

// NewManager creates a Manager rooted at dir. dir must already exist.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir, readers: make(map[uint64]*stream.Reader)}
}

// Create opens (creating if absent) the segment file for gen, registers a
// reader for it, and returns a positioned Writer appending to it.
func (m *Manager) Create(gen uint64) (*stream.Writer, error) {
	path := Path(m.dir, gen)

	writeFile, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, kverrors.NewIOError(err, "failed to open segment for append").
			WithLocator(gen, 0)
	}
	w, err := stream.NewWriter(writeFile)
	if err != nil {
		writeFile.Close()
		return nil, kverrors.NewIOError(err, "failed to position segment writer").
			WithLocator(gen, 0)
	}

	if err := m.openReaderLocked(gen, path); err != nil {
		w.Close()
		return nil, err
	}

	return w, nil
}

// OpenReader registers a reader for an existing generation discovered on
// disk (used during recovery, where the caller doesn't need a writer).
func (m *Manager) OpenReader(gen uint64) error {
	if _, ok := m.readers[gen]; ok {
		return nil
	}
	return m.openReaderLocked(gen, Path(m.dir, gen))
}

func (m *Manager) openReaderLocked(gen uint64, path string) error {
	readFile, err := os.Open(path)
	if err != nil {
		return kverrors.NewIOError(err, "failed to open segment for read").
			WithLocator(gen, 0)
	}
	m.readers[gen] = stream.NewReader(readFile)
	return nil
}

// Reader returns the reader registered for gen, or false if none is
// registered — the internal-consistency failure spec section 9 calls out
// distinctly from a user-facing KeyNotFound.
func (m *Manager) Reader(gen uint64) (*stream.Reader, bool) {
	r, ok := m.readers[gen]
	return r, ok
}

// Delete closes the reader registered for gen, if any, and unlinks its
// segment file.
func (m *Manager) Delete(gen uint64) error {
	if r, ok := m.readers[gen]; ok {
		r.Close()
		delete(m.readers, gen)
	}
	if err := os.Remove(Path(m.dir, gen)); err != nil && !os.IsNotExist(err) {
		return kverrors.NewIOError(err, "failed to delete segment").WithLocator(gen, 0)
	}
	return nil
}

// Gens returns the generations currently registered with a reader.
func (m *Manager) Gens() []uint64 {
	gens := make([]uint64, 0, len(m.readers))
	for gen := range m.readers {
		gens = append(gens, gen)
	}
	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens
}

// Close closes every registered reader. Callers are responsible for closing
// the active writer separately, since the Manager never owns it directly.
func (m *Manager) Close() error {
	var first error
	for gen, r := range m.readers {
		if err := r.Close(); err != nil && first == nil {
			first = kverrors.NewIOError(err, "failed to close segment reader").WithLocator(gen, 0)
		}
	}
	m.readers = make(map[uint64]*stream.Reader)
	return first
}

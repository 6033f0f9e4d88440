// Package index provides the in-memory key -> locator table that lets the
// engine answer a Get with one positioned read instead of a log scan.
package index

// Locator identifies exactly where a record lives on disk: which segment
// generation, the byte offset within it, and the byte span the encoded
// record occupies there.
type Locator struct {
	Gen    uint64
	Offset int64
	Length int64
}

// Index is a plain key -> Locator map. It carries no internal locking: the
// engine holds a single mutex across every operation that touches the
// index (spec's concurrent-writers non-goal), so a second lock here would
// only add overhead.
type Index struct {
	entries map[string]Locator
}

// New creates an empty Index.
func New() *Index {
	return &Index{entries: make(map[string]Locator)}
}

// Get returns the locator for key, if present.
func (idx *Index) Get(key string) (Locator, bool) {
	loc, ok := idx.entries[key]
	return loc, ok
}

// Insert records key's locator, returning the previous locator if key was
// already present — the caller uses this to add the stale locator's length
// to the engine's stale-byte counter.
func (idx *Index) Insert(key string, loc Locator) (Locator, bool) {
	prev, existed := idx.entries[key]
	idx.entries[key] = loc
	return prev, existed
}

// Remove deletes key from the index, returning its locator if present.
func (idx *Index) Remove(key string) (Locator, bool) {
	loc, ok := idx.entries[key]
	if ok {
		delete(idx.entries, key)
	}
	return loc, ok
}

// Len returns the number of live keys.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Each calls fn for every key/locator pair, in unspecified order. Used by
// the compactor to rewrite every live record.
func (idx *Index) Each(fn func(key string, loc Locator)) {
	for key, loc := range idx.entries {
		fn(key, loc)
	}
}

// Set overwrites the locator for key unconditionally — used by the
// compactor to rewrite a key's locator in place. Unlike Insert it returns
// no previous locator, so nothing is fed into stale-byte accounting.
func (idx *Index) Set(key string, loc Locator) {
	idx.entries[key] = loc
}

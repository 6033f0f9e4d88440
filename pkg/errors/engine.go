package errors

// EngineError is the error type returned by the storage engine and its
// collaborators (segment manager, index, compactor). It embeds baseError for
// the common message/code/cause/details machinery and adds the location
// context that actually matters for this domain: which key, and where on
// disk, was involved.
type EngineError struct {
	*baseError
	key string // Key being processed when the error occurred, if any.
	gen uint64 // Segment generation involved, if any.
	off int64  // Byte offset within that segment, if any.
}

// NewEngineError creates a new engine-domain error.
func NewEngineError(err error, code ErrorCode, msg string) *EngineError {
	return &EngineError{baseError: NewBaseError(err, code, msg)}
}

// WithKey records which key was being processed.
func (e *EngineError) WithKey(key string) *EngineError {
	e.key = key
	return e
}

// WithLocator records which segment generation and byte offset were involved.
func (e *EngineError) WithLocator(gen uint64, offset int64) *EngineError {
	e.gen = gen
	e.off = offset
	return e
}

// Key returns the key that was being processed when the error occurred.
func (e *EngineError) Key() string { return e.key }

// Generation returns the segment generation involved in the error, if any.
func (e *EngineError) Generation() uint64 { return e.gen }

// Offset returns the byte offset within the segment involved, if any.
func (e *EngineError) Offset() int64 { return e.off }

// NewIOError wraps an underlying file-operation failure.
func NewIOError(cause error, msg string) *EngineError {
	return NewEngineError(cause, ErrorCodeIO, msg)
}

// NewDecodeError wraps a failure to parse a command record.
func NewDecodeError(cause error, msg string) *EngineError {
	return NewEngineError(cause, ErrorCodeDecode, msg)
}

// NewKeyNotFoundError reports a remove on a key absent from the index. This
// is a normal, user-visible outcome, not a crash (spec section 7).
func NewKeyNotFoundError(key string) *EngineError {
	return NewEngineError(nil, ErrorCodeKeyNotFound, "key not found").WithKey(key)
}

// NewUnexpectedCommandTypeError reports that the record at a known locator
// decoded to a variant other than Set — an invariant violation, distinct
// from the index's own user-level KeyNotFound.
func NewUnexpectedCommandTypeError(key string, gen uint64, offset int64) *EngineError {
	return NewEngineError(nil, ErrorCodeUnexpectedCommandType, "record at locator is not a Set").
		WithKey(key).
		WithLocator(gen, offset)
}

// NewMissingReaderError reports that the index holds a locator for a
// generation with no registered reader — an internal consistency failure,
// surfaced distinctly from the user-level KeyNotFound per spec section 9.
func NewMissingReaderError(key string, gen uint64) *EngineError {
	return NewEngineError(nil, ErrorCodeInternal, "no reader registered for locator's generation").
		WithKey(key).
		WithLocator(gen, 0)
}

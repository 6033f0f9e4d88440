package errors

// ErrorCode categorizes an error for programmatic handling, without callers
// needing to parse messages or match on underlying types.
type ErrorCode string

// The full error taxonomy this system surfaces. Four kinds come directly
// from the engine's contract; two more (invalid input, internal) cover
// preconditions and invariant violations that aren't user-facing outcomes.
const (
	// ErrorCodeIO represents a failed file operation: open, read, write,
	// seek, flush, or delete of a segment file.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeDecode represents a segment containing bytes that did not
	// parse as a command record, encountered during recovery or a lookup.
	// It is also used when a command or a network frame fails to encode or
	// decode, and when the engine marker holds an unrecognized value.
	ErrorCodeDecode ErrorCode = "DECODE_ERROR"

	// ErrorCodeKeyNotFound represents remove (or, on the protocol surface,
	// a remove-not-found) on a key absent from the index.
	ErrorCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrorCodeUnexpectedCommandType represents a record at a known locator
	// decoding to a variant inconsistent with the index: corruption or a
	// bug, never a normal outcome.
	ErrorCodeUnexpectedCommandType ErrorCode = "UNEXPECTED_COMMAND_TYPE"

	// ErrorCodeInvalidInput represents a caller-supplied value violating a
	// precondition, such as an empty key.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents an invariant violation that isn't one of
	// the above, e.g. a locator referencing a generation with no registered
	// reader.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Package errors provides the structured error types the storage engine and
// its collaborators use to report failures: a small error-code taxonomy
// attached to rich, chainable error values instead of ad hoc fmt.Errorf
// strings, so callers can branch on what happened rather than parse a
// message.
package errors

import (
	stdErrors "errors"
)

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsEngineError reports whether err is, or wraps, an EngineError.
func IsEngineError(err error) bool {
	var ee *EngineError
	return stdErrors.As(err, &ee)
}

// IsKeyNotFound reports whether err is the engine's KeyNotFound outcome.
// This is the one EngineError kind that's a normal, expected result rather
// than a failure (spec section 7).
func IsKeyNotFound(err error) bool {
	var ee *EngineError
	return stdErrors.As(err, &ee) && ee.Code() == ErrorCodeKeyNotFound
}

// AsValidationError extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsEngineError extracts an EngineError from an error chain.
func AsEngineError(err error) (*EngineError, bool) {
	var ee *EngineError
	if stdErrors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that carries one, or
// returns ErrorCodeInternal for errors that don't.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if ee, ok := AsEngineError(err); ok {
		return ee.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails extracts the structured detail map from any error that
// carries one. Returns nil if err doesn't wrap a baseError-backed type.
func GetErrorDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok {
		return ve.Details()
	}
	if ee, ok := AsEngineError(err); ok {
		return ee.Details()
	}
	return nil
}

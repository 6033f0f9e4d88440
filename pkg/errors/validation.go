package errors

// ValidationError is a specialized error type for input validation failures.
// It embeds baseError, adding the field/rule context needed to say exactly
// what precondition a caller-supplied value violated.
type ValidationError struct {
	*baseError
	field string
	rule  string
}

// NewValidationError creates a new validation-specific error.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// WithField sets which field failed validation.
func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

// WithRule specifies which validation rule was violated.
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// Field returns the field name that failed validation.
func (ve *ValidationError) Field() string { return ve.field }

// Rule returns the validation rule that was violated.
func (ve *ValidationError) Rule() string { return ve.rule }

// NewRequiredFieldError reports a missing or empty required field. Used for
// the engine's one precondition: keys must be non-empty.
func NewRequiredFieldError(fieldName string) *ValidationError {
	return NewValidationError(
		nil,
		ErrorCodeInvalidInput,
		"required field is missing or empty",
	).WithField(fieldName).WithRule("required")
}

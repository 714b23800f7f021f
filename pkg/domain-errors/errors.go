// Package domainerrors carries the typed failure taxonomy shared by the sales
// and product services. Transport layers map codes to user-visible responses;
// services never return bare strings for business failures.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure.
type Code string

const (
	// CodeInvalidArgument marks malformed input caught by constructors.
	CodeInvalidArgument Code = "invalid_argument"
	// CodeValidation marks a business rejection that needs external state
	// (duplicate sale number, catalog price mismatch) or a field-level rule.
	CodeValidation Code = "validation_error"
	// CodeNotFound marks a referenced sale or product that does not exist.
	CodeNotFound Code = "not_found"
	// CodeDomainRule marks an aggregate-internal invariant violation.
	CodeDomainRule Code = "domain_rule_violation"
	// CodeTimeout marks an operation abandoned because its context ended.
	CodeTimeout Code = "timeout"
	// CodeInternal marks collaborator failures with no business meaning.
	CodeInternal Code = "internal_error"
)

// Error is a coded failure with optional entity context.
type Error struct {
	Code    Code
	Message string
	// Entity and Key are set for NotFound failures.
	Entity string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to a cause. A nil cause yields nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// NotFound reports that entity identified by key does not exist.
func NotFound(entity string, key any) *Error {
	k := fmt.Sprint(key)
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("entity %q (%s) was not found", entity, k),
		Entity:  entity,
		Key:     k,
	}
}

// CodeOf returns the code of the first coded error in err's chain, or
// CodeInternal when none is present.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsClientFault reports whether code belongs to the caller-fault category.
func IsClientFault(code Code) bool {
	switch code {
	case CodeInvalidArgument, CodeValidation, CodeDomainRule:
		return true
	}
	return false
}

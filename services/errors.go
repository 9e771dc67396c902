// services/errors.go
package services

import "fmt"

// ErrorKind classifies ledger failures so controllers can map them to
// HTTP statuses without parsing messages.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindInvariant  ErrorKind = "invariant_violation"
	KindScope      ErrorKind = "scope_violation"
)

// Error is a typed ledger failure. All four kinds are detected before any
// write is committed; anything else bubbling out of a service is a plain
// storage error and safe to retry.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Invariantf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvariant, Message: fmt.Sprintf(format, args...)}
}

func Scopef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindScope, Message: fmt.Sprintf(format, args...)}
}

package domain

import "errors"

// ErrorKind classifies a failure so that the retry combinator and the route
// handlers can inspect it explicitly instead of matching on error strings.
type ErrorKind int

const (
	// ErrorKindInternal is the fallback for anything unclassified.
	ErrorKindInternal ErrorKind = iota

	// ErrorKindValidation marks a malformed inbound request. Never retried.
	ErrorKindValidation

	// ErrorKindUpstreamTransient marks a rate limit or upstream outage,
	// likely to succeed on retry.
	ErrorKindUpstreamTransient

	// ErrorKindUpstreamFatal marks an auth/config/bad-request failure
	// against the upstream. Never retried.
	ErrorKindUpstreamFatal

	// ErrorKindStorage marks a session store read or write failure.
	ErrorKindStorage

	// ErrorKindNotFound marks an empty result the client asked for.
	ErrorKindNotFound
)

// Error tags an underlying error with a kind. The wrapped error stays
// reachable through errors.Is/As so root causes are never hidden.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func ValidationError(err error) *Error { return NewError(ErrorKindValidation, err) }

func TransientError(err error) *Error { return NewError(ErrorKindUpstreamTransient, err) }

func FatalError(err error) *Error { return NewError(ErrorKindUpstreamFatal, err) }

func StorageError(err error) *Error { return NewError(ErrorKindStorage, err) }

func NotFoundError(err error) *Error { return NewError(ErrorKindNotFound, err) }

// KindOf returns the kind of the nearest *Error in err's chain, or
// ErrorKindInternal if none is present.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindInternal
}

// IsTransient reports whether err should trigger another attempt.
func IsTransient(err error) bool {
	return KindOf(err) == ErrorKindUpstreamTransient
}

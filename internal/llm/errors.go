package llm

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the ways a completion call can fail.
type ErrorKind string

const (
	// KindRequest covers transport failures: the request never produced an
	// HTTP response (network error, timeout, context cancellation).
	KindRequest ErrorKind = "request"
	// KindStatus covers non-2xx responses from the API.
	KindStatus ErrorKind = "status"
	// KindParse covers responses that arrived but did not match the expected
	// shape (non-JSON where JSON was expected, missing SVG delimiters, ...).
	KindParse ErrorKind = "parse"
)

// Error is the uniform failure type for all Tutor operations.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func requestErr(op string, err error) *Error {
	return &Error{Kind: KindRequest, Op: op, Err: err}
}

func statusErr(op string, code int, body string) *Error {
	return &Error{Kind: KindStatus, Op: op, Err: fmt.Errorf("api returned %d: %s", code, body)}
}

func parseErr(op, format string, args ...any) *Error {
	return &Error{Kind: KindParse, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of an llm error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

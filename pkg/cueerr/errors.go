// Package cueerr defines the errors returned by the Cuebot client.
//
// Every failure raised by the client is a CueError, so callers can handle
// the whole family at once or match a specific variant:
//
//	var ce cueerr.CueError
//	if errors.As(err, &ce) {
//		// any client-side failure
//	}
//
//	var pe *cueerr.ProxyCreationError
//	if errors.As(err, &pe) {
//		// only failures to create a Cuebot proxy
//	}
//
// The sentinels ErrCue and ErrProxyCreation support the same distinction
// through errors.Is.
package cueerr

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. They are never returned directly.
var (
	// ErrCue matches every client-side error.
	ErrCue = errors.New("cue error")

	// ErrProxyCreation matches only proxy-creation failures.
	ErrProxyCreation = errors.New("cuebot proxy creation failed")
)

// Kind names the variant of a CueError.
type Kind string

const (
	KindGeneric       Kind = "cue-error"
	KindProxyCreation Kind = "proxy-creation-error"
)

func (k Kind) String() string { return string(k) }

// CueError is implemented by every error type in this package.
type CueError interface {
	error
	// Message returns the message the error was constructed with.
	Message() string
	Kind() Kind
	cueError()
}

type base struct {
	msg string
	err error
}

func (b *base) Error() string {
	switch {
	case b.err == nil:
		return b.msg
	case b.msg == "":
		return b.err.Error()
	default:
		return b.msg + ": " + b.err.Error()
	}
}

func (b *base) Message() string { return b.msg }

func (b *base) Unwrap() error { return b.err }

func (*base) cueError() {}

// Error is the base type for all client side cue errors.
type Error struct {
	base
}

// New returns an Error with the given message.
func New(msg string) *Error {
	return &Error{base{msg: msg}}
}

// Newf formats according to a format specifier and returns an Error.
func Newf(format string, args ...any) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap returns an Error with the given message whose cause is err.
func Wrap(err error, msg string) *Error {
	return &Error{base{msg: msg, err: err}}
}

func (e *Error) Kind() Kind { return KindGeneric }

func (e *Error) Is(target error) bool { return target == ErrCue }

// ProxyCreationError reports that a handle to a Cuebot host could not be
// created. It is also an Error for matching purposes.
type ProxyCreationError struct {
	base

	// Host is the Cuebot address that failed, if a single one is to blame.
	Host string
}

// NewProxyCreationError returns a ProxyCreationError with the given message.
func NewProxyCreationError(msg string) *ProxyCreationError {
	return &ProxyCreationError{base: base{msg: msg}}
}

// ProxyCreationErrorf formats according to a format specifier and returns a
// ProxyCreationError.
func ProxyCreationErrorf(format string, args ...any) *ProxyCreationError {
	return NewProxyCreationError(fmt.Sprintf(format, args...))
}

// WrapProxyCreation returns a ProxyCreationError for host whose cause is err.
// host may be empty when the failure spans several hosts.
func WrapProxyCreation(err error, host, msg string) *ProxyCreationError {
	return &ProxyCreationError{base: base{msg: msg, err: err}, Host: host}
}

func (e *ProxyCreationError) Kind() Kind { return KindProxyCreation }

func (e *ProxyCreationError) Is(target error) bool {
	return target == ErrProxyCreation || target == ErrCue
}

// Is reports whether any error in err's chain is a CueError.
func Is(err error) bool {
	return errors.Is(err, ErrCue)
}

// IsProxyCreation reports whether any error in err's chain is a
// ProxyCreationError.
func IsProxyCreation(err error) bool {
	return errors.Is(err, ErrProxyCreation)
}

// As returns the first CueError in err's chain.
func As(err error) (CueError, bool) {
	var ce CueError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// KindOf returns the kind of the first CueError in err's chain, or the empty
// Kind if there is none.
func KindOf(err error) Kind {
	if ce, ok := As(err); ok {
		return ce.Kind()
	}
	return ""
}

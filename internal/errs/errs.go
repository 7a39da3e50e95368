// Package errs defines the typed failure kinds surfaced by resolve and relay
// operations. Adapters reclassify every upstream failure into one of these
// kinds so callers never see raw transport errors.
package errs

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	Unknown Kind = iota
	InvalidInput
	UnsupportedPlatform
	TokenNotFound
	UpstreamUnavailable
	ParseFailure
	AllTiersExhausted
	TimedOut
	NoMediaFound
	ProxyUnavailable
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case UnsupportedPlatform:
		return "unsupported_platform"
	case TokenNotFound:
		return "token_not_found"
	case UpstreamUnavailable:
		return "upstream_unavailable"
	case ParseFailure:
		return "parse_failure"
	case AllTiersExhausted:
		return "all_tiers_exhausted"
	case TimedOut:
		return "timed_out"
	case NoMediaFound:
		return "no_media_found"
	case ProxyUnavailable:
		return "proxy_unavailable"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the operation that failed
// (e.g. "spotify: fetch track data").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so the package
// sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidInput        = &Error{Kind: InvalidInput}
	ErrUnsupportedPlatform = &Error{Kind: UnsupportedPlatform}
	ErrTokenNotFound       = &Error{Kind: TokenNotFound}
	ErrUpstreamUnavailable = &Error{Kind: UpstreamUnavailable}
	ErrParseFailure        = &Error{Kind: ParseFailure}
	ErrAllTiersExhausted   = &Error{Kind: AllTiersExhausted}
	ErrTimedOut            = &Error{Kind: TimedOut}
	ErrNoMediaFound        = &Error{Kind: NoMediaFound}
	ErrProxyUnavailable    = &Error{Kind: ProxyUnavailable}
)

// E builds a classified error. A nil err is allowed.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Fatal reports whether err must stop any further fallback attempts.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	switch KindOf(err) {
	case InvalidInput, UnsupportedPlatform:
		return true
	}
	return false
}

// FromContext classifies a context error: an expired deadline is TimedOut,
// anything else (cancellation) keeps its identity so Fatal recognises it.
func FromContext(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return E(TimedOut, op, err)
	}
	return err
}

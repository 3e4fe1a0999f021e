package cmd

import (
	"log/slog"
	"strings"
)

// Command failures. Values returned by commands are derived from these with
// [Error.Wrap] and [Error.With] and match them with [errors.Is].
var (
	ErrReadSource     = NewError("read script")
	ErrScriptNotFound = NewError("script not found")
	ErrSyntax         = NewError("script has syntax errors")
	ErrRuntime        = NewError("script failed")
	ErrWatch          = NewError("watch scripts")
	ErrUnknownFormat  = NewError("unknown output format")
	ErrVersion        = NewError("version constraint not satisfied")
	ErrInvalidVersion = NewError("invalid version constraint")
)

// Error is a command failure with an optional cause and attributes for
// structured logging.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error returns "msg: cause", or whichever of the two is set.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...)

	return &c
}

package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax               = NewError("syntax error")
	ErrReadInput            = NewError("failed to read input")
	ErrWriteOutput          = NewError("failed to write output")
	ErrUndefinedVariable    = NewError("undefined variable")
	ErrAssignUndefined      = NewError("assignment to undefined variable")
	ErrRedefinition         = NewError("variable already declared")
	ErrNotCallable          = NewError("value is not callable")
	ErrUnsupportedOperation = NewError("unsupported operation")
	ErrDivisionByZero       = NewError("division by zero")
	ErrRepeatCount          = NewError("invalid repetition count")
	ErrSyntaxNode           = NewError("cannot evaluate malformed syntax")
	ErrOrphanElse           = NewError("else without matching if")
	ErrInvalidDefine        = NewError("invalid define")
	ErrInvalidValueType     = NewError("invalid value type")
)

// Error represents an error with optional structured logging attributes and
// an optional source span. It implements both error and slog.LogValuer.
type Error struct {
	msg     string
	err     error       // Wrapped error (for errors.Unwrap)
	attrs   []slog.Attr // Attributes for structured logging
	span    Span
	hasSpan bool
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
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

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message, so that
// values derived from a sentinel through [Error.With], [Error.Wrap] or
// [Error.At] still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.hasSpan {
		attrs = append(attrs,
			slog.Int("start", e.span.Start),
			slog.Int("end", e.span.End),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// Wrapf creates a new Error wrapping a formatted detail message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return &c
}

// At returns a copy of the error located at span.
func (e *Error) At(span Span) *Error {
	c := *e
	c.span, c.hasSpan = span, true

	return &c
}

// Span returns the source span of the error, if it has one.
func (e *Error) Span() (Span, bool) { return e.span, e.hasSpan }

// locate attaches span to err unless err already carries one.
func locate(err error, span Span) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}

	if _, ok := e.Span(); ok {
		return err
	}

	return e.At(span)
}

// Label names an enclosing grammar production that was being parsed when a
// diagnostic was raised.
type Label struct {
	Production string
	Span       Span
}

// Diagnostic is a single lexical or syntax error. Labels are ordered from the
// innermost enclosing production outward.
type Diagnostic struct {
	Message string
	Labels  []Label
	Span    Span
}

// String formats the diagnostic without source context.
func (d Diagnostic) String() string {
	return strconv.Itoa(d.Span.Start) + ": " + d.Message
}

// SyntaxError aggregates every diagnostic produced while lexing and parsing
// one source text.
type SyntaxError struct {
	Name        string
	Source      string
	Diagnostics []Diagnostic
}

// Error implements the error interface. The first diagnostic is described in
// full; the remaining ones are only counted.
func (e *SyntaxError) Error() string {
	if len(e.Diagnostics) == 0 {
		return ErrSyntax.Error()
	}

	d := e.Diagnostics[0]
	line, col := d.Span.Position(e.Source)

	var b strings.Builder

	if e.Name != "" {
		b.WriteString(e.Name)
		b.WriteByte(':')
	}

	fmt.Fprintf(&b, "%d:%d: %s", line, col, d.Message)

	if n := len(e.Diagnostics) - 1; n > 0 {
		fmt.Fprintf(&b, " (and %d more)", n)
	}

	return b.String()
}

// Unwrap returns [ErrSyntax].
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrSyntax.Error()),
		slog.Int("count", len(e.Diagnostics)),
	}

	if e.Name != "" {
		attrs = append(attrs, slog.String("source", e.Name))
	}

	if len(e.Diagnostics) > 0 {
		attrs = append(attrs, slog.String("first", e.Diagnostics[0].Message))
	}

	return slog.GroupValue(attrs...)
}

package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrDeclaration         = NewError("invalid file declaration")
	ErrCommandSyntax       = NewError("command syntax error")
	ErrUnrecognizedCommand = NewError("unrecognized command")
	ErrInvalidCommand      = NewError("invalid command")
	ErrSourceNotFound      = NewError("source not found")
	ErrIncludeCycle        = NewError("inclusion cycle")
	ErrBindingSyntax       = NewError("invalid parameter binding")
	ErrParameterRequired   = NewError("required parameter missing")
	ErrParameterDefaulted  = NewError("required parameter missing, using default")
	ErrParameterMissing    = NewError("parameter missing, defaulting to empty")
	ErrMissingParameter    = NewError("missing parameter")
	ErrTrailingEscape      = NewError("line ends in escape character")
)

// Position locates a diagnostic in a source file.
type Position struct {
	File   string
	Line   int
	Column int
	Text   string
}

// IsZero reports whether p carries no location.
func (p Position) IsZero() bool { return p == Position{} }

// String formats p as "file:line:column".
func (p Position) String() string {
	var sb strings.Builder

	sb.WriteString(p.File)

	if p.Line > 0 {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p.Line))

		if p.Column > 0 {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(p.Column))
		}
	}

	return sb.String()
}

func (p Position) attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if p.File != "" {
		attrs = append(attrs, slog.String("file", p.File))
	}

	if p.Line > 0 {
		attrs = append(attrs, slog.Int("line", p.Line))
	}

	if p.Column > 0 {
		attrs = append(attrs, slog.Int("column", p.Column))
	}

	if p.Text != "" {
		attrs = append(attrs, slog.String("text", p.Text))
	}

	return attrs
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	pos   Position    // Source location, if known
	attrs []slog.Attr // Attributes for structured logging
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
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<pos>: <msg>: <err>"
	//   2. "<msg>: <err>"
	//   3. "<msg>"
	//   4. "<err>"
	part := make([]string, 0, 3)

	if e.pos.File != "" || e.pos.Line > 0 {
		part = append(part, e.pos.String())
	}

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

// Is reports whether target is a sentinel with the same message as e.
// Errors derived from a sentinel via At, With or Wrap keep its message, so
// errors.Is(err, ErrX) holds for all of them.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return t.msg == e.msg
}

// Position returns the source location attached to e, if any.
func (e *Error) Position() Position { return e.pos }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+6)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	attrs = append(attrs, e.pos.attrs()...)

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}

// At creates a new Error located at pos.
func (e *Error) At(pos Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   pos,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: newAttrs,
	}
}

// Locate fills in the file, line and text of err's position when err is an
// [Error] that does not know them yet. A known column is kept; otherwise a
// located line gets column 1. Other errors are returned unchanged.
func Locate(err error, file string, line int, text string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}

	pos := e.pos
	if pos.File == "" {
		pos.File = file
	}

	if pos.Line == 0 {
		pos.Line = line
	}

	if pos.Text == "" {
		pos.Text = text
	}

	if pos.Column == 0 && pos.Line > 0 {
		pos.Column = 1
	}

	return e.At(pos)
}

package lang

import (
	"strings"
	"unicode/utf8"
)

// Reasons a line fails to tokenize as a command. Each is wrapped by an
// [ErrCommandSyntax].
var (
	ErrInitiatorMissing  = NewError("initiator ':' missing")
	ErrNonWhitespace     = NewError("non-whitespace before ':'")
	ErrTerminatorMissing = NewError("terminator ';' missing")
)

// Command is the canonical field list of one command line.
//
// Field 0 holds the indent preceding the initiator ':', the last field holds
// the raw comment following the terminator ';', and every field in between is
// a functional field. A Command returned by [ParseCommand] always has at
// least three fields.
type Command []string

// Indent returns the whitespace preceding the command initiator.
func (c Command) Indent() string {
	if len(c) == 0 {
		return ""
	}

	return c[0]
}

// Comment returns the raw text following the command terminator.
func (c Command) Comment() string {
	if len(c) < 2 {
		return ""
	}

	return c[len(c)-1]
}

// Fields returns the functional fields of c.
func (c Command) Fields() []string {
	if len(c) < 2 {
		return nil
	}

	return c[1 : len(c)-1]
}

// Field returns functional field i, or "" if c has no such field.
func (c Command) Field(i int) string {
	f := c.Fields()
	if i < 0 || i >= len(f) {
		return ""
	}

	return f[i]
}

// ParseCommand tokenizes one line into a [Command].
//
// The line may include its trailing newline; the command ends at the first
// newline. A backslash escapes the next character up to the terminator ';',
// after which all characters are copied verbatim into the comment.
//
// The returned error is an [ErrCommandSyntax] carrying the column of the
// violation; file and line are left for the caller to fill in.
func ParseCommand(line string) (Command, error) {
	text, _, _ := strings.Cut(line, "\n")

	var (
		cmd       = Command{""}
		escaped   bool
		inComment bool
		colon     bool
		semicolon bool
		colonCol  int
		escCol    int // column of first escape seen before the initiator
	)

	col := 0

	for _, r := range text {
		col++

		switch {
		case inComment || escaped:
			cmd[len(cmd)-1] += string(r)
			escaped = false

		case r == '\\':
			escaped = true

			if !colon && escCol == 0 {
				escCol = col
			}

		case r == ':':
			if !colon {
				colonCol = col
			}

			colon = true

			cmd = append(cmd, "")

		case r == ';':
			semicolon = true
			inComment = true

			cmd = append(cmd, "")

		default:
			cmd[len(cmd)-1] += string(r)
		}
	}

	trimmed := strings.TrimSpace(text)

	switch {
	case !colon:
		return nil, syntaxError(ErrInitiatorMissing, 1, trimmed)

	case strings.TrimSpace(cmd[0]) != "" || (escCol > 0 && escCol < colonCol):
		return nil, syntaxError(ErrNonWhitespace, colonCol, trimmed)

	case !semicolon:
		return nil, syntaxError(
			ErrTerminatorMissing,
			max(utf8.RuneCountInString(trimmed), 1),
			trimmed,
		)
	}

	return cmd, nil
}

func syntaxError(reason *Error, column int, text string) *Error {
	return ErrCommandSyntax.
		At(Position{Column: column, Text: text}).
		Wrap(reason)
}

package lang

import (
	"log/slog"
	"strings"
)

// Macro delimiters.
const (
	macroOpen0  = '<'
	macroOpen1  = '['
	macroClose0 = ']'
	macroClose1 = '>'
)

// signal is one character emitted by the escape machine. An escaped
// character carries its literal value but no control value, so it can never
// open or close a macro.
type signal struct {
	literal rune
	control bool
}

// escapeMachine is the first stage of substitution.
type escapeMachine struct {
	escaped bool
}

// step consumes r and reports the signal to forward, if any.
func (m *escapeMachine) step(r rune) (signal, bool) {
	switch {
	case m.escaped:
		m.escaped = false

		return signal{literal: r}, true

	case r == '\\':
		m.escaped = true

		return signal{}, false
	}

	return signal{literal: r, control: true}, true
}

// is reports whether s is an unescaped r.
func (s signal) is(r rune) bool { return s.control && s.literal == r }

type macroState int

const (
	outside macroState = iota
	maybeOpen
	inside
	maybeClose
)

// macroMachine is the second stage of substitution. It expands complete
// macro tokens against env and copies everything else to out.
type macroMachine struct {
	env     *Env
	state   macroState
	name    strings.Builder
	out     strings.Builder
	missing []error
}

func (m *macroMachine) step(s signal, column int) {
	switch m.state {
	case outside:
		if s.is(macroOpen0) {
			m.state = maybeOpen

			return
		}

		m.out.WriteRune(s.literal)

	case maybeOpen:
		if s.is(macroOpen1) {
			m.state = inside
			m.name.Reset()

			return
		}

		m.state = outside
		m.out.WriteRune(macroOpen0)
		m.out.WriteRune(s.literal)

	case inside:
		if s.is(macroClose0) {
			m.state = maybeClose

			return
		}

		m.name.WriteRune(s.literal)

	case maybeClose:
		if s.is(macroClose1) {
			m.state = outside
			m.expand(column)

			return
		}

		m.state = inside
		m.name.WriteRune(macroClose0)
		m.name.WriteRune(s.literal)
	}
}

// expand writes the value bound to the buffered macro name. An unbound name
// expands to "" and is bound to "" so it is reported only once per file.
func (m *macroMachine) expand(column int) {
	name := m.name.String()

	value, ok := m.env.Lookup(name)
	if !ok {
		m.env.Bind(name, "")
		m.missing = append(m.missing,
			ErrMissingParameter.
				At(Position{Column: column}).
				With(slog.String("parameter", name)),
		)
	}

	m.out.WriteString(value)
}

// flush emits any incomplete macro token as literal text.
func (m *macroMachine) flush() {
	switch m.state {
	case maybeOpen:
		m.out.WriteRune(macroOpen0)

	case inside:
		m.out.WriteRune(macroOpen0)
		m.out.WriteRune(macroOpen1)
		m.out.WriteString(m.name.String())

	case maybeClose:
		m.out.WriteRune(macroOpen0)
		m.out.WriteRune(macroOpen1)
		m.out.WriteString(m.name.String())
		m.out.WriteRune(macroClose0)
	}

	m.state = outside
}

// Substitute expands every unescaped "<[name]>" in line with the value bound
// to name in env, and removes the backslashes that protect characters from
// macro recognition.
//
// Unbound names expand to "" and are bound to "" in env as a side effect; one
// [ErrMissingParameter] is returned for each. Machine state never carries over
// between calls.
func Substitute(env *Env, line string) (string, []error) {
	var (
		esc   escapeMachine
		macro = macroMachine{env: env}
	)

	macro.out.Grow(len(line))

	col := 0

	for _, r := range line {
		col++

		if s, ok := esc.step(r); ok {
			macro.step(s, col)
		}
	}

	macro.flush()

	return macro.out.String(), macro.missing
}

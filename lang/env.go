package lang

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Env is a parameter environment: the bindings visible to one Parametric
// file. The zero value is not usable; construct one with [NewEnv].
type Env struct {
	m map[string]string
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{m: make(map[string]string)}
}

// Len returns the number of bindings in e.
func (e *Env) Len() int { return len(e.m) }

// Lookup returns the value bound to name.
func (e *Env) Lookup(name string) (string, bool) {
	v, ok := e.m[name]

	return v, ok
}

// Has reports whether name is bound.
func (e *Env) Has(name string) bool {
	_, ok := e.m[name]

	return ok
}

// Bind binds name to value unless name is already bound.
// It reports whether the binding was inserted.
func (e *Env) Bind(name, value string) bool {
	if _, ok := e.m[name]; ok {
		return false
	}

	e.m[name] = value

	return true
}

// Set binds name to value, replacing any existing binding.
func (e *Env) Set(name, value string) { e.m[name] = value }

// Delete removes the binding for name.
func (e *Env) Delete(name string) { delete(e.m, name) }

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.m))
}

// All returns an iterator over all bindings in name order.
func (e *Env) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range e.Names() {
			if !yield(name, e.m[name]) {
				return
			}
		}
	}
}

// Map returns a copy of the bindings.
func (e *Env) Map() map[string]string { return maps.Clone(e.m) }

// BindAll parses each token as a binding and inserts it first-wins.
// Malformed tokens are dropped; one [ErrBindingSyntax] is returned for each.
func (e *Env) BindAll(tokens ...string) []error {
	var errs []error

	for _, tok := range tokens {
		name, value, err := ParseBinding(tok)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		e.Bind(name, value)
	}

	return errs
}

// ParseBinding splits a "name=value" token at its single unescaped '='.
// A backslash escapes the character that follows it; a trailing backslash is
// dropped.
func ParseBinding(token string) (name, value string, err error) {
	var (
		part    [2]strings.Builder
		idx     int
		seps    int
		escaped bool
	)

	for _, r := range token {
		switch {
		case escaped:
			part[idx].WriteRune(r)

			escaped = false

		case r == '\\':
			escaped = true

		case r == '=':
			seps++

			if seps == 1 {
				idx = 1
			}

		default:
			part[idx].WriteRune(r)
		}
	}

	if seps != 1 {
		return "", "", ErrBindingSyntax.
			At(Position{Text: token}).
			Wrap(errBindingSeparators(seps))
	}

	return part[0].String(), part[1].String(), nil
}

func errBindingSeparators(n int) error {
	if n == 0 {
		return NewError("no unescaped '=' separator")
	}

	return NewError("more than one unescaped '=' separator")
}

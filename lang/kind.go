package lang

//go:generate go tool stringer --linecomment --type Kind,Class,Requirement --output lang_string.go

import "iter"

// Kind identifies one of the four source file kinds.
type Kind int

const (
	KindUnknown    Kind = iota // UNKNOWN
	KindBlueprint              // BLUEPRINT
	KindTemplate               // TEMPLATE
	KindFragment               // FRAGMENT
	KindParametric             // PARAMETRIC
)

var kindExt = [...][]string{
	KindUnknown:    {""},
	KindBlueprint:  {"", ".blueprint", ".blue"},
	KindTemplate:   {"", ".template", ".temp"},
	KindFragment:   {"", ".fragment", ".frag"},
	KindParametric: {"", ".parametric", ".param"},
}

// Kinds returns an iterator over all valid kinds in declaration order.
func Kinds() iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for k := KindBlueprint; k <= KindParametric; k++ {
			if !yield(k) {
				return
			}
		}
	}
}

// ParseKind returns the kind identified by tag.
// Tags are case-sensitive.
func ParseKind(tag string) (Kind, bool) {
	for k := range Kinds() {
		if k.String() == tag {
			return k, true
		}
	}

	return KindUnknown, false
}

// Valid reports whether k is one of the four file kinds.
func (k Kind) Valid() bool { return k >= KindBlueprint && k <= KindParametric }

// Tag returns the identifying tag used in declarations and commands, or the
// empty string if k is not valid.
func (k Kind) Tag() string {
	if !k.Valid() {
		return ""
	}

	return k.String()
}

// Extensions returns the file name extensions tried, in priority order, when
// resolving a source of kind k. The first entry is always the empty
// extension.
func (k Kind) Extensions() []string {
	if !k.Valid() {
		return kindExt[KindUnknown]
	}

	return append([]string(nil), kindExt[k]...)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

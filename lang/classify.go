package lang

// paramTag names the parameter declaration command.
const paramTag = "PARAM"

// Class is the category of a classified line.
type Class int

const (
	ClassNotCommand   Class = iota // text
	ClassComment                   // comment
	ClassDeclaration               // declaration
	ClassInvocation                // invocation
	ClassParam                     // param
	ClassUnrecognized              // unrecognized
)

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Directive is the classification of one line of source text.
//
// Exactly the fields relevant to Class are set:
//   - ClassNotCommand: Err holds the tokenizer error.
//   - ClassDeclaration: Kind (KindUnknown if the tag is not a kind) and Name
//     (the raw tag).
//   - ClassInvocation: Kind and Args (functional fields after the kind tag).
//   - ClassParam: Args (functional fields after PARAM).
//   - ClassUnrecognized: Name (the first functional field).
//
// Command is set for every class except ClassNotCommand.
type Directive struct {
	Class   Class
	Kind    Kind
	Name    string
	Args    []string
	Command Command
	Err     error
}

// Classify tokenizes line and classifies the result.
func Classify(line string) Directive {
	cmd, err := ParseCommand(line)
	if err != nil {
		return Directive{Class: ClassNotCommand, Err: err}
	}

	return ClassifyCommand(cmd)
}

// ClassifyCommand classifies an already tokenized command.
func ClassifyCommand(cmd Command) Directive {
	d := Directive{Command: cmd}
	f := cmd.Fields()

	switch {
	case len(f) == 0 || (len(f) == 1 && f[0] == ""):
		d.Class = ClassComment

	case f[0] == "" && f[1] == paramTag:
		d.Class = ClassParam
		d.Args = f[2:]

	case f[0] == "":
		d.Class = ClassDeclaration
		d.Name = f[1]
		d.Kind, _ = ParseKind(f[1])

	case f[0] == paramTag:
		d.Class = ClassParam
		d.Args = f[1:]

	default:
		kind, ok := ParseKind(f[0])
		if !ok {
			d.Class = ClassUnrecognized
			d.Name = f[0]

			break
		}

		d.Class = ClassInvocation
		d.Kind = kind
		d.Args = f[1:]
	}

	return d
}

// Source returns the source name of an invocation, or "" if none was given.
func (d Directive) Source() string {
	if d.Class != ClassInvocation || len(d.Args) == 0 {
		return ""
	}

	return d.Args[0]
}

// Output returns the output name of an invocation, or "" if none was given.
func (d Directive) Output() string {
	if d.Class != ClassInvocation || len(d.Args) < 2 {
		return ""
	}

	return d.Args[1]
}

// Bindings returns the binding tokens of an invocation: every argument after
// the source and output slots.
func (d Directive) Bindings() []string {
	if d.Class != ClassInvocation || len(d.Args) < 3 {
		return nil
	}

	return d.Args[2:]
}

// Declares reports whether d is a valid declaration line for kind.
//
// Both the canonical form "::KIND;" and the short form ":KIND;" are
// accepted.
func (d Directive) Declares(kind Kind) bool {
	switch d.Class {
	case ClassDeclaration:
		return d.Kind == kind

	case ClassInvocation:
		return d.Kind == kind && len(d.Args) == 0
	}

	return false
}

// Declared returns the kind declared by d, or KindUnknown if d is not a
// valid declaration line of any kind.
func (d Directive) Declared() Kind {
	for k := range Kinds() {
		if d.Declares(k) {
			return k
		}
	}

	return KindUnknown
}

package lang

import "log/slog"

// Requirement is the required flag of a parameter declaration.
type Requirement int

const (
	RequiredUnspecified Requirement = iota // unspecified
	RequiredTrue                           // True
	RequiredFalse                          // False
)

// ParseRequirement parses "True" and "False"; anything else is
// [RequiredUnspecified].
func ParseRequirement(s string) Requirement {
	switch s {
	case "True":
		return RequiredTrue
	case "False":
		return RequiredFalse
	default:
		return RequiredUnspecified
	}
}

// Param is a parameter declaration.
type Param struct {
	Name     string
	Required Requirement
	Default  string
}

// ParseParam builds a declaration from the arguments of a PARAM command:
// name, required flag and default value. Missing arguments are empty.
func ParseParam(args []string) Param {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}

		return ""
	}

	return Param{
		Name:     arg(0),
		Required: ParseRequirement(arg(1)),
		Default:  arg(2),
	}
}

// Declare applies the declaration p to e.
//
// An existing binding always wins and the declaration is a no-op. Otherwise
// the default is bound, and the returned error describes what happened:
//   - [ErrParameterRequired] if p is required without a default (nothing is
//     bound and the caller must abort the file);
//   - [ErrParameterDefaulted] if p is required with a default;
//   - [ErrParameterMissing] if p is optional without a default.
//
// An optional parameter with a default binds silently and returns nil.
func (e *Env) Declare(p Param) error {
	if e.Has(p.Name) {
		return nil
	}

	attr := slog.String("parameter", p.Name)

	switch {
	case p.Required == RequiredTrue && p.Default == "":
		return ErrParameterRequired.With(attr)

	case p.Required == RequiredTrue:
		e.Bind(p.Name, p.Default)

		return ErrParameterDefaulted.With(attr, slog.String("default", p.Default))

	case p.Default == "":
		e.Bind(p.Name, "")

		return ErrParameterMissing.With(attr)
	}

	e.Bind(p.Name, p.Default)

	return nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/webuild/build"
)

// Deps lists the inclusions made while processing a source file. Nothing is
// written.
type Deps struct {
	Where  string `help:"Only list dependencies matching a condition over kind, path, parent, line, output and depth (e.g. 'kind == \"FRAGMENT\" && depth > 1')" placeholder:"EXPR"`
	Format string `help:"Output format"                      default:"text" enum:"text,json,yaml" short:"o"`
	Params string `help:"YAML file of parameter bindings"    placeholder:"FILE" type:"existingfile"`

	Source   string   `arg:"" help:"Input source file or '-' for stdin"                 name:"source"`
	Bindings []string `arg:"" help:"Parameter bindings (name=value) for a parametric source" name:"binding" optional:"" sep:"none"`
}

// depEnv is the environment of a --where condition.
type depEnv struct {
	Kind   string `expr:"kind"`
	Path   string `expr:"path"`
	Parent string `expr:"parent"`
	Line   int    `expr:"line"`
	Output string `expr:"output"`
	Depth  int    `expr:"depth"`
}

func makeDepEnv(dep build.Dependency) depEnv {
	return depEnv{
		Kind:   dep.Kind.String(),
		Path:   dep.Path,
		Parent: dep.Parent,
		Line:   dep.Line,
		Output: dep.Output,
		Depth:  dep.Depth,
	}
}

// Run executes the deps command.
func (d *Deps) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	where, err := compileFilter(d.Where)
	if err != nil {
		return err
	}

	env, err := newEnv(ctx, d.Params, d.Bindings)
	if err != nil {
		return err
	}

	builder := newBuilder(ctx, build.WithDryRun(true))

	err = builder.Build(ctx, d.Source, "-", env)
	if err != nil {
		return err
	}

	deps, err := filterDeps(builder.Dependencies(), where)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	switch d.Format {
	case "json":
		return writeJSON(w, deps)

	case "yaml":
		return writeYAML(w, deps)
	}

	return writeDeps(w, deps)
}

// compileFilter compiles a --where condition. An empty condition compiles to
// nil, which matches every dependency.
func compileFilter(where string) (*vm.Program, error) {
	if strings.TrimSpace(where) == "" {
		return nil, nil
	}

	program, err := expr.Compile(where, expr.Env(depEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.With(slog.String("where", where)).Wrap(err)
	}

	return program, nil
}

// filterDeps returns the dependencies matching where.
func filterDeps(deps []build.Dependency, where *vm.Program) ([]build.Dependency, error) {
	matched := make([]build.Dependency, 0, len(deps))

	for _, dep := range deps {
		if where != nil {
			ok, err := expr.Run(where, makeDepEnv(dep))
			if err != nil {
				return nil, ErrFilter.With(slog.String("path", dep.Path)).Wrap(err)
			}

			if ok, _ := ok.(bool); !ok {
				continue
			}
		}

		matched = append(matched, dep)
	}

	return matched, nil
}

// writeDeps writes one line per dependency, indented by depth.
func writeDeps(w io.Writer, deps []build.Dependency) error {
	for _, dep := range deps {
		line := fmt.Sprintf("%s%-10s %s (%s:%d)",
			strings.Repeat("  ", max(dep.Depth-1, 0)),
			dep.Kind, dep.Path, dep.Parent, dep.Line)

		if dep.Output != "" {
			line += " -> " + dep.Output
		}

		_, err := fmt.Fprintln(w, line)
		if err != nil {
			return err
		}
	}

	return nil
}

package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/webuild/build"
	"github.com/ardnew/webuild/log"
)

// Build processes a source file and writes the result.
type Build struct {
	Params string `help:"YAML file of parameter bindings"        placeholder:"FILE" type:"existingfile"`
	DryRun bool   `help:"Resolve all sources without writing any output" short:"n"`

	Source   string   `arg:"" help:"Input source file or '-' for stdin"                 name:"source"`
	Output   string   `arg:"" help:"Output file or '-' for stdout"                      name:"output"  default:"-" optional:""`
	Bindings []string `arg:"" help:"Parameter bindings (name=value) for a parametric source" name:"binding" optional:"" sep:"none"`
}

// Run executes the build command.
func (b *Build) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env, err := newEnv(ctx, b.Params, b.Bindings)
	if err != nil {
		return err
	}

	builder := newBuilder(ctx, build.WithDryRun(b.DryRun))

	err = builder.Build(ctx, b.Source, b.Output, env)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "build complete",
		slog.String("source", b.Source),
		slog.String("output", b.Output),
		slog.Int("dependencies", len(builder.Dependencies())),
		slog.Int("diagnostics", len(builder.Diagnostics())),
	)

	return nil
}

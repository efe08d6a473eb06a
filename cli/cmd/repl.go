package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/webuild/build"
	"github.com/ardnew/webuild/cli/cmd/repl"
	"github.com/ardnew/webuild/log"
	"github.com/ardnew/webuild/pkg"
)

// Repl starts an interactive substitution session.
type Repl struct {
	Params string   `help:"YAML file of parameter bindings"    placeholder:"FILE"       type:"existingfile"`
	Bind   []string `help:"Parameter binding (repeatable)" placeholder:"NAME=VALUE" sep:"none" short:"b"`

	Source string `arg:"" help:"Parametric source declaring the session parameters" name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env, err := newEnv(ctx, r.Params, r.Bind)
	if err != nil {
		return err
	}

	if r.Source != "" {
		err = newBuilder(ctx).ParametricFile(ctx, r.Source, stdout(ctx), env)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "repl preloaded",
			slog.String("source", r.Source),
			slog.Int("bindings", env.Len()),
		)
	}

	// Diagnostics are displayed by the session.
	quiet := log.Default().Wrap(log.WithLevel(log.LevelError))

	return repl.Run(ctx, env,
		newBuilder(ctx, build.WithLogger(quiet)),
		variable(ctx, CacheIdentifier, pkg.CacheDir()),
		log.Default(),
	)
}

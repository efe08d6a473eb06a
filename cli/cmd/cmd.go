package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/webuild/build"
	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/log"
	"github.com/ardnew/webuild/source"
)

// defaultIndent is the indent width of JSON and YAML output.
const defaultIndent = 2

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Options are the global settings shared by all commands.
type Options struct {
	// Include lists directories searched for sources ahead of $WEBUILD_PATH.
	Include []string
	// OutDir is the directory relative outputs are written to.
	OutDir string
}

type optionsKey struct{}

// WithOptions returns a new context.Context containing opts.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) Options {
	opts, _ := ctx.Value(optionsKey{}).(Options)

	return opts
}

// stdout returns the writer commands print to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// variable returns the kong variable named id, or def if it is undefined.
func variable(ctx context.Context, id, def string) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if v, ok := ktx.Model.Vars()[id]; ok {
			return v
		}
	}

	return def
}

// newResolver returns a resolver searching the include directories of ctx.
func newResolver(ctx context.Context) *source.Resolver {
	return source.NewResolver(
		source.WithSearchPath(source.SearchPath(optionsFrom(ctx).Include...)...),
	)
}

// newBuilder returns a builder configured from the options of ctx and opts.
func newBuilder(ctx context.Context, opts ...build.Option) *build.Builder {
	outDir := optionsFrom(ctx).OutDir
	if outDir == "" {
		outDir = "."
	}

	return build.New(append([]build.Option{
		build.WithLogger(log.Default()),
		build.WithResolver(newResolver(ctx)),
		build.WithStdout(stdout(ctx)),
		build.WithOutDir(outDir),
	}, opts...)...)
}

// newEnv returns an environment holding bindings followed by the bindings
// read from the YAML file params, if given. The first binding of a name wins.
func newEnv(ctx context.Context, params string, bindings []string) (*lang.Env, error) {
	env := lang.NewEnv()

	for _, err := range env.BindAll(bindings...) {
		log.WarnContext(ctx, "diagnostic", slog.Any("error", err))
	}

	if params == "" {
		return env, nil
	}

	m, err := readParams(params)
	if err != nil {
		return nil, err
	}

	for _, name := range slices.Sorted(maps.Keys(m)) {
		if !env.Bind(name, m[name]) {
			log.DebugContext(ctx, "parameter already bound",
				slog.String("parameter", name),
				slog.String("file", params),
			)
		}
	}

	return env, nil
}

// readParams reads a YAML mapping of parameter names to scalar values.
func readParams(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrParams.With(slog.String("file", path)).Wrap(err)
	}

	var doc map[string]any

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, ErrParams.With(slog.String("file", path)).Wrap(err)
	}

	m := make(map[string]string, len(doc))

	for name, value := range doc {
		switch v := value.(type) {
		case nil:
			m[name] = ""

		case map[string]any, []any:
			return nil, ErrParams.
				With(slog.String("file", path), slog.String("parameter", name)).
				Wrap(ErrParamValue)

		default:
			m[name] = fmt.Sprint(v)
		}
	}

	return m, nil
}

// writeJSON writes v to w as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = w.Write(append(data, '\n'))

	return err
}

// writeYAML writes v to w as YAML.
func writeYAML(w io.Writer, v any) error {
	data, err := yaml.MarshalWithOptions(v,
		yaml.Indent(defaultIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}

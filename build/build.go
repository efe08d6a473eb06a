package build

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/log"
	"github.com/ardnew/webuild/pkg"
	"github.com/ardnew/webuild/source"
)

const defaultDirMode os.FileMode = 0o755

// Dependency is one resolved inclusion.
type Dependency struct {
	// Parent is the path of the including file.
	Parent string `json:"parent"           yaml:"parent"`
	// Line is the line of the inclusion command in Parent.
	Line int `json:"line"             yaml:"line"`
	// Kind is the kind the included file was resolved as.
	Kind lang.Kind `json:"kind"             yaml:"kind"`
	// Path is the resolved path of the included file.
	Path string `json:"path"             yaml:"path"`
	// Output is the sink the included file writes to. It is set only for
	// inclusions made directly by a blueprint.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	// Depth is the inclusion depth; files included by the top-level input
	// have depth 1.
	Depth int `json:"depth"            yaml:"depth"`
}

// Builder processes source files.
//
// A Builder is not safe for concurrent use. State shared by the files of one
// run (the blueprint output counter, the chain of files being processed, the
// recorded dependencies and diagnostics) is reset by [Builder.Build].
type Builder struct {
	log      log.Logger
	resolver *source.Resolver
	stdout   io.Writer
	outDir   string
	dryRun   bool

	count  int
	active []string
	deps   []Dependency
	diags  []error
}

// Option configures a [Builder].
type Option = pkg.Option[Builder]

// WithLogger sets the logger diagnostics are reported to.
func WithLogger(l log.Logger) Option {
	return func(b Builder) Builder {
		b.log = l

		return b
	}
}

// WithResolver sets the resolver used to locate sources.
func WithResolver(r *source.Resolver) Option {
	return func(b Builder) Builder {
		b.resolver = r

		return b
	}
}

// WithStdout sets the writer used for the standard output sink.
func WithStdout(w io.Writer) Option {
	return func(b Builder) Builder {
		b.stdout = w

		return b
	}
}

// WithOutDir sets the directory relative output names are placed under.
func WithOutDir(dir string) Option {
	return func(b Builder) Builder {
		b.outDir = dir

		return b
	}
}

// WithDryRun disables all output. Sources are still read and resolved, so
// dependencies and diagnostics are recorded as usual.
func WithDryRun(enable bool) Option {
	return func(b Builder) Builder {
		b.dryRun = enable

		return b
	}
}

// New returns a Builder configured with opts.
func New(opts ...Option) *Builder {
	b := pkg.Apply(Builder{
		log:    log.Default(),
		stdout: os.Stdout,
		outDir: ".",
	}, opts...)

	if b.resolver == nil {
		b.resolver = source.NewResolver()
	}

	if b.stdout == nil {
		b.stdout = io.Discard
	}

	return &b
}

// Dependencies returns the inclusions resolved by the last run in the order
// they were made.
func (b *Builder) Dependencies() []Dependency { return slices.Clone(b.deps) }

// Diagnostics returns the non-fatal errors reported by the last run.
func (b *Builder) Diagnostics() []error { return slices.Clone(b.diags) }

func (b *Builder) reset() {
	b.count = 0
	b.active = b.active[:0]
	b.deps = nil
	b.diags = nil
}

// Build processes the input named name (an exact path, or "-" for standard
// input) according to its declared kind.
//
// Output is written to the sink named output ("-" or "" for standard output),
// except for blueprints, which write their own sinks. A parametric input sees
// env (a fresh environment if nil). An input without a valid declaration is
// reported and copied to output unchanged.
func (b *Builder) Build(
	ctx context.Context,
	name, output string,
	env *lang.Env,
) (err error) {
	b.reset()

	src, err := b.resolver.OpenFile(name)
	if err != nil {
		return err
	}
	defer src.Close()

	f := newFile(src, 0)

	err = b.enter(f)
	if err != nil {
		return err
	}
	defer b.leave()

	decl, raw, err := b.preamble(f)
	if err != nil {
		return err
	}

	kind := decl.Declared()

	b.log.DebugContext(ctx, "build",
		slog.String("source", f.path),
		slog.String("kind", kind.String()),
		slog.String("output", output),
	)

	if kind == lang.KindBlueprint {
		if !isStdout(output) {
			b.log.DebugContext(ctx, "blueprint ignores output",
				slog.String("output", output),
			)
		}

		return b.blueprintBody(ctx, f)
	}

	out, err := b.openSink(output)
	if err != nil {
		return err
	}

	defer func() {
		cerr := out.Close()
		if err == nil && cerr != nil {
			err = ErrWriteOutput.With(slog.String("output", output)).Wrap(cerr)
		}
	}()

	switch kind {
	case lang.KindTemplate:
		return b.templateBody(ctx, f, out)

	case lang.KindFragment:
		return b.fragmentBody(f, out)

	case lang.KindParametric:
		if env == nil {
			env = lang.NewEnv()
		}

		return b.parametricBody(ctx, f, out, env)
	}

	b.warn(ctx, declarationError(f, lang.KindUnknown, decl, raw))

	err = write(out, raw)
	if err != nil {
		return err
	}

	return b.fragmentBody(f, out)
}

// ParametricFile processes the parametric source named name against env and
// writes the result to w.
func (b *Builder) ParametricFile(
	ctx context.Context,
	name string,
	w io.Writer,
	env *lang.Env,
) error {
	b.reset()

	src, err := b.resolver.Open(name, lang.KindParametric, "")
	if err != nil {
		return err
	}
	defer src.Close()

	f := newFile(src, 0)

	err = b.enter(f)
	if err != nil {
		return err
	}
	defer b.leave()

	return b.parametric(ctx, f, w, env)
}

// ParametricLine processes a single line of parametric content against env,
// as if it appeared in the body of a parametric file, and writes the result
// to w.
func (b *Builder) ParametricLine(
	ctx context.Context,
	env *lang.Env,
	line string,
	w io.Writer,
) error {
	f := &file{path: "<line>", line: 1}

	return b.parametricLine(ctx, f, env, line, w)
}

// enter pushes f onto the chain of files being processed. Re-entering a file
// already on the chain is an inclusion cycle.
func (b *Builder) enter(f *file) error {
	key := source.Canonical(f.path)

	if i := slices.Index(b.active, key); i >= 0 {
		return lang.ErrIncludeCycle.With(
			slog.String("source", f.path),
			slog.Any("chain", append(slices.Clone(b.active[i:]), key)),
		)
	}

	b.active = append(b.active, key)

	return nil
}

func (b *Builder) leave() { b.active = b.active[:len(b.active)-1] }

// warn reports a non-fatal diagnostic.
func (b *Builder) warn(ctx context.Context, err error) {
	if err == nil {
		return
	}

	b.diags = append(b.diags, err)
	b.log.WarnContext(ctx, "diagnostic", slog.Any("error", err))
}

// resolve opens the source named by the inclusion d found in parent.
func (b *Builder) resolve(parent *file, d lang.Directive, line string) (*source.Source, error) {
	src, err := b.resolver.Open(d.Source(), d.Kind, parent.dir)
	if err != nil {
		return nil, parent.locate(err, line)
	}

	return src, nil
}

// include processes src, the source of the inclusion d found in parent,
// writing to w. Output names the sink w was opened for, if any.
func (b *Builder) include(
	ctx context.Context,
	parent *file,
	d lang.Directive,
	line string,
	src *source.Source,
	w io.Writer,
	output string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	child := newFile(src, parent.depth+1)

	err := b.enter(child)
	if err != nil {
		return parent.locate(err, line)
	}
	defer b.leave()

	b.deps = append(b.deps, Dependency{
		Parent: parent.path,
		Line:   parent.line,
		Kind:   d.Kind,
		Path:   child.path,
		Output: output,
		Depth:  child.depth,
	})

	b.log.DebugContext(ctx, "include",
		slog.String("kind", d.Kind.String()),
		slog.String("source", child.path),
		slog.Int("depth", child.depth),
	)

	switch d.Kind {
	case lang.KindBlueprint:
		return b.blueprint(ctx, child)

	case lang.KindTemplate:
		return b.template(ctx, child, w)

	case lang.KindFragment:
		return b.fragment(ctx, child, w)

	case lang.KindParametric:
		env := lang.NewEnv()

		for _, err := range env.BindAll(d.Bindings()...) {
			b.warn(ctx, parent.locate(err, line))
		}

		return b.parametric(ctx, child, w, env)
	}

	return parent.locate(lang.ErrInvalidCommand, line)
}

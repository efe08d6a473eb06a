package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/source"
)

const shebang = "#!"

// preamble reads the declaration line of f, skipping a leading shebang line.
// It returns the classified declaration and its raw text, which is empty if
// f has no declaration line.
func (b *Builder) preamble(f *file) (lang.Directive, string, error) {
	line, err := f.next()
	if err == nil && strings.HasPrefix(line, shebang) {
		line, err = f.next()
	}

	if errors.Is(err, io.EOF) {
		return lang.Directive{}, "", nil
	}

	if err != nil {
		return lang.Directive{}, "", err
	}

	return lang.Classify(line), line, nil
}

func declarationError(f *file, want lang.Kind, d lang.Directive, raw string) error {
	err := lang.ErrDeclaration.At(f.pos(raw))

	if want.Valid() {
		err = err.With(slog.String("expected", want.Tag()))
	}

	if d.Err != nil {
		return err.Wrap(d.Err)
	}

	return err
}

// declared reads the preamble of f and reports whether it declares kind. If
// it does not, the declaration line is written to w and the rest of f is
// copied unchanged.
func (b *Builder) declared(
	ctx context.Context,
	f *file,
	kind lang.Kind,
	w io.Writer,
) (bool, error) {
	d, raw, err := b.preamble(f)
	if err != nil {
		return false, err
	}

	if d.Declares(kind) {
		return true, nil
	}

	b.warn(ctx, declarationError(f, kind, d, raw))

	err = write(w, raw)
	if err != nil {
		return false, err
	}

	return false, b.fragmentBody(f, w)
}

// suggestKind returns the kind tag closest to name, or "" if none is close.
func suggestKind(name string) string {
	var tags []string

	for k := range lang.Kinds() {
		tags = append(tags, k.Tag())
	}

	return source.Suggest(name, tags)
}

// commandError describes a command that is not valid where it appears.
func commandError(d lang.Directive, where lang.Kind) *lang.Error {
	switch d.Class {
	case lang.ClassUnrecognized:
		err := lang.ErrUnrecognizedCommand.With(slog.String("command", d.Name))
		if hint := suggestKind(d.Name); hint != "" {
			err = err.With(slog.String("suggestion", hint))
		}

		return err

	case lang.ClassDeclaration:
		return lang.ErrInvalidCommand.With(
			slog.String("reason", "declaration after the first line"),
		)

	case lang.ClassParam:
		return lang.ErrInvalidCommand.With(
			slog.String("reason", "PARAM outside a parametric file"),
		)

	case lang.ClassInvocation:
		if d.Source() == "" {
			return lang.ErrInvalidCommand.With(
				slog.String("reason", "missing source"),
				slog.String("command", d.Kind.Tag()),
			)
		}

		return lang.ErrInvalidCommand.With(
			slog.String("reason", fmt.Sprintf("%s not allowed in %s",
				d.Kind.Tag(), strings.ToLower(where.Tag()))),
		)
	}

	return lang.ErrInvalidCommand
}

// blueprint processes a blueprint file. Blueprints have no output of their
// own, so an invalid declaration is fatal.
func (b *Builder) blueprint(ctx context.Context, f *file) error {
	d, raw, err := b.preamble(f)
	if err != nil {
		return err
	}

	if !d.Declares(lang.KindBlueprint) {
		return declarationError(f, lang.KindBlueprint, d, raw)
	}

	return b.blueprintBody(ctx, f)
}

func (b *Builder) blueprintBody(ctx context.Context, f *file) error {
	for line, err := range f.lines() {
		if err != nil {
			return err
		}

		d := lang.Classify(line)

		switch {
		case d.Class == lang.ClassNotCommand:
			return f.locate(d.Err, line)

		case d.Class == lang.ClassComment:
			continue

		case d.Class != lang.ClassInvocation || d.Source() == "":
			return f.locate(commandError(d, lang.KindBlueprint), line)
		}

		err := b.blueprintCommand(ctx, f, d, line)
		if err != nil {
			return err
		}
	}

	return nil
}

// blueprintCommand processes one inclusion made by a blueprint. Each
// non-blueprint inclusion writes a sink of its own, closed before the next
// line is read.
func (b *Builder) blueprintCommand(
	ctx context.Context,
	f *file,
	d lang.Directive,
	line string,
) error {
	src, err := b.resolve(f, d, line)
	if err != nil {
		return err
	}
	defer src.Close()

	if d.Kind == lang.KindBlueprint {
		return b.include(ctx, f, d, line, src, nil, "")
	}

	output := d.Output()
	if output == "" {
		output = fmt.Sprintf("%d.out", b.count)
		b.count++
	}

	out, err := b.openSink(output)
	if err != nil {
		return f.locate(err, line)
	}

	err = b.include(ctx, f, d, line, src, out, output)

	cerr := out.Close()
	if err == nil && cerr != nil {
		err = ErrWriteOutput.With(slog.String("output", output)).Wrap(cerr)
	}

	return err
}

// template processes a template file, writing to w.
func (b *Builder) template(ctx context.Context, f *file, w io.Writer) error {
	ok, err := b.declared(ctx, f, lang.KindTemplate, w)
	if !ok || err != nil {
		return err
	}

	return b.templateBody(ctx, f, w)
}

// inlineKinds are the kinds a template may include.
var inlineKinds = []lang.Kind{
	lang.KindTemplate,
	lang.KindFragment,
	lang.KindParametric,
}

func (b *Builder) templateBody(ctx context.Context, f *file, w io.Writer) error {
	for line, err := range f.lines() {
		if err != nil {
			return err
		}

		d := lang.Classify(line)

		switch {
		case d.Class == lang.ClassNotCommand:
			text, uerr := lang.Unescape(line)
			b.warn(ctx, f.locate(uerr, line))

			err = write(w, text)

		case d.Class == lang.ClassComment:
			continue

		case d.Class == lang.ClassInvocation &&
			d.Source() != "" &&
			slices.Contains(inlineKinds, d.Kind):
			err = b.templateCommand(ctx, f, d, line, w)

		default:
			b.warn(ctx, f.locate(commandError(d, lang.KindTemplate), line))

			err = write(w, line)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// templateCommand includes a source inline into the output of a template.
func (b *Builder) templateCommand(
	ctx context.Context,
	f *file,
	d lang.Directive,
	line string,
	w io.Writer,
) error {
	if out := d.Output(); out != "" {
		b.log.DebugContext(ctx, "template inclusion ignores output",
			slog.String("file", f.path),
			slog.Int("line", f.line),
			slog.String("output", out),
		)
	}

	src, err := b.resolve(f, d, line)
	if err != nil {
		return err
	}
	defer src.Close()

	return b.include(ctx, f, d, line, src, w, "")
}

// fragment processes a fragment file, writing to w.
func (b *Builder) fragment(ctx context.Context, f *file, w io.Writer) error {
	ok, err := b.declared(ctx, f, lang.KindFragment, w)
	if !ok || err != nil {
		return err
	}

	return b.fragmentBody(f, w)
}

// fragmentBody copies the rest of f to w unchanged.
func (b *Builder) fragmentBody(f *file, w io.Writer) error {
	_, err := io.Copy(w, f.r)
	if err != nil {
		return ErrWriteOutput.At(lang.Position{File: f.path}).Wrap(err)
	}

	return nil
}

// parametric processes a parametric file against env, writing to w.
func (b *Builder) parametric(
	ctx context.Context,
	f *file,
	w io.Writer,
	env *lang.Env,
) error {
	ok, err := b.declared(ctx, f, lang.KindParametric, w)
	if !ok || err != nil {
		return err
	}

	return b.parametricBody(ctx, f, w, env)
}

func (b *Builder) parametricBody(
	ctx context.Context,
	f *file,
	w io.Writer,
	env *lang.Env,
) error {
	for line, err := range f.lines() {
		if err != nil {
			return err
		}

		err = b.parametricLine(ctx, f, env, line, w)
		if err != nil {
			return err
		}
	}

	return nil
}

// parametricLine applies a PARAM declaration to env, or substitutes any
// other line and writes the result to w.
func (b *Builder) parametricLine(
	ctx context.Context,
	f *file,
	env *lang.Env,
	line string,
	w io.Writer,
) error {
	if d := lang.Classify(line); d.Class == lang.ClassParam {
		err := env.Declare(lang.ParseParam(d.Args))
		if errors.Is(err, lang.ErrParameterRequired) {
			return f.locate(err, line)
		}

		b.warn(ctx, f.locate(err, line))

		return nil
	}

	text, missing := lang.Substitute(env, line)

	for _, err := range missing {
		b.warn(ctx, f.locate(err, line))
	}

	return write(w, text)
}

package build

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/source"
)

// file is a source being processed. It tracks the number of the line most
// recently read.
type file struct {
	path  string
	dir   string
	r     *bufio.Reader
	line  int
	depth int
}

func newFile(src *source.Source, depth int) *file {
	return &file{
		path:  src.Path,
		dir:   src.Dir(),
		r:     bufio.NewReader(src),
		depth: depth,
	}
}

// next returns the next line of f including its newline, or io.EOF when f is
// exhausted. The final line need not end with a newline.
func (f *file) next() (string, error) {
	line, err := f.r.ReadString('\n')
	if line != "" {
		f.line++

		return line, nil
	}

	if errors.Is(err, io.EOF) {
		return "", io.EOF
	}

	return "", ErrReadSource.
		At(lang.Position{File: f.path, Line: f.line + 1}).
		Wrap(err)
}

// lines returns an iterator over the remaining lines of f. A read failure is
// yielded once as the final element.
func (f *file) lines() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			line, err := f.next()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}

// pos locates the line most recently read from f.
func (f *file) pos(text string) lang.Position {
	return lang.Position{
		File:   f.path,
		Line:   f.line,
		Column: 1,
		Text:   strings.TrimSpace(text),
	}
}

// locate attaches the current position of f to err.
func (f *file) locate(err error, text string) error {
	return lang.Locate(err, f.path, f.line, strings.TrimSpace(text))
}

// isStdout reports whether name refers to standard output.
func isStdout(name string) bool {
	switch name {
	case "", "-", "<stdout>":
		return true
	}

	return false
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openSink opens the output named name. Relative names are placed under the
// output directory and missing parent directories are created.
func (b *Builder) openSink(name string) (io.WriteCloser, error) {
	if b.dryRun {
		return nopCloser{io.Discard}, nil
	}

	if isStdout(name) {
		return nopCloser{b.stdout}, nil
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.outDir, path)
	}

	err := os.MkdirAll(filepath.Dir(path), defaultDirMode)
	if err != nil {
		return nil, ErrOpenOutput.With(slog.String("output", path)).Wrap(err)
	}

	out, err := os.Create(path)
	if err != nil {
		return nil, ErrOpenOutput.With(slog.String("output", path)).Wrap(err)
	}

	return out, nil
}

func write(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

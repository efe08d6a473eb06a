package source

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/pkg"
)

// PathEnv names the environment variable holding the search path.
const PathEnv = "WEBUILD_PATH"

// Stdin is the display name of standard input.
const Stdin = "<stdin>"

// IsStdin reports whether name refers to standard input.
func IsStdin(name string) bool {
	switch name {
	case "", "-", Stdin:
		return true
	}

	return false
}

// Source is an opened source file.
type Source struct {
	io.ReadCloser

	// Name is the name the source was requested by.
	Name string
	// Path is the resolved path, or [Stdin].
	Path string
}

// IsStdin reports whether s reads from standard input.
func (s *Source) IsStdin() bool { return s.Path == Stdin }

// Dir returns the directory containing s. Inclusions inside s resolve
// relative to it. Standard input resolves relative to the working directory.
func (s *Source) Dir() string {
	if s.IsStdin() {
		return ""
	}

	return filepath.Dir(s.Path)
}

// Resolver locates source files by name.
//
// The zero value resolves names relative to the working directory only and
// reads standard input from [os.Stdin].
type Resolver struct {
	stdin  io.Reader
	search []string
}

// Option configures a [Resolver].
type Option = pkg.Option[Resolver]

// WithStdin sets the reader returned for standard input names.
func WithStdin(r io.Reader) Option {
	return func(res Resolver) Resolver {
		res.stdin = r

		return res
	}
}

// WithSearchPath sets the directories searched for relative names that do
// not resolve against their base directory.
func WithSearchPath(dirs ...string) Option {
	return func(res Resolver) Resolver {
		res.search = slices.Clone(dirs)

		return res
	}
}

// NewResolver returns a resolver configured with opts.
func NewResolver(opts ...Option) *Resolver {
	res := pkg.Apply(Resolver{stdin: os.Stdin}, opts...)

	return &res
}

// SearchPath merges the include directories given on the command line, in
// the order given, in front of the directories listed in $WEBUILD_PATH.
// Entries that are not directories are dropped.
func SearchPath(include ...string) []string {
	// Each prefix item is placed in front of the previous one.
	prefix := slices.Clone(include)
	slices.Reverse(prefix)

	merged := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(isDir),
	).String()

	var dirs []string

	for _, dir := range filepath.SplitList(merged) {
		if dir != "" && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// Search returns the search path of r.
func (r *Resolver) Search() []string { return slices.Clone(r.search) }

// OpenFile opens a top-level input by exact path. Standard input names return
// standard input.
func (r *Resolver) OpenFile(name string) (*Source, error) {
	if IsStdin(name) {
		return r.openStdin(name), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, lang.ErrSourceNotFound.
			With(slog.String("source", name)).
			Wrap(err)
	}

	return &Source{ReadCloser: f, Name: name, Path: name}, nil
}

// Open resolves name as a source of the given kind.
//
// Relative names are joined under base (if non-empty) and each extension of
// kind is tried in order; the first candidate that is a regular file is
// opened. If none matches, each directory of the search path is tried the
// same way. The returned error lists every attempted path and, when a close
// match exists, a suggestion.
func (r *Resolver) Open(name string, kind lang.Kind, base string) (*Source, error) {
	if IsStdin(name) {
		return r.openStdin(name), nil
	}

	var tried []string

	roots := []string{base}
	if !filepath.IsAbs(name) {
		roots = append(roots, r.search...)
	}

	for i, root := range roots {
		if i > 0 && root == base {
			continue
		}

		prefix := name
		if root != "" && !filepath.IsAbs(name) {
			prefix = filepath.Join(root, name)
		}

		for _, ext := range kind.Extensions() {
			path := prefix + ext
			tried = append(tried, path)

			if f, ok := openRegular(path); ok {
				return &Source{ReadCloser: f, Name: name, Path: path}, nil
			}
		}
	}

	err := lang.ErrSourceNotFound.With(
		slog.String("source", name),
		slog.String("kind", kind.Tag()),
		slog.Any("tried", tried),
	)

	if len(tried) > 0 {
		if hint := Suggest(filepath.Base(name), siblings(tried[0])); hint != "" {
			err = err.With(slog.String("suggestion", hint))
		}
	}

	return nil, err.Wrap(fmt.Errorf("%s: tried %s: %w",
		name, strings.Join(tried, ", "), fs.ErrNotExist))
}

// Suggest returns the candidate that best matches name, or "" if none is
// close.
func Suggest(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

func (r *Resolver) openStdin(name string) *Source {
	in := r.stdin
	if in == nil {
		in = os.Stdin
	}

	return &Source{ReadCloser: io.NopCloser(in), Name: name, Path: Stdin}
}

// openRegular opens path if it is a regular file (following symlinks).
func openRegular(path string) (*os.File, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}

	return f, true
}

// siblings lists the entry names of the directory containing path.
func siblings(path string) []string {
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	return names
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// Canonical returns the absolute, symlink-resolved form of path. Standard
// input has no canonical path and is returned unchanged.
func Canonical(path string) string {
	if path == Stdin {
		return path
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}

	return resolved
}

package build

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/webuild/lang"
	"github.com/ardnew/webuild/log"
)

// tree writes files (name -> content) under a new temporary directory and
// returns its path.
func tree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, name)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

func newBuilder(t *testing.T, opts ...Option) (*Builder, *bytes.Buffer, string) {
	t.Helper()

	var out bytes.Buffer

	outDir := t.TempDir()

	b := New(append([]Option{
		WithLogger(log.Make(io.Discard)),
		WithStdout(&out),
		WithOutDir(outDir),
	}, opts...)...)

	return b, &out, outDir
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	return string(b)
}

func hasDiagnostic(b *Builder, target error) bool {
	for _, err := range b.Diagnostics() {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func TestBuild_TopLevel(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		want    string
		diag    error
	}{
		{
			name:    "fragment passthrough",
			content: ":FRAGMENT;\nhello :X:Y; world\n",
			want:    "hello :X:Y; world\n",
		},
		{
			name:    "canonical declaration",
			content: "::FRAGMENT;\n\\:kept\\;\n",
			want:    "\\:kept\\;\n",
		},
		{
			name:    "shebang skipped",
			content: "#!/usr/bin/env webuild\n::FRAGMENT;\nbody",
			want:    "body",
		},
		{
			name:    "parametric substitution",
			content: "::PARAMETRIC;\nHi <[name]>!\n",
			env:     map[string]string{"name": "Bob"},
			want:    "Hi Bob!\n",
		},
		{
			name:    "existing binding wins over declaration",
			content: "::PARAMETRIC;\n:PARAM:x:True:0;\nx=<[x]>\n",
			env:     map[string]string{"x": "5"},
			want:    "x=5\n",
		},
		{
			name:    "declared default",
			content: "::PARAMETRIC;\n::PARAM:x:False:7;\nx=<[x]>\n",
			want:    "x=7\n",
		},
		{
			name:    "required default warns",
			content: "::PARAMETRIC;\n::PARAM:x:True:7;\nx=<[x]>\n",
			want:    "x=7\n",
			diag:    lang.ErrParameterDefaulted,
		},
		{
			name:    "missing parameter",
			content: "::PARAMETRIC;\n[<[missing]>]\n",
			want:    "[]\n",
			diag:    lang.ErrMissingParameter,
		},
		{
			name:    "non-param commands are substituted",
			content: "::PARAMETRIC;\n:FRAGMENT:<[f]>;\n",
			env:     map[string]string{"f": "x"},
			want:    ":FRAGMENT:x;\n",
		},
		{
			name:    "invalid declaration falls back to fragment",
			content: "hello\n:PARAM:x;\n<[x]>\n",
			want:    "hello\n:PARAM:x;\n<[x]>\n",
			diag:    lang.ErrDeclaration,
		},
		{
			name:    "unknown kind falls back to fragment",
			content: "::WIDGET;\nbody\n",
			want:    "::WIDGET;\nbody\n",
			diag:    lang.ErrDeclaration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tree(t, map[string]string{"input": tt.content})
			b, out, _ := newBuilder(t)

			env := lang.NewEnv()
			for k, v := range tt.env {
				env.Set(k, v)
			}

			err := b.Build(context.Background(), filepath.Join(dir, "input"), "-", env)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output mismatch:\nwant %q\n got %q", tt.want, got)
			}

			if tt.diag != nil && !hasDiagnostic(b, tt.diag) {
				t.Errorf("expected diagnostic %v, got %v", tt.diag, b.Diagnostics())
			}

			if tt.diag == nil && len(b.Diagnostics()) != 0 {
				t.Errorf("unexpected diagnostics: %v", b.Diagnostics())
			}
		})
	}
}

func TestBuild_RequiredParameterIsFatal(t *testing.T) {
	dir := tree(t, map[string]string{
		"page": "::PARAMETRIC;\nbefore\n::PARAM:y:True:;\nafter\n",
	})

	b, out, _ := newBuilder(t)

	err := b.Build(context.Background(), filepath.Join(dir, "page"), "-", nil)
	if !errors.Is(err, lang.ErrParameterRequired) {
		t.Fatalf("expected ErrParameterRequired, got %v", err)
	}

	var e *lang.Error
	if errors.As(err, &e) && e.Position().Line != 3 {
		t.Errorf("expected line 3, got %d", e.Position().Line)
	}

	if got := out.String(); got != "before\n" {
		t.Errorf("expected processing to stop, got %q", got)
	}
}

func TestBuild_Template(t *testing.T) {
	dir := tree(t, map[string]string{
		"index.temp": "::TEMPLATE;\n" +
			"<html>\n" +
			":; a comment\n" +
			"  :FRAGMENT:parts/head;\n" +
			":PARAMETRIC:greet:ignored.txt:who=World:bad;\n" +
			"\\:literal\\;\n" +
			"</html>\n",
		"parts/head.frag": "::FRAGMENT;\n<head/>\n",
		"greet.param":     "::PARAMETRIC;\n::PARAM:who:True:nobody;\nHello <[who]>\n",
	})

	b, out, _ := newBuilder(t)

	err := b.Build(context.Background(), filepath.Join(dir, "index.temp"), "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "<html>\n<head/>\nHello World\n:literal;\n</html>\n"
	if got := out.String(); got != want {
		t.Errorf("output mismatch:\nwant %q\n got %q", want, got)
	}

	if !hasDiagnostic(b, lang.ErrBindingSyntax) {
		t.Errorf("expected binding diagnostic, got %v", b.Diagnostics())
	}

	deps := b.Dependencies()
	if len(deps) != 2 {
		t.Fatalf("expected 2 dependencies, got %d", len(deps))
	}

	if deps[0].Kind != lang.KindFragment || deps[0].Line != 4 || deps[0].Depth != 1 {
		t.Errorf("unexpected first dependency: %+v", deps[0])
	}

	if deps[1].Kind != lang.KindParametric || deps[1].Path != filepath.Join(dir, "greet.param") {
		t.Errorf("unexpected second dependency: %+v", deps[1])
	}
}

func TestBuild_TemplateRecoverable(t *testing.T) {
	tests := []struct {
		name string
		line string
		diag error
	}{
		{"unrecognized command", ":TEMPLTE:x;\n", lang.ErrUnrecognizedCommand},
		{"missing source", ":FRAGMENT;\n", lang.ErrInvalidCommand},
		{"declaration", "::TEMPLATE;\n", lang.ErrInvalidCommand},
		{"param", "::PARAM:x;\n", lang.ErrInvalidCommand},
		{"blueprint", ":BLUEPRINT:site;\n", lang.ErrInvalidCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tree(t, map[string]string{"t": "::TEMPLATE;\n" + tt.line})
			b, out, _ := newBuilder(t)

			err := b.Build(context.Background(), filepath.Join(dir, "t"), "-", nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if out.String() != tt.line {
				t.Errorf("expected raw line echoed, got %q", out.String())
			}

			if !hasDiagnostic(b, tt.diag) {
				t.Errorf("expected %v, got %v", tt.diag, b.Diagnostics())
			}

			for _, diag := range b.Diagnostics() {
				var e *lang.Error
				if !errors.As(diag, &e) {
					t.Fatalf("expected *lang.Error, got %T", diag)
				}

				if pos := e.Position(); pos.Line != 2 || pos.Column != 1 {
					t.Errorf("expected position 2:1, got %v", pos)
				}
			}
		})
	}
}

func TestBuild_IncludedDeclarationFallback(t *testing.T) {
	dir := tree(t, map[string]string{
		"t":    "::TEMPLATE;\n:FRAGMENT:frag;\n",
		"frag": "::TEMPLATE;\n:FRAGMENT:frag;\n",
	})

	b, out, _ := newBuilder(t)

	err := b.Build(context.Background(), filepath.Join(dir, "t"), "-", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "::TEMPLATE;\n:FRAGMENT:frag;\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}

	if !hasDiagnostic(b, lang.ErrDeclaration) {
		t.Errorf("expected declaration diagnostic, got %v", b.Diagnostics())
	}

	var e *lang.Error
	if errors.As(b.Diagnostics()[0], &e) && e.Position().Column != 1 {
		t.Errorf("expected column 1, got %d", e.Position().Column)
	}
}

func TestBuild_MissingSourceIsFatal(t *testing.T) {
	dir := tree(t, map[string]string{
		"t": "::TEMPLATE;\nbefore\n:FRAGMENT:nope;\nafter\n",
	})

	b, out, _ := newBuilder(t)

	err := b.Build(context.Background(), filepath.Join(dir, "t"), "-", nil)
	if !errors.Is(err, lang.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}

	var e *lang.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *lang.Error, got %T", err)
	}

	if pos := e.Position(); pos.Line != 3 || pos.File != filepath.Join(dir, "t") {
		t.Errorf("unexpected position %v", pos)
	}

	if out.String() != "before\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestBuild_IncludeCycle(t *testing.T) {
	dir := tree(t, map[string]string{
		"a.temp": "::TEMPLATE;\n:TEMPLATE:b;\n",
		"b.temp": "::TEMPLATE;\n:TEMPLATE:a;\n",
	})

	b, _, _ := newBuilder(t)

	err := b.Build(context.Background(), filepath.Join(dir, "a.temp"), "-", nil)
	if !errors.Is(err, lang.ErrIncludeCycle) {
		t.Fatalf("expected ErrIncludeCycle, got %v", err)
	}
}

func TestBuild_SiblingRepeatAllowed(t *testing.T) {
	dir := tree(t, map[string]string{
		"t":    "::TEMPLATE;\n:FRAGMENT:f;\n:FRAGMENT:f;\n",
		"f.frag": "::FRAGMENT;\nx\n",
	})

	b, out, _ := newBuilder(t)

	err := b.Build(context.Background(), filepath.Join(dir, "t"), "-", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.String() != "x\nx\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestBuild_Blueprint(t *testing.T) {
	dir := tree(t, map[string]string{
		"site.blue": "::BLUEPRINT;\n" +
			":FRAGMENT:a;\n" +
			":; comment\n" +
			":TEMPLATE:t:pages/named.html;\n" +
			":BLUEPRINT:sub/more;\n" +
			":PARAMETRIC:p::v=1;\n",
		"a.frag":         "::FRAGMENT;\nA\n",
		"t.temp":         "::TEMPLATE;\nT\n",
		"p.param":        "::PARAMETRIC;\nv=<[v]>\n",
		"sub/more.blue":  "::BLUEPRINT;\n:FRAGMENT:b;\n",
		"sub/b.fragment": "::FRAGMENT;\nB\n",
	})

	b, out, outDir := newBuilder(t)

	err := b.Build(context.Background(), filepath.Join(dir, "site.blue"), "ignored", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"0.out":            "A\n",
		"pages/named.html": "T\n",
		"1.out":            "B\n",
		"2.out":            "v=1\n",
	}

	for name, content := range want {
		if got := readFile(t, filepath.Join(outDir, name)); got != content {
			t.Errorf("%s: expected %q, got %q", name, content, got)
		}
	}

	if out.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", out.String())
	}

	var outputs []string
	for _, d := range b.Dependencies() {
		outputs = append(outputs, d.Output)
	}

	wantOutputs := []string{"0.out", "pages/named.html", "", "1.out", "2.out"}
	if diff := cmp.Diff(wantOutputs, outputs); diff != "" {
		t.Errorf("dependency outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_BlueprintFatal(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{
			name:  "text line",
			files: map[string]string{"b": "::BLUEPRINT;\nnot a command\n"},
			want:  lang.ErrCommandSyntax,
		},
		{
			name:  "blank line",
			files: map[string]string{"b": "::BLUEPRINT;\n:FRAGMENT:a;\n\n", "a": "A\n"},
			want:  lang.ErrCommandSyntax,
		},
		{
			name:  "unrecognized command",
			files: map[string]string{"b": "::BLUEPRINT;\n:FRAGMNT:x;\n"},
			want:  lang.ErrUnrecognizedCommand,
		},
		{
			name:  "param",
			files: map[string]string{"b": "::BLUEPRINT;\n::PARAM:x;\n"},
			want:  lang.ErrInvalidCommand,
		},
		{
			name:  "missing source",
			files: map[string]string{"b": "::BLUEPRINT;\n:TEMPLATE;\n"},
			want:  lang.ErrInvalidCommand,
		},
		{
			name: "included declaration mismatch",
			files: map[string]string{
				"b":   "::BLUEPRINT;\n:BLUEPRINT:sub;\n",
				"sub": "::TEMPLATE;\n",
			},
			want: lang.ErrDeclaration,
		},
		{
			name:  "unresolved source",
			files: map[string]string{"b": "::BLUEPRINT;\n:FRAGMENT:gone;\n"},
			want:  lang.ErrSourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tree(t, tt.files)
			b, _, _ := newBuilder(t)

			err := b.Build(context.Background(), filepath.Join(dir, "b"), "-", nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuild_DryRun(t *testing.T) {
	dir := tree(t, map[string]string{
		"site.blue": "::BLUEPRINT;\n:FRAGMENT:a;\n:TEMPLATE:t:x/y.html;\n",
		"a.frag":    "::FRAGMENT;\nA\n",
		"t.temp":    "::TEMPLATE;\n:FRAGMENT:a;\n",
	})

	b, _, outDir := newBuilder(t, WithDryRun(true))

	err := b.Build(context.Background(), filepath.Join(dir, "site.blue"), "-", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 0 {
		t.Errorf("expected no outputs, found %d", len(entries))
	}

	got := b.Dependencies()

	want := []Dependency{
		{Parent: filepath.Join(dir, "site.blue"), Line: 2, Kind: lang.KindFragment, Path: filepath.Join(dir, "a.frag"), Output: "0.out", Depth: 1},
		{Parent: filepath.Join(dir, "site.blue"), Line: 3, Kind: lang.KindTemplate, Path: filepath.Join(dir, "t.temp"), Output: "x/y.html", Depth: 1},
		{Parent: filepath.Join(dir, "t.temp"), Line: 2, Kind: lang.KindFragment, Path: filepath.Join(dir, "a.frag"), Depth: 2},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_ParametricLine(t *testing.T) {
	b, _, _ := newBuilder(t)
	env := lang.NewEnv()

	var out bytes.Buffer

	lines := []string{
		":PARAM:name:False:World;",
		"Hello <[name]>!",
		":PARAM:name:False:Again;",
		" <[name]>",
	}

	for _, line := range lines {
		if err := b.ParametricLine(context.Background(), env, line, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if want := "Hello World! World"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}

	err := b.ParametricLine(context.Background(), env, ":PARAM:req:True:;", &out)
	if !errors.Is(err, lang.ErrParameterRequired) {
		t.Errorf("expected ErrParameterRequired, got %v", err)
	}
}

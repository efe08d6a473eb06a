package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestError_Error(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"message", ErrSourceNotFound, "source not found"},
		{"wrapped", ErrSourceNotFound.Wrap(cause), "source not found: boom"},
		{
			"located",
			ErrCommandSyntax.At(Position{File: "a.temp", Line: 3, Column: 7}).Wrap(ErrTerminatorMissing),
			"a.temp:3:7: command syntax error: terminator ';' missing",
		},
		{"column_only", ErrMissingParameter.At(Position{Column: 2}), "missing parameter"},
		{"cause_only", WrapError(cause), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("outer: %w",
		ErrParameterRequired.At(Position{Line: 2}).With(slog.String("parameter", "x")))

	if !errors.Is(err, ErrParameterRequired) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(err, ErrParameterDefaulted) {
		t.Error("derived error matches a different sentinel")
	}

	wrapped := ErrCommandSyntax.Wrap(ErrNonWhitespace)
	if !errors.Is(wrapped, ErrNonWhitespace) {
		t.Error("wrapped reason not found")
	}
}

func TestLocate(t *testing.T) {
	err := Locate(ErrMissingParameter.At(Position{Column: 4}), "p.param", 9, "x <[y]>")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Locate() returned %T", err)
	}

	want := Position{File: "p.param", Line: 9, Column: 4, Text: "x <[y]>"}
	if diff := cmp.Diff(want, e.Position()); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}

	whole := Locate(ErrInvalidCommand, "t.temp", 2, "::X;")
	if got := whole.(*Error).Position(); got.Column != 1 {
		t.Errorf("expected column 1 for a located line, got %d", got.Column)
	}

	known := ErrMissingParameter.At(Position{File: "a", Line: 1})
	if got := Locate(known, "b", 2, "").(*Error).Position(); got.File != "a" || got.Line != 1 {
		t.Errorf("Locate() replaced known position: %+v", got)
	}

	plain := errors.New("plain")
	if got := Locate(plain, "b", 2, ""); got != plain {
		t.Errorf("Locate() = %v, want unchanged error", got)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrSourceNotFound.
		At(Position{File: "site.blue", Line: 2}).
		With(slog.String("name", "nav"))

	var got []string
	for _, a := range err.LogValue().Group() {
		got = append(got, a.Key+"="+a.Value.String())
	}

	want := []string{"error=source not found", "file=site.blue", "line=2", "name=nav"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LogValue mismatch (-want +got):\n%s", diff)
	}
}

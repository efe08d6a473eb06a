package lang

import (
	"errors"
	"testing"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		line    string
		want    string
		missing int
	}{
		{
			name: "simple macro",
			env:  map[string]string{"name": "Bob"},
			line: "Hi <[name]>!",
			want: "Hi Bob!",
		},
		{
			name: "newline preserved",
			env:  map[string]string{"a": "1", "b": "2"},
			line: "<[a]>+<[b]>\n",
			want: "1+2\n",
		},
		{
			name: "escaped opener",
			env:  map[string]string{"name": "Bob"},
			line: `\<[name]>`,
			want: "<[name]>",
		},
		{
			name: "escaped bracket",
			env:  map[string]string{"name": "Bob"},
			line: `<\[name]>`,
			want: "<[name]>",
		},
		{
			name: "escaped closer stays in name",
			env:  map[string]string{"a]>b": "odd"},
			line: `<[a]\>b]>`,
			want: "odd",
		},
		{
			name: "lone delimiters are literal",
			line: "a < b > c [d] <x> ]>",
			want: "a < b > c [d] <x> ]>",
		},
		{
			name: "failed opener consumes next character",
			env:  map[string]string{"v": "V"},
			line: "<<[v]>",
			want: "<<[v]>",
		},
		{
			name: "incomplete closer keeps bracket in name",
			env:  map[string]string{"a]b": "X"},
			line: "<[a]b]>",
			want: "X",
		},
		{
			name: "unterminated macro flushed",
			env:  map[string]string{"x": "X"},
			line: "tail <[x\n",
			want: "tail <[x\n",
		},
		{
			name: "dangling opener flushed",
			line: "end<",
			want: "end<",
		},
		{
			name: "pending closer flushed",
			line: "end<[x]",
			want: "end<[x]",
		},
		{
			name: "backslash removed from plain text",
			line: `a\\b \c`,
			want: `a\b c`,
		},
		{
			name:    "missing parameter",
			line:    "<[missing]>",
			want:    "",
			missing: 1,
		},
		{
			name:    "missing parameter reported once per env",
			line:    "<[m]><[m]>",
			want:    "",
			missing: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnv()
			for k, v := range tt.env {
				env.Set(k, v)
			}

			got, missing := Substitute(env, tt.line)

			if got != tt.want {
				t.Errorf("Substitute(%q) = %q, want %q", tt.line, got, tt.want)
			}

			if len(missing) != tt.missing {
				t.Errorf("expected %d missing parameter(s), got %d: %v",
					tt.missing, len(missing), missing)
			}
		})
	}
}

func TestSubstitute_MissingBindsEmpty(t *testing.T) {
	env := NewEnv()

	got, missing := Substitute(env, "<[missing]>")
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}

	if len(missing) != 1 || !errors.Is(missing[0], ErrMissingParameter) {
		t.Fatalf("expected one ErrMissingParameter, got %v", missing)
	}

	var e *Error
	if errors.As(missing[0], &e) && e.Position().Column != 11 {
		t.Errorf("expected column 11, got %d", e.Position().Column)
	}

	value, ok := env.Lookup("missing")
	if !ok || value != "" {
		t.Errorf("expected missing bound to empty, got %q bound=%v", value, ok)
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		line     string
		want     string
		trailing bool
	}{
		{line: "plain\n", want: "plain\n"},
		{line: `\:FRAGMENT:x;` + "\n", want: ":FRAGMENT:x;\n"},
		{line: `a\\b`, want: `a\b`},
		{line: "ends\\", want: "ends", trailing: true},
		{line: "newline\\\n", want: "newline\n"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Unescape(tt.line)

			if got != tt.want {
				t.Errorf("Unescape(%q) = %q, want %q", tt.line, got, tt.want)
			}

			if tt.trailing != errors.Is(err, ErrTrailingEscape) {
				t.Errorf("expected trailing=%v, got err %v", tt.trailing, err)
			}
		})
	}
}

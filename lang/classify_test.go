package lang

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		class Class
		kind  Kind
		label string
		args  []string
	}{
		{name: "plain text", line: "hello world\n", class: ClassNotCommand},
		{name: "comment", line: "  :; nothing to see\n", class: ClassComment},
		{
			name:  "canonical declaration",
			line:  "::PARAMETRIC;\n",
			class: ClassDeclaration,
			kind:  KindParametric,
			label: "PARAMETRIC",
		},
		{
			name:  "declaration of unknown kind",
			line:  "::WIDGET;\n",
			class: ClassDeclaration,
			kind:  KindUnknown,
			label: "WIDGET",
		},
		{
			name:  "invocation",
			line:  ":FRAGMENT:header:out.txt;\n",
			class: ClassInvocation,
			kind:  KindFragment,
			args:  []string{"header", "out.txt"},
		},
		{
			name:  "canonical param",
			line:  "::PARAM:x:True:0;\n",
			class: ClassParam,
			args:  []string{"x", "True", "0"},
		},
		{
			name:  "short param",
			line:  ":PARAM:y:True:;\n",
			class: ClassParam,
			args:  []string{"y", "True", ""},
		},
		{
			name:  "unrecognized",
			line:  ":TEMPLTE:page;\n",
			class: ClassUnrecognized,
			label: "TEMPLTE",
		},
		{
			name:  "lowercase tag is not a kind",
			line:  ":template:page;\n",
			class: ClassUnrecognized,
			label: "template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.line)

			if d.Class != tt.class {
				t.Fatalf("expected class %v, got %v", tt.class, d.Class)
			}

			if d.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, d.Kind)
			}

			if d.Name != tt.label {
				t.Errorf("expected name %q, got %q", tt.label, d.Name)
			}

			if diff := cmp.Diff(tt.args, d.Args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}

			if tt.class == ClassNotCommand && !errors.Is(d.Err, ErrCommandSyntax) {
				t.Errorf("expected ErrCommandSyntax, got %v", d.Err)
			}
		})
	}
}

func TestDirective_Declares(t *testing.T) {
	tests := []struct {
		line string
		want Kind
	}{
		{"::BLUEPRINT;\n", KindBlueprint},
		{":TEMPLATE;\n", KindTemplate},
		{"  ::FRAGMENT; a fragment\n", KindFragment},
		{":PARAMETRIC; short form\n", KindParametric},
		{":FRAGMENT:name;\n", KindUnknown},
		{"::WIDGET;\n", KindUnknown},
		{":;\n", KindUnknown},
		{"FRAGMENT\n", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := Classify(tt.line).Declared(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDirective_InvocationSlots(t *testing.T) {
	d := Classify(":PARAMETRIC:page::a=1:b=2;\n")

	if d.Source() != "page" {
		t.Errorf("expected source %q, got %q", "page", d.Source())
	}

	if d.Output() != "" {
		t.Errorf("expected empty output, got %q", d.Output())
	}

	if diff := cmp.Diff([]string{"a=1", "b=2"}, d.Bindings()); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	bare := Classify(":TEMPLATE;\n")
	if bare.Source() != "" || bare.Output() != "" || bare.Bindings() != nil {
		t.Errorf("expected no slots, got %q %q %v",
			bare.Source(), bare.Output(), bare.Bindings())
	}
}

func TestKind_Extensions(t *testing.T) {
	tests := []struct {
		kind Kind
		want []string
	}{
		{KindBlueprint, []string{"", ".blueprint", ".blue"}},
		{KindTemplate, []string{"", ".template", ".temp"}},
		{KindFragment, []string{"", ".fragment", ".frag"}},
		{KindParametric, []string{"", ".parametric", ".param"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.kind.Extensions()); diff != "" {
				t.Errorf("extensions mismatch (-want +got):\n%s", diff)
			}

			k, ok := ParseKind(tt.kind.Tag())
			if !ok || k != tt.kind {
				t.Errorf("ParseKind(%q) = %v, %v", tt.kind.Tag(), k, ok)
			}
		})
	}
}

func TestKind_Tag(t *testing.T) {
	tests := []struct {
		kind Kind
		tag  string
	}{
		{KindBlueprint, "BLUEPRINT"},
		{KindParametric, "PARAMETRIC"},
		{KindUnknown, ""},
		{Kind(42), ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Tag(); got != tt.tag {
				t.Errorf("Tag() = %q, want %q", got, tt.tag)
			}
		})
	}
}

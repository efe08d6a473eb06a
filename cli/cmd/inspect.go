package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ardnew/webuild/lang"
)

// Inspect prints the classification of each line of a source file.
type Inspect struct {
	Format string `help:"Output format" default:"text" enum:"text,json,yaml" short:"o"`

	Source string `arg:"" help:"Input source file or '-' for stdin" name:"source" default:"-" optional:""`
}

// lineInfo is the classification of one line.
type lineInfo struct {
	Line    int        `json:"line"              yaml:"line"`
	Class   lang.Class `json:"class"             yaml:"class"`
	Kind    string     `json:"kind,omitempty"    yaml:"kind,omitempty"`
	Name    string     `json:"name,omitempty"    yaml:"name,omitempty"`
	Fields  []string   `json:"fields,omitempty"  yaml:"fields,omitempty"`
	Comment string     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Error   string     `json:"error,omitempty"   yaml:"error,omitempty"`
}

func makeLineInfo(n int, d lang.Directive) lineInfo {
	info := lineInfo{
		Line:    n,
		Class:   d.Class,
		Kind:    d.Kind.Tag(),
		Fields:  d.Args,
		Comment: strings.TrimSpace(d.Command.Comment()),
	}

	if !d.Kind.Valid() {
		info.Name = d.Name
	}

	if d.Err != nil && !errors.Is(d.Err, lang.ErrInitiatorMissing) {
		info.Error = d.Err.Error()
	}

	return info
}

// Run executes the inspect command.
func (i *Inspect) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := newResolver(ctx).OpenFile(i.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	lines, err := classifyLines(src)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	switch i.Format {
	case "json":
		return writeJSON(w, lines)

	case "yaml":
		return writeYAML(w, lines)
	}

	return writeLines(w, lines)
}

// classifyLines classifies every line read from r.
func classifyLines(r io.Reader) ([]lineInfo, error) {
	lines := make([]lineInfo, 0)

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		lines = append(lines, makeLineInfo(n, lang.Classify(scanner.Text())))
	}

	return lines, scanner.Err()
}

// writeLines writes one line per classified line.
func writeLines(w io.Writer, lines []lineInfo) error {
	for _, info := range lines {
		var b strings.Builder

		fmt.Fprintf(&b, "%4d  %-12s", info.Line, info.Class)

		switch {
		case info.Kind != "":
			b.WriteString(" " + info.Kind)

		case info.Name != "":
			b.WriteString(" " + info.Name)
		}

		if len(info.Fields) > 0 {
			b.WriteString(" [" + strings.Join(info.Fields, " ") + "]")
		}

		if info.Comment != "" {
			b.WriteString(" # " + info.Comment)
		}

		if info.Error != "" {
			b.WriteString(" ! " + info.Error)
		}

		_, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
		if err != nil {
			return err
		}
	}

	return nil
}

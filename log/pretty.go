package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// prettyStyles are the styles used by a prettyHandler, bound to the
// renderer of its output.
type prettyStyles struct {
	time, key, message, source lipgloss.Style

	str, num, boolean, other lipgloss.Style

	level map[slog.Level]lipgloss.Style
}

func makePrettyStyles(w io.Writer) *prettyStyles {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &prettyStyles{
		time:    fg("8"),
		key:     fg("8"),
		message: r.NewStyle().Bold(true),
		source:  fg("8").Italic(true),
		str:     fg("6"),
		num:     fg("3"),
		boolean: fg("5"),
		other:   fg("4"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("8"),
			slog.Level(LevelDebug): fg("4"),
			slog.Level(LevelInfo):  fg("2"),
			slog.Level(LevelWarn):  fg("3").Bold(true),
			slog.Level(LevelError): fg("1").Bold(true),
		},
	}
}

func (s *prettyStyles) levelStyle(l slog.Level) lipgloss.Style {
	best := slog.Level(LevelTrace)

	for k := range s.level {
		if k <= l && k > best {
			best = k
		}
	}

	return s.level[best]
}

// prettyHandler writes one styled line of text per record, intended for
// reading in a terminal.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	styles     *prettyStyles
	mu         *sync.Mutex
	w          io.Writer

	attrs  []byte // rendered attributes added by WithAttrs
	prefix string // qualifier of the open groups, e.g. "a.b."
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		styles:     makePrettyStyles(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() && h.formatTime != nil {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.styles.time.Render(ts))
			buf.WriteByte(' ')
		}
	}

	label := fmt.Sprintf("%-5s", strings.ToUpper(Level(r.Level).String()))
	buf.WriteString(h.styles.levelStyle(r.Level).Render(label))
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			loc := filepath.Base(src.File) + ":" + strconv.Itoa(src.Line)
			buf.WriteString(h.styles.source.Render(loc))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.styles.message.Render(r.Message))
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	buf := bytes.NewBuffer(bytes.Clone(h.attrs))

	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// writeAttr writes a as " key=value", flattening groups into dotted keys.
func (h *prettyHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.styles.key.Render(prefix + a.Key + "="))
	buf.WriteString(h.renderValue(a.Value))
}

func (h *prettyHandler) renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.styles.str.Render(quote(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return h.styles.num.Render(v.String())

	case slog.KindBool:
		return h.styles.boolean.Render(v.String())

	case slog.KindTime:
		return h.styles.other.Render(v.Time().Format("15:04:05.000"))
	}

	return h.styles.other.Render(quote(fmt.Sprint(v.Any())))
}

// quote quotes s only if it would otherwise be ambiguous on one line.
func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.Quote(s)
	}

	return s
}

package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/webuild/lang"
)

const (
	macroOpen  = "<["
	macroClose = "]>"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "bind", "unset", "reset", "clear", "quit"}

// nameCommands are the control-mode commands whose arguments are bound names.
var nameCommands = []string{"unset"}

// wordBounds returns the whitespace-delimited word at the cursor position and
// its byte boundaries within input. The word is empty when the cursor sits
// between two spaces or at either end of a blank input.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if unicode.IsSpace(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if unicode.IsSpace(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// macroBounds returns the partial parameter name of an open macro reference
// ("<[name") at the cursor position and its byte boundaries within input.
// It reports false if the cursor is not inside a macro reference.
func macroBounds(input string, cursor int) (word string, start, end int, ok bool) {
	cursor = min(max(cursor, 0), len(input))

	open := strings.LastIndex(input[:cursor], macroOpen)
	if open < 0 {
		return "", cursor, cursor, false
	}

	start = open + len(macroOpen)
	if strings.ContainsAny(input[start:cursor], "]<") {
		return "", cursor, cursor, false
	}

	end = len(input)
	if i := strings.IndexAny(input[cursor:], "]<"); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end, true
}

// byteOffset converts a rune position within s to a byte offset.
func byteOffset(s string, pos int) int {
	for i := range s {
		if pos == 0 {
			return i
		}

		pos--
	}

	return len(s)
}

// closesMacro reports whether the text following a completed name already
// closes the macro reference.
func closesMacro(rest string) bool { return strings.HasPrefix(rest, macroClose) }

// ctrlCandidates returns the completions for the word at wordStart of a
// control-mode input.
func ctrlCandidates(env *lang.Env, input string, wordStart int) []string {
	fields := strings.Fields(input[:wordStart])
	if len(fields) == 0 {
		return ctrlCommands
	}

	for _, cmd := range nameCommands {
		if fields[0] == cmd {
			return env.Names()
		}
	}

	return nil
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. In eval mode, only the name of an open macro reference is
// completed, and an empty name matches every bound name.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := byteOffset(input, m.input.Position())

	if m.mode == modeCtrl {
		word, ws, we := wordBounds(input, cursor)
		if word == "" {
			return nil, nil, ws, we
		}

		candidates = ctrlCandidates(m.env, input, ws)
		if len(candidates) == 0 {
			return nil, nil, ws, we
		}

		return fuzzy.Find(word, candidates), candidates, ws, we
	}

	word, ws, we, ok := macroBounds(input, cursor)
	if !ok {
		return nil, nil, cursor, cursor
	}

	candidates = m.env.Names()
	if len(candidates) == 0 {
		return nil, nil, ws, we
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, ws, we
	}

	return fuzzy.Find(word, candidates), candidates, ws, we
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && i < len(matches)-1 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

// formatBinding formats one binding for the list command, truncating long
// values.
func formatBinding(name, value string) string {
	const maxValue = 48

	if utf8.RuneCountInString(value) > maxValue {
		value = string([]rune(value)[:maxValue-3]) + "..."
	}

	return "  " + name + " " + hintStyle.Render("= "+value)
}

package lang

import "strings"

// Unescape removes one layer of backslash escaping from line: every "\x"
// becomes "x". A backslash with nothing after it is dropped and reported as
// [ErrTrailingEscape].
func Unescape(line string) (string, error) {
	if !strings.ContainsRune(line, '\\') {
		return line, nil
	}

	var (
		sb      strings.Builder
		escaped bool
	)

	sb.Grow(len(line))

	for _, r := range line {
		switch {
		case escaped:
			sb.WriteRune(r)

			escaped = false

		case r == '\\':
			escaped = true

		default:
			sb.WriteRune(r)
		}
	}

	if escaped {
		return sb.String(), ErrTrailingEscape.At(Position{
			Column: len([]rune(line)),
			Text:   strings.TrimSpace(line),
		})
	}

	return sb.String(), nil
}

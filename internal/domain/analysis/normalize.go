package analysis

import "strings"

// Normalize collapses whitespace runs to single spaces, strips control
// characters below 0x20, converts curly quotes to straight quotes and trims.
// Pure and idempotent; empty or invalid input yields "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case '“', '”':
			b.WriteRune('"')
		case '‘', '’':
			b.WriteRune('\'')
		case '\n', '\r', '\t':
			b.WriteRune(' ')
		default:
			if r >= 32 {
				b.WriteRune(r)
			}
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeList normalizes each item and drops the ones that come out empty.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if cleaned := Normalize(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

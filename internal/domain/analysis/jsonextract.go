package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Model completions are supposed to be JSON but frequently are not: wrapped
// in prose or code fences, truncated, or near-JSON. ExtractJSON applies the
// first recovery strategy that yields parseable JSON:
//
//  1. the greedy first-"{"-to-last-"}" span, verbatim;
//  2. the greedy "["-to-"]" span as the value of a synthetic wrapper object
//     under wrapKey (skipped when wrapKey is empty, i.e. the caller expects
//     a flat object);
//  3. each non-nested {...} substring independently, first one that parses.
//
// A false return is a hard failure for that model call; callers never retry
// with different prompting.
func ExtractJSON(raw, wrapKey string) (string, bool) {
	cleaned := cleanResponse(raw)
	if cleaned == "" {
		return "", false
	}

	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			if span := cleaned[start : end+1]; json.Valid([]byte(span)) {
				return span, true
			}
		}
	}

	if wrapKey != "" {
		if start := strings.Index(cleaned, "["); start >= 0 {
			if end := strings.LastIndex(cleaned, "]"); end > start {
				if span := cleaned[start : end+1]; json.Valid([]byte(span)) {
					return fmt.Sprintf("{%q: %s}", wrapKey, span), true
				}
			}
		}
	}

	for _, span := range flatObjectRe.FindAllString(cleaned, -1) {
		if json.Valid([]byte(span)) {
			return span, true
		}
	}

	return "", false
}

var (
	codeFenceRe  = regexp.MustCompile("```(?:json)?")
	flatObjectRe = regexp.MustCompile(`\{[^{}]*\}`)
)

// cleanResponse strips markdown fence markers and non-printable characters
// (keeping newlines and spaces) and normalizes curly quotes.
func cleanResponse(raw string) string {
	raw = codeFenceRe.ReplaceAllString(raw, "")
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '“' || r == '”':
			b.WriteRune('"')
		case r == '\n' || r == ' ' || unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

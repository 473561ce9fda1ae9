package analysis

import "context"

// Generator port (interface untuk LLM capability). Implementations own the
// per-call timeout and retry policy; an error means the call is exhausted.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DocumentParser port (interface untuk document-to-text extraction).
type DocumentParser interface {
	Parse(path string) (string, error)
}

// ClauseCache port: memoizes extraction results keyed by a deterministic
// hash of the normalized contract text. Implementations must be safe for
// concurrent use; eviction policy is theirs.
type ClauseCache interface {
	Get(key string) ([]Clause, bool)
	Add(key string, clauses []Clause)
}

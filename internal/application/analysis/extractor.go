package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

// ClauseExtractor drives one model call to segment a contract into clauses.
// Results are memoized per unique normalized text through the injected
// cache; concurrent extractions of identical text share a single flight so
// two divergent cached values for the same key never coexist.
type ClauseExtractor struct {
	gen   domain.Generator
	cache domain.ClauseCache
	group singleflight.Group
	log   *zap.Logger
}

func NewClauseExtractor(gen domain.Generator, cache domain.ClauseCache, log *zap.Logger) *ClauseExtractor {
	return &ClauseExtractor{gen: gen, cache: cache, log: log}
}

// Extract returns the validated clauses for the given contract text, or an
// error when the model call fails, no JSON is recoverable, or no element
// survives validation. Any of those aborts the document's analysis.
func (e *ClauseExtractor) Extract(ctx context.Context, contractText string) ([]domain.Clause, error) {
	text := domain.Normalize(contractText)
	if text == "" {
		return nil, fmt.Errorf("%w: contract text is empty", domain.ErrParsing)
	}

	key := cacheKey(text)
	if clauses, ok := e.cache.Get(key); ok {
		e.log.Debug("clause cache hit", zap.String("key", key))
		return clauses, nil
	}

	v, err, _ := e.group.Do(key, func() (any, error) {
		if clauses, ok := e.cache.Get(key); ok {
			return clauses, nil
		}
		clauses, err := e.extract(ctx, text)
		if err != nil {
			return nil, err
		}
		e.cache.Add(key, clauses)
		return clauses, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Clause), nil
}

func (e *ClauseExtractor) extract(ctx context.Context, text string) ([]domain.Clause, error) {
	raw, err := e.gen.Generate(ctx, extractionPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("clause extraction: %w", err)
	}

	payload, ok := domain.ExtractJSON(raw, clausesKey)
	if !ok {
		return nil, fmt.Errorf("%w: clause extraction", domain.ErrExtraction)
	}

	elements, err := decodeClauseElements(payload)
	if err != nil {
		return nil, err
	}

	clauses := make([]domain.Clause, 0, len(elements))
	for _, el := range elements {
		if clause, ok := buildClause(el); ok {
			clauses = append(clauses, clause)
		}
	}
	if len(clauses) == 0 {
		return nil, fmt.Errorf("%w: no valid clauses in response", domain.ErrExtraction)
	}

	e.log.Info("extracted clauses", zap.Int("count", len(clauses)))
	return clauses, nil
}

// rawClause is the untyped shape the model reports before validation.
type rawClause struct {
	Text                string   `json:"text"`
	PrimaryCategory     string   `json:"primary_category"`
	SecondaryCategories []string `json:"secondary_categories"`
	Obligations         []string `json:"obligations"`
	Deadlines           []string `json:"deadlines"`
	ComplianceRisks     []string `json:"compliance_risks"`
}

// decodeClauseElements tolerates both an array and a single object under
// the clauses key; malformed elements are dropped individually later.
func decodeClauseElements(payload string) ([]json.RawMessage, error) {
	var envelope struct {
		Clauses []json.RawMessage `json:"clauses"`
	}
	if err := json.Unmarshal([]byte(payload), &envelope); err == nil {
		return envelope.Clauses, nil
	}

	var single struct {
		Clauses json.RawMessage `json:"clauses"`
	}
	if err := json.Unmarshal([]byte(payload), &single); err != nil || len(single.Clauses) == 0 {
		return nil, fmt.Errorf("%w: unexpected clauses shape", domain.ErrExtraction)
	}
	return []json.RawMessage{single.Clauses}, nil
}

// buildClause validates and normalizes one model-reported clause. Clauses
// whose text is empty after cleaning are discarded.
func buildClause(el json.RawMessage) (domain.Clause, bool) {
	var rc rawClause
	if err := json.Unmarshal(el, &rc); err != nil {
		return domain.Clause{}, false
	}

	text := domain.Normalize(rc.Text)
	if text == "" {
		return domain.Clause{}, false
	}

	secondaries := make([]domain.Category, 0, len(rc.SecondaryCategories))
	for _, c := range rc.SecondaryCategories {
		if cat := domain.ValidateCategory(c); cat != domain.CategoryOther {
			secondaries = append(secondaries, cat)
		}
	}

	return domain.Clause{
		ID:                  domain.ClauseID(uuid.New().String()),
		Text:                text,
		PrimaryCategory:     domain.ValidateCategory(rc.PrimaryCategory),
		SecondaryCategories: secondaries,
		Obligations:         domain.NormalizeList(rc.Obligations),
		Deadlines:           domain.NormalizeList(rc.Deadlines),
		ComplianceRisks:     domain.NormalizeList(rc.ComplianceRisks),
		RiskScore:           domain.DefaultRiskScore,
	}, true
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

// ComplianceEvaluator drives one model call per (clause, regulation) pair.
// Failure of one pair never aborts other pairs: the error is absorbed
// locally and replaced with the canonical fail-safe default.
type ComplianceEvaluator struct {
	gen domain.Generator
	log *zap.Logger
}

func NewComplianceEvaluator(gen domain.Generator, log *zap.Logger) *ComplianceEvaluator {
	return &ComplianceEvaluator{gen: gen, log: log}
}

// Evaluate returns the verdict for one pair. It never returns an error;
// Evaluated is false when the fail-safe default was substituted.
func (ev *ComplianceEvaluator) Evaluate(ctx context.Context, clause domain.Clause, regulation domain.Regulation) domain.Evaluation {
	result, err := ev.evaluate(ctx, clause, regulation)
	if err != nil {
		ev.log.Warn("compliance evaluation failed, substituting default",
			zap.String("clause_id", string(clause.ID)),
			zap.String("regulation", string(regulation)),
			zap.Error(err))
		return domain.FailedEvaluation()
	}
	return domain.Evaluation{ComplianceResult: result, Evaluated: true}
}

// EvaluateAll evaluates one clause against every requested regulation, each
// pair independently.
func (ev *ComplianceEvaluator) EvaluateAll(ctx context.Context, clause domain.Clause, regulations []domain.Regulation) map[domain.Regulation]domain.Evaluation {
	out := make(map[domain.Regulation]domain.Evaluation, len(regulations))
	for _, reg := range regulations {
		out[reg] = ev.Evaluate(ctx, clause, reg)
	}
	return out
}

// rawVerdict is the untyped shape the model reports before validation.
type rawVerdict struct {
	Compliant           any      `json:"compliant"`
	RequirementsMet     []string `json:"requirements_met"`
	RequirementsMissing []string `json:"requirements_missing"`
	RiskLevel           string   `json:"risk_level"`
	Findings            []string `json:"findings"`
	Recommendations     []string `json:"recommendations"`
}

func (ev *ComplianceEvaluator) evaluate(ctx context.Context, clause domain.Clause, regulation domain.Regulation) (domain.ComplianceResult, error) {
	raw, err := ev.gen.Generate(ctx, compliancePrompt(clause, regulation))
	if err != nil {
		return domain.ComplianceResult{}, fmt.Errorf("compliance %s: %w", regulation, err)
	}

	// flat object expected, so no wrapper key for the array fallback
	payload, ok := domain.ExtractJSON(raw, "")
	if !ok {
		return domain.ComplianceResult{}, fmt.Errorf("%w: compliance %s", domain.ErrExtraction, regulation)
	}

	var verdict rawVerdict
	if err := json.Unmarshal([]byte(payload), &verdict); err != nil {
		return domain.ComplianceResult{}, fmt.Errorf("%w: compliance %s: %v", domain.ErrExtraction, regulation, err)
	}

	return domain.ComplianceResult{
		Compliant:           coerceBool(verdict.Compliant),
		RequirementsMet:     emptyIfNil(verdict.RequirementsMet),
		RequirementsMissing: emptyIfNil(verdict.RequirementsMissing),
		RiskLevel:           domain.ValidateRiskLevel(verdict.RiskLevel),
		Findings:            emptyIfNil(verdict.Findings),
		Recommendations:     emptyIfNil(verdict.Recommendations),
	}, nil
}

// coerceBool tolerates the boolean-ish values models emit.
func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	case float64:
		return t != 0
	default:
		return false
	}
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

var testClause = domain.Clause{
	ID:              "clause-1",
	Text:            "Personal data shall be processed lawfully.",
	PrimaryCategory: domain.CategoryDataPrivacy,
	Obligations:     []string{"process lawfully"},
	RiskScore:       domain.DefaultRiskScore,
}

const goodVerdict = `{
	"compliant": true,
	"requirements_met": ["lawful basis stated"],
	"requirements_missing": [],
	"risk_level": "low",
	"findings": ["clause names a lawful basis"],
	"recommendations": ["document the basis in the register"]
}`

func TestEvaluateSuccess(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		assert.Contains(t, prompt, "gdpr")
		assert.Contains(t, prompt, testClause.Text)
		return goodVerdict, nil
	})
	ev := NewComplianceEvaluator(gen, zap.NewNop())

	res := ev.Evaluate(context.Background(), testClause, domain.RegGDPR)
	assert.True(t, res.Evaluated)
	assert.True(t, res.Compliant)
	assert.Equal(t, domain.RiskLow, res.RiskLevel)
	assert.Equal(t, []string{"lawful basis stated"}, res.RequirementsMet)
	assert.Equal(t, []string{}, res.RequirementsMissing)
}

func TestEvaluateMalformedJSONYieldsDefault(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"truncated", `{"compliant": true, "risk_le`},
		{"prose only", "the clause looks fine to me"},
		{"wrong types", `{"compliant": true, "findings": "should be a list"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := generatorFunc(func(ctx context.Context, prompt string) (string, error) {
				return tt.response, nil
			})
			ev := NewComplianceEvaluator(gen, zap.NewNop())

			res := ev.Evaluate(context.Background(), testClause, domain.RegHIPAA)
			assert.False(t, res.Evaluated)
			assert.Equal(t, domain.DefaultComplianceResult(), res.ComplianceResult)
		})
	}
}

func TestEvaluateDefaultFieldValues(t *testing.T) {
	def := domain.DefaultComplianceResult()
	assert.False(t, def.Compliant)
	assert.Equal(t, []string{"Analysis failed"}, def.RequirementsMissing)
	assert.Equal(t, domain.RiskHigh, def.RiskLevel)
	assert.Equal(t, []string{"Unable to analyze clause"}, def.Findings)
	assert.Equal(t, []string{"Perform manual review"}, def.Recommendations)
}

func TestEvaluateCoercions(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		wantCompliant bool
		wantRisk      domain.RiskLevel
	}{
		{"string true", `{"compliant": "true", "risk_level": "medium"}`, true, domain.RiskMedium},
		{"string false", `{"compliant": "false", "risk_level": "low"}`, false, domain.RiskLow},
		{"number", `{"compliant": 1, "risk_level": "LOW"}`, true, domain.RiskLow},
		{"absent compliant", `{"risk_level": "medium"}`, false, domain.RiskMedium},
		{"invalid risk falls back to high", `{"compliant": true, "risk_level": "catastrophic"}`, true, domain.RiskHigh},
		{"absent risk falls back to high", `{"compliant": true}`, true, domain.RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := generatorFunc(func(ctx context.Context, prompt string) (string, error) {
				return tt.response, nil
			})
			ev := NewComplianceEvaluator(gen, zap.NewNop())

			res := ev.Evaluate(context.Background(), testClause, domain.RegCCPA)
			require.True(t, res.Evaluated)
			assert.Equal(t, tt.wantCompliant, res.Compliant)
			assert.Equal(t, tt.wantRisk, res.RiskLevel)
			// missing list keys default to empty sequences, not nil
			assert.NotNil(t, res.Findings)
			assert.NotNil(t, res.Recommendations)
		})
	}
}

func TestEvaluateAllIsolation(t *testing.T) {
	// transport failure for gdpr must not disturb hipaa or ccpa
	gen := generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "gdpr") {
			return "", errors.New("transport exploded")
		}
		return goodVerdict, nil
	})
	ev := NewComplianceEvaluator(gen, zap.NewNop())

	regs := []domain.Regulation{domain.RegGDPR, domain.RegHIPAA, domain.RegCCPA}
	out := ev.EvaluateAll(context.Background(), testClause, regs)
	require.Len(t, out, 3)

	assert.False(t, out[domain.RegGDPR].Evaluated)
	assert.Equal(t, domain.DefaultComplianceResult(), out[domain.RegGDPR].ComplianceResult)

	for _, reg := range []domain.Regulation{domain.RegHIPAA, domain.RegCCPA} {
		assert.True(t, out[reg].Evaluated, "regulation %s", reg)
		assert.True(t, out[reg].Compliant)
		assert.Equal(t, domain.RiskLow, out[reg].RiskLevel)
	}
}

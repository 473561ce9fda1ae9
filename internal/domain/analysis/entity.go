package analysis

import (
	"time"
)

// ClauseID tipe untuk Clause
type ClauseID string

// DefaultRiskScore is a placeholder; clause-level scoring is not derived
// from compliance results in this pipeline version.
const DefaultRiskScore = 5.0

// Clause is a single extracted contractual provision. Created once by the
// clause extractor and immutable afterwards.
type Clause struct {
	ID                  ClauseID   `json:"id"`
	Text                string     `json:"text"`
	PrimaryCategory     Category   `json:"primary_category"`
	SecondaryCategories []Category `json:"secondary_categories"`
	Obligations         []string   `json:"obligations"`
	Deadlines           []string   `json:"deadlines"`
	ComplianceRisks     []string   `json:"compliance_risks"`
	RiskScore           float64    `json:"risk_score"`
}

// ComplianceResult is the verdict for one (clause, regulation) pair.
type ComplianceResult struct {
	Compliant           bool      `json:"compliant"`
	RequirementsMet     []string  `json:"requirements_met"`
	RequirementsMissing []string  `json:"requirements_missing"`
	RiskLevel           RiskLevel `json:"risk_level"`
	Findings            []string  `json:"findings"`
	Recommendations     []string  `json:"recommendations"`
}

// Evaluation wraps a ComplianceResult with provenance: Evaluated is false
// when the model could not be consulted and the fail-safe default was
// substituted. Callers that only need the verdict use the embedded result.
type Evaluation struct {
	ComplianceResult
	Evaluated bool `json:"evaluated"`
}

// DefaultComplianceResult is the single canonical "could not evaluate"
// verdict used wherever a per-pair failure occurs.
func DefaultComplianceResult() ComplianceResult {
	return ComplianceResult{
		Compliant:           false,
		RequirementsMet:     []string{},
		RequirementsMissing: []string{"Analysis failed"},
		RiskLevel:           RiskHigh,
		Findings:            []string{"Unable to analyze clause"},
		Recommendations:     []string{"Perform manual review"},
	}
}

// FailedEvaluation returns the fail-safe default marked as not evaluated.
func FailedEvaluation() Evaluation {
	return Evaluation{ComplianceResult: DefaultComplianceResult(), Evaluated: false}
}

// ComplianceResults maps clause id -> regulation -> verdict.
type ComplianceResults map[ClauseID]map[Regulation]ComplianceResult

// AnalysisReport is the final output of one document analysis.
type AnalysisReport struct {
	FileName          string            `json:"file_name"`
	AnalysisTimestamp time.Time         `json:"analysis_timestamp"`
	Regulations       []Regulation      `json:"regulations"`
	Clauses           []Clause          `json:"clauses"`
	ComplianceResults ComplianceResults `json:"compliance_results"`
	Summary           Summary           `json:"summary"`
}

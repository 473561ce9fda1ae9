package analysis

import (
	"fmt"
	"strings"
)

// Regulation enum
type Regulation string

const (
	RegGDPR   Regulation = "gdpr"
	RegHIPAA  Regulation = "hipaa"
	RegCCPA   Regulation = "ccpa"
	RegSOX    Regulation = "sox"
	RegPCIDSS Regulation = "pci_dss"
	RegFERPA  Regulation = "ferpa"
)

// Category enum untuk clause classification
type Category string

const (
	CategoryDataPrivacy       Category = "data_privacy"
	CategorySecurity          Category = "security"
	CategoryLiability         Category = "liability"
	CategoryTermination       Category = "termination"
	CategoryPayment           Category = "payment"
	CategoryConfidentiality   Category = "confidentiality"
	CategoryIP                Category = "intellectual_property"
	CategoryCompliance        Category = "compliance"
	CategoryForceMajeure      Category = "force_majeure"
	CategoryDisputeResolution Category = "dispute_resolution"
	CategoryOther             Category = "other"
)

// RiskLevel enum
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

var regulations = map[Regulation]bool{
	RegGDPR:   true,
	RegHIPAA:  true,
	RegCCPA:   true,
	RegSOX:    true,
	RegPCIDSS: true,
	RegFERPA:  true,
}

var categories = map[Category]bool{
	CategoryDataPrivacy:       true,
	CategorySecurity:          true,
	CategoryLiability:         true,
	CategoryTermination:       true,
	CategoryPayment:           true,
	CategoryConfidentiality:   true,
	CategoryIP:                true,
	CategoryCompliance:        true,
	CategoryForceMajeure:      true,
	CategoryDisputeResolution: true,
}

var riskLevels = map[RiskLevel]bool{
	RiskHigh:   true,
	RiskMedium: true,
	RiskLow:    true,
}

// PromptCategories lists the closed category vocabulary the model may use,
// excluding the catch-all.
func PromptCategories() []Category {
	return []Category{
		CategoryDataPrivacy, CategorySecurity, CategoryLiability,
		CategoryTermination, CategoryPayment, CategoryConfidentiality,
		CategoryIP, CategoryCompliance, CategoryForceMajeure,
		CategoryDisputeResolution,
	}
}

// ParseRegulation validates a requested regulation identifier.
func ParseRegulation(s string) (Regulation, error) {
	reg := Regulation(strings.ToLower(strings.TrimSpace(s)))
	if !regulations[reg] {
		return "", fmt.Errorf("%w: unknown regulation %q", ErrValidation, s)
	}
	return reg, nil
}

// ParseRegulations validates a list of identifiers, rejecting empties and
// unknowns. Duplicates collapse, order of first appearance is kept.
func ParseRegulations(values []string) ([]Regulation, error) {
	seen := map[Regulation]bool{}
	out := make([]Regulation, 0, len(values))
	for _, v := range values {
		reg, err := ParseRegulation(v)
		if err != nil {
			return nil, err
		}
		if !seen[reg] {
			seen[reg] = true
			out = append(out, reg)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one regulation is required", ErrValidation)
	}
	return out, nil
}

// ValidateCategory normalizes case and spacing; anything outside the closed
// vocabulary collapses to the catch-all.
func ValidateCategory(raw string) Category {
	cleaned := strings.ToLower(Normalize(raw))
	cat := Category(strings.ReplaceAll(cleaned, " ", "_"))
	if categories[cat] {
		return cat
	}
	return CategoryOther
}

// ValidateRiskLevel treats unknown risk as worst case.
func ValidateRiskLevel(raw string) RiskLevel {
	level := RiskLevel(strings.ToLower(strings.TrimSpace(raw)))
	if riskLevels[level] {
		return level
	}
	return RiskHigh
}

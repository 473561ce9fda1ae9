package analysis

import (
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

// clausesKey is the wrapper key the extraction prompt demands and the JSON
// recovery uses for the bare-array fallback.
const clausesKey = "clauses"

const extractionPromptHeader = `Analyze the contract below and extract its clauses.

Output Format:
{
    "clauses": [
        {
            "text": "The actual clause text",
            "primary_category": "choose from categories below",
            "secondary_categories": ["array", "of", "categories"],
            "obligations": ["list", "of", "obligations"],
            "deadlines": ["list", "of", "deadlines"],
            "compliance_risks": ["list", "of", "risks"]
        }
    ]
}

Categories: %s

Contract:
%s`

// extractionPrompt embeds the full normalized contract text plus the closed
// category vocabulary.
func extractionPrompt(contractText string) string {
	names := make([]string, 0, len(domain.PromptCategories()))
	for _, c := range domain.PromptCategories() {
		names = append(names, string(c))
	}
	return fmt.Sprintf(extractionPromptHeader, strings.Join(names, ", "), contractText)
}

const compliancePromptTemplate = `You are a compliance expert. Analyze the following clause for %[1]s compliance.

Clause Details:
Primary Category: %[2]s
Secondary Categories: %[3]s
Obligations:
%[4]s
Deadlines:
%[5]s
Identified Compliance Risks:
%[6]s

Complete Clause Text:
%[7]s

Analyze considering:
1. The appropriateness of the categorization
2. The completeness of obligations
3. The accuracy of identified risks
4. Specific %[1]s requirements
5. Deadlines and timing requirements

Provide your analysis in this exact JSON format:
{
    "compliant": false,
    "requirements_met": [
        "List specific requirements that are met"
    ],
    "requirements_missing": [
        "List specific missing requirements"
    ],
    "risk_level": "high/medium/low",
    "findings": [
        "List detailed findings considering all provided context"
    ],
    "recommendations": [
        "List specific, actionable recommendations"
    ]
}

Return ONLY the JSON object. Use only "high", "medium", or "low" for risk_level.`

// compliancePrompt embeds the regulation name and everything known about
// the clause.
func compliancePrompt(clause domain.Clause, regulation domain.Regulation) string {
	secondaries := make([]string, 0, len(clause.SecondaryCategories))
	for _, c := range clause.SecondaryCategories {
		secondaries = append(secondaries, string(c))
	}
	return fmt.Sprintf(compliancePromptTemplate,
		regulation,
		clause.PrimaryCategory,
		strings.Join(secondaries, ", "),
		bulleted(clause.Obligations),
		bulleted(clause.Deadlines),
		bulleted(clause.ComplianceRisks),
		clause.Text,
	)
}

func bulleted(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

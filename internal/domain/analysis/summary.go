package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const topItemLimit = 5

// OverallCompliance counts (clause, regulation) pairs.
type OverallCompliance struct {
	CompliantPairs       int     `json:"compliant_pairs"`
	NonCompliantPairs    int     `json:"non_compliant_pairs"`
	CompliancePercentage float64 `json:"compliance_percentage"`
}

// CategoryCount pairs a category with its frequency.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// CategoryAnalysis distributes clauses over primary categories.
type CategoryAnalysis struct {
	Distribution    map[Category]int `json:"distribution"`
	PrimaryConcerns []CategoryCount  `json:"primary_concerns"`
}

// Summary is the aggregate view over one document's results.
type Summary struct {
	TotalClauses        int               `json:"total_clauses"`
	AnalyzedRegulations []Regulation      `json:"analyzed_regulations"`
	Timestamp           time.Time         `json:"timestamp"`
	OverallCompliance   OverallCompliance `json:"overall_compliance"`
	RiskDistribution    map[RiskLevel]int `json:"risk_distribution"`
	CategoryAnalysis    CategoryAnalysis  `json:"category_analysis"`
	CriticalFindings    []string          `json:"critical_findings"`
	KeyActionsRequired  []string          `json:"key_actions_required"`
	Error               string            `json:"error,omitempty"`
}

// Summarize is a pure function over already-computed results; it makes no
// model calls. A panic (defensive, should not occur) degrades to a partial
// summary carrying only counts and an error marker instead of propagating.
func Summarize(clauses []Clause, results ComplianceResults, regulations []Regulation, now time.Time) (s Summary) {
	defer func() {
		if r := recover(); r != nil {
			s = Summary{
				TotalClauses:        len(clauses),
				AnalyzedRegulations: regulations,
				Timestamp:           now,
				Error:               fmt.Sprintf("%v: %v", ErrAggregation, r),
			}
		}
	}()

	return Summary{
		TotalClauses:        len(clauses),
		AnalyzedRegulations: regulations,
		Timestamp:           now,
		OverallCompliance:   overallCompliance(results),
		RiskDistribution:    riskDistribution(results),
		CategoryAnalysis:    analyzeCategories(clauses),
		CriticalFindings:    collectHighRisk(results, func(r ComplianceResult) []string { return r.Findings }),
		KeyActionsRequired:  collectHighRisk(results, func(r ComplianceResult) []string { return r.Recommendations }),
	}
}

func overallCompliance(results ComplianceResults) OverallCompliance {
	total, compliant := 0, 0
	for _, regResults := range results {
		for _, res := range regResults {
			total++
			if res.Compliant {
				compliant++
			}
		}
	}
	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(compliant)/float64(total)*100*100) / 100
	}
	return OverallCompliance{
		CompliantPairs:       compliant,
		NonCompliantPairs:    total - compliant,
		CompliancePercentage: pct,
	}
}

func riskDistribution(results ComplianceResults) map[RiskLevel]int {
	counts := map[RiskLevel]int{RiskHigh: 0, RiskMedium: 0, RiskLow: 0}
	for _, regResults := range results {
		for _, res := range regResults {
			counts[ValidateRiskLevel(string(res.RiskLevel))]++
		}
	}
	return counts
}

func analyzeCategories(clauses []Clause) CategoryAnalysis {
	distribution := map[Category]int{}
	var order []CategoryCount
	for _, c := range clauses {
		if _, seen := distribution[c.PrimaryCategory]; !seen {
			order = append(order, CategoryCount{Category: c.PrimaryCategory})
		}
		distribution[c.PrimaryCategory]++
	}
	for i := range order {
		order[i].Count = distribution[order[i].Category]
	}
	// stable sort keeps first-encountered order among ties
	sort.SliceStable(order, func(i, j int) bool { return order[i].Count > order[j].Count })
	if len(order) > 3 {
		order = order[:3]
	}
	return CategoryAnalysis{Distribution: distribution, PrimaryConcerns: order}
}

// collectHighRisk gathers text from high-risk pairs, deduplicated and
// truncated. Findings and recommendations are computed independently even
// when their content overlaps.
func collectHighRisk(results ComplianceResults, pick func(ComplianceResult) []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, regResults := range results {
		for _, res := range regResults {
			if res.RiskLevel != RiskHigh {
				continue
			}
			for _, item := range pick(res) {
				if !seen[item] {
					seen[item] = true
					out = append(out, item)
				}
			}
		}
	}
	if len(out) > topItemLimit {
		out = out[:topItemLimit]
	}
	return out
}

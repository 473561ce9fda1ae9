package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

type stubParser struct {
	texts map[string]string
}

func (p *stubParser) Parse(path string) (string, error) {
	text, ok := p.texts[path]
	if !ok {
		return "", fmt.Errorf("%w: unreadable document %s", domain.ErrParsing, path)
	}
	return text, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// pipelineGenerator answers extraction prompts with two clauses and
// compliance prompts with a verdict; gdpr calls fail at the transport.
type pipelineGenerator struct {
	mu              sync.Mutex
	complianceCalls int
}

func (g *pipelineGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "extract its clauses") {
		return `{"clauses": [
			{"text": "Either party may terminate with notice.", "primary_category": "termination"},
			{"text": "Data is processed in the EU.", "primary_category": "data_privacy"}
		]}`, nil
	}
	g.mu.Lock()
	g.complianceCalls++
	g.mu.Unlock()
	if strings.Contains(prompt, "gdpr") {
		return "", errors.New("transport exploded")
	}
	return `{"compliant": true, "risk_level": "low"}`, nil
}

func newTestService(gen domain.Generator, parser *stubParser, now time.Time) *Service {
	log := zap.NewNop()
	return &Service{
		Parser:      parser,
		Extractor:   NewClauseExtractor(gen, newMapCache(), log),
		Evaluator:   NewComplianceEvaluator(gen, log),
		Clock:       fixedClock{t: now},
		Log:         log,
		Concurrency: 2,
	}
}

func TestAnalyzeAssemblesReport(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	gen := &pipelineGenerator{}
	parser := &stubParser{texts: map[string]string{"/tmp/contract.txt": "full contract text"}}
	svc := newTestService(gen, parser, now)

	regs := []domain.Regulation{domain.RegGDPR, domain.RegHIPAA}
	report, err := svc.Analyze(context.Background(), "/tmp/contract.txt", "contract.txt", regs)
	require.NoError(t, err)

	assert.Equal(t, "contract.txt", report.FileName)
	assert.Equal(t, now, report.AnalysisTimestamp)
	assert.Equal(t, regs, report.Regulations)
	require.Len(t, report.Clauses, 2)
	assert.Equal(t, 4, gen.complianceCalls)

	// invariant: every clause has an entry for every requested regulation,
	// and every id in the results appears in the clause list
	require.Len(t, report.ComplianceResults, 2)
	ids := map[domain.ClauseID]bool{}
	for _, c := range report.Clauses {
		ids[c.ID] = true
	}
	for id, regResults := range report.ComplianceResults {
		assert.True(t, ids[id], "result for unknown clause %s", id)
		require.Len(t, regResults, len(regs))
		// gdpr failed at the transport and fell back to the default
		assert.Equal(t, domain.DefaultComplianceResult(), regResults[domain.RegGDPR])
		assert.True(t, regResults[domain.RegHIPAA].Compliant)
	}

	// summary reflects 2 compliant pairs out of 4
	assert.Equal(t, 2, report.Summary.OverallCompliance.CompliantPairs)
	assert.Equal(t, 50.0, report.Summary.OverallCompliance.CompliancePercentage)
	assert.Equal(t, 2, report.Summary.RiskDistribution[domain.RiskHigh])
	assert.Equal(t, 2, report.Summary.RiskDistribution[domain.RiskLow])
	assert.Equal(t, now, report.Summary.Timestamp)
}

func TestAnalyzeParseFailureAborts(t *testing.T) {
	gen := &pipelineGenerator{}
	svc := newTestService(gen, &stubParser{texts: map[string]string{}}, time.Now())

	_, err := svc.Analyze(context.Background(), "/tmp/missing.pdf", "missing.pdf", []domain.Regulation{domain.RegGDPR})
	require.ErrorIs(t, err, domain.ErrParsing)
	assert.Zero(t, gen.complianceCalls)
}

func TestAnalyzeExtractionFailureAborts(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "no json here", nil
	})
	parser := &stubParser{texts: map[string]string{"/tmp/a.txt": "contract"}}
	svc := newTestService(gen, parser, time.Now())

	_, err := svc.Analyze(context.Background(), "/tmp/a.txt", "a.txt", []domain.Regulation{domain.RegGDPR})
	require.ErrorIs(t, err, domain.ErrExtraction)
}

func TestAnalyzeBatchIsolatesDocumentFailures(t *testing.T) {
	gen := &pipelineGenerator{}
	parser := &stubParser{texts: map[string]string{"/tmp/good.txt": "contract text"}}
	svc := newTestService(gen, parser, time.Now())

	items := svc.AnalyzeBatch(context.Background(), []BatchDocument{
		{Path: "/tmp/bad.txt", Name: "bad.txt"},
		{Path: "/tmp/good.txt", Name: "good.txt"},
	}, []domain.Regulation{domain.RegHIPAA})

	require.Len(t, items, 2)
	assert.Equal(t, "bad.txt", items[0].FileName)
	assert.Nil(t, items[0].Report)
	assert.NotEmpty(t, items[0].Error)

	assert.Equal(t, "good.txt", items[1].FileName)
	assert.Empty(t, items[1].Error)
	require.NotNil(t, items[1].Report)
	assert.Len(t, items[1].Report.Clauses, 2)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	gen := &pipelineGenerator{}
	parser := &stubParser{texts: map[string]string{"/tmp/c.txt": "contract"}}
	svc := newTestService(gen, parser, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, "/tmp/c.txt", "c.txt", []domain.Regulation{domain.RegHIPAA})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

package analysis

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/contract-compliance/internal/application"
	domain "github.com/bryanwahyu/contract-compliance/internal/domain/analysis"
)

const defaultConcurrency = 4

// Service implements the analysis pipeline use-cases: parse document ->
// extract clauses -> evaluate clause x regulation pairs -> aggregate.
// Safe for concurrent use.
type Service struct {
	Parser      domain.DocumentParser
	Extractor   *ClauseExtractor
	Evaluator   *ComplianceEvaluator
	Clock       application.Clock
	Log         *zap.Logger
	Concurrency int // max in-flight compliance model calls, 0 = default
}

// Analyze runs the full pipeline for one document. Parse and clause
// extraction failures abort the analysis; per-pair evaluation failures are
// absorbed into fail-safe defaults and never do.
func (s *Service) Analyze(ctx context.Context, filePath, fileName string, regulations []domain.Regulation) (*domain.AnalysisReport, error) {
	s.Log.Info("starting analysis", zap.String("file", fileName), zap.Int("regulations", len(regulations)))

	text, err := s.Parser.Parse(filePath)
	if err != nil {
		return nil, err
	}

	clauses, err := s.Extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	results, err := s.evaluatePairs(ctx, clauses, regulations)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	report := &domain.AnalysisReport{
		FileName:          fileName,
		AnalysisTimestamp: now,
		Regulations:       regulations,
		Clauses:           clauses,
		ComplianceResults: results,
		Summary:           domain.Summarize(clauses, results, regulations, now),
	}
	s.Log.Info("analysis complete",
		zap.String("file", fileName),
		zap.Int("clauses", len(clauses)),
		zap.Float64("compliance_pct", report.Summary.OverallCompliance.CompliancePercentage))
	return report, nil
}

// evaluatePairs fans the clause x regulation cross-product out over a
// bounded worker group. Results are keyed by (clause id, regulation), so
// completion order does not matter. A cancelled context stops scheduling
// new pairs; it is the only way this returns an error.
func (s *Service) evaluatePairs(ctx context.Context, clauses []domain.Clause, regulations []domain.Regulation) (domain.ComplianceResults, error) {
	results := make(domain.ComplianceResults, len(clauses))
	for _, c := range clauses {
		results[c.ID] = make(map[domain.Regulation]domain.ComplianceResult, len(regulations))
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, clause := range clauses {
		for _, regulation := range regulations {
			clause, regulation := clause, regulation
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				ev := s.Evaluator.Evaluate(gctx, clause, regulation)
				mu.Lock()
				results[clause.ID][regulation] = ev.ComplianceResult
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BatchDocument is one input to AnalyzeBatch.
type BatchDocument struct {
	Path string
	Name string
}

// BatchItem is the per-document outcome of a batch run: either a report or
// the error that stopped that document's pipeline.
type BatchItem struct {
	FileName string                 `json:"file_name"`
	Report   *domain.AnalysisReport `json:"report,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// AnalyzeBatch analyzes each document in turn. One document's total failure
// does not prevent the others from completing.
func (s *Service) AnalyzeBatch(ctx context.Context, docs []BatchDocument, regulations []domain.Regulation) []BatchItem {
	items := make([]BatchItem, 0, len(docs))
	for _, doc := range docs {
		report, err := s.Analyze(ctx, doc.Path, doc.Name, regulations)
		if err != nil {
			s.Log.Error("document analysis failed", zap.String("file", doc.Name), zap.Error(err))
			items = append(items, BatchItem{FileName: doc.Name, Error: err.Error()})
			continue
		}
		items = append(items, BatchItem{FileName: doc.Name, Report: report})
	}
	return items
}

package evaluation

import (
	"context"

	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"github.com/CSharon27/Resume-Evalution-System/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchEvaluate evaluates every resume against job and returns the results
// in input order. A failing resume yields its fallback result and never
// aborts the batch. With Concurrency > 1 resumes are evaluated in parallel.
func (e *Evaluator) BatchEvaluate(ctx context.Context, resumes []*records.ResumeRecord, job *records.JobRecord) []*EvaluationResult {
	results := make([]*EvaluationResult, len(resumes))

	if e.cfg.Concurrency <= 1 {
		for i, resume := range resumes {
			results[i] = e.Evaluate(ctx, resume, job)
		}
		e.logBatch(results)
		return results
	}

	var g errgroup.Group
	g.SetLimit(e.cfg.Concurrency)
	for i, resume := range resumes {
		g.Go(func() error {
			results[i] = e.Evaluate(ctx, resume, job)
			return nil
		})
	}
	// Evaluate never returns an error, so neither does the group.
	_ = g.Wait()

	e.logBatch(results)
	return results
}

func (e *Evaluator) logBatch(results []*EvaluationResult) {
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	e.logger.Info("batch evaluation completed",
		zap.Int("resumes", len(results)),
		zap.Int("failed", failed),
		zap.Int("concurrency", e.cfg.Concurrency),
	)
}

// Summarize aggregates results. An empty input yields a zeroed summary.
func Summarize(results []*EvaluationResult) SummaryStats {
	summary := SummaryStats{VerdictCounts: make(map[Verdict]int, len(Verdicts))}
	for _, v := range Verdicts {
		summary.VerdictCounts[v] = 0
	}

	var total float64
	for _, r := range results {
		if r == nil {
			continue
		}
		if summary.Count == 0 || r.RelevanceScore > summary.MaxScore {
			summary.MaxScore = r.RelevanceScore
		}
		if summary.Count == 0 || r.RelevanceScore < summary.MinScore {
			summary.MinScore = r.RelevanceScore
		}
		total += r.RelevanceScore
		summary.Count++

		if _, ok := summary.VerdictCounts[r.Verdict]; ok {
			summary.VerdictCounts[r.Verdict]++
		}
	}

	if summary.Count > 0 {
		summary.AverageScore = utils.Round(total/float64(summary.Count), 2)
	}
	return summary
}

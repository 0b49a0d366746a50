package filtering

import (
	"sort"
	"strconv"

	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
)

// RankedResult is an evaluation result with its 1-based position.
type RankedResult struct {
	Position int
	*evaluation.EvaluationResult
}

// Rank orders results by relevance score, best first. Ties are broken by
// resume id so the order is deterministic. The input is not modified.
func Rank(results *evaluation.Results) []RankedResult {
	if results == nil {
		return nil
	}

	items := make([]*evaluation.EvaluationResult, 0, results.Len())
	for _, item := range results.Items {
		if item != nil {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].RelevanceScore != items[j].RelevanceScore {
			return items[i].RelevanceScore > items[j].RelevanceScore
		}
		return items[i].ResumeID < items[j].ResumeID
	})

	ranked := make([]RankedResult, 0, len(items))
	for i, item := range items {
		ranked = append(ranked, RankedResult{Position: i + 1, EvaluationResult: item})
	}
	return ranked
}

// ReportByVerdict groups ranked results by verdict, keeping rank order.
func ReportByVerdict(ranked []RankedResult) map[evaluation.Verdict][]map[string]string {
	report := make(map[evaluation.Verdict][]map[string]string)
	for _, r := range ranked {
		name := r.Name
		if name == "" {
			name = r.ResumeID
		}
		report[r.Verdict] = append(report[r.Verdict], map[string]string{
			"rank":           strconv.Itoa(r.Position),
			"resume":         name,
			"relevance":      strconv.FormatFloat(r.RelevanceScore, 'f', 2, 64),
			"hard match":     strconv.FormatFloat(r.HardMatchScore, 'f', 2, 64),
			"semantic match": strconv.FormatFloat(r.SemanticMatchScore, 'f', 2, 64),
		})
	}
	return report
}

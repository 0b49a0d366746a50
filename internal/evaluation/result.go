package evaluation

import (
	"strings"
	"time"

	"github.com/CSharon27/Resume-Evalution-System/internal/matching"
	"github.com/CSharon27/Resume-Evalution-System/internal/semantic"
)

type Verdict string

const (
	VerdictHigh   Verdict = "High"
	VerdictMedium Verdict = "Medium"
	VerdictLow    Verdict = "Low"
)

// Verdicts lists the verdicts from best to worst.
var Verdicts = []Verdict{VerdictHigh, VerdictMedium, VerdictLow}

// ParseVerdict matches a verdict name case-insensitively.
func ParseVerdict(s string) (Verdict, bool) {
	for _, v := range Verdicts {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, true
		}
	}
	return "", false
}

// Rank orders verdicts; a higher value is a better verdict.
func (v Verdict) Rank() int {
	switch v {
	case VerdictHigh:
		return 2
	case VerdictMedium:
		return 1
	default:
		return 0
	}
}

// EvaluationResult is the outcome of evaluating one resume against one job.
type EvaluationResult struct {
	ID       string `json:"id"`
	ResumeID string `json:"resume_id"`
	JobID    string `json:"job_id"`
	Name     string `json:"name,omitempty"`

	RelevanceScore     float64 `json:"relevance_score"`
	HardMatchScore     float64 `json:"hard_match_score"`
	SemanticMatchScore float64 `json:"semantic_match_score"`
	Verdict            Verdict `json:"verdict"`

	MatchedSkills          []string `json:"matched_skills"`
	MissingSkills          []string `json:"missing_skills"`
	MissingQualifications  []string `json:"missing_qualifications"`
	MissingProjects        []string `json:"missing_projects"`
	MissingCertifications  []string `json:"missing_certifications"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	ImprovementSuggestions string   `json:"improvement_suggestions"`
	OverallFeedback        string   `json:"overall_feedback"`

	EvaluationTimeSeconds float64   `json:"evaluation_time_seconds"`
	EvaluatedAt           time.Time `json:"evaluated_at"`
	Error                 string    `json:"error,omitempty"`

	HardMatchDetails     *matching.HardMatchResult     `json:"hard_match_details,omitempty"`
	SemanticMatchDetails *semantic.SemanticMatchResult `json:"semantic_match_details,omitempty"`
}

// Failed reports whether the result came from the error fallback.
func (r *EvaluationResult) Failed() bool {
	return r.Error != ""
}

// Results is an ordered collection of evaluation results.
type Results struct {
	Items []*EvaluationResult `json:"items"`
}

func (r *Results) Len() int {
	return len(r.Items)
}

func (r *Results) ResumeIDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		ids = append(ids, item.ResumeID)
	}
	return ids
}

func (r *Results) FindByResumeID(id string) *EvaluationResult {
	for _, item := range r.Items {
		if item.ResumeID == id {
			return item
		}
	}
	return nil
}

// Exclude removes results whose resume id is in ids, preserving order, and
// returns the removed ids.
func (r *Results) Exclude(ids []string) []string {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return r.Keep(func(item *EvaluationResult) bool {
		_, found := drop[item.ResumeID]
		return !found
	})
}

// Keep retains results for which keep returns true and returns the resume
// ids of the dropped ones.
func (r *Results) Keep(keep func(*EvaluationResult) bool) []string {
	var removed []string
	kept := r.Items[:0]
	for _, item := range r.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		removed = append(removed, item.ResumeID)
	}
	r.Items = kept
	return removed
}

// SummaryStats aggregates a batch of results.
type SummaryStats struct {
	Count         int             `json:"count"`
	AverageScore  float64         `json:"average_score"`
	MaxScore      float64         `json:"max_score"`
	MinScore      float64         `json:"min_score"`
	VerdictCounts map[Verdict]int `json:"verdict_counts"`
}

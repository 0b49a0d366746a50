package ai

import (
	"context"

	"github.com/CSharon27/Resume-Evalution-System/internal/matching"
	"github.com/CSharon27/Resume-Evalution-System/internal/records"
)

// Feedback is the qualitative part of an evaluation.
type Feedback struct {
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	ImprovementSuggestions string   `json:"improvement_suggestions"`
	OverallFeedback        string   `json:"overall_feedback"`
	Raw                    string   `json:"-"`
}

// Empty reports whether the feedback carries no usable text.
func (f *Feedback) Empty() bool {
	return f == nil || (len(f.Strengths) == 0 && len(f.Weaknesses) == 0 &&
		f.ImprovementSuggestions == "" && f.OverallFeedback == "")
}

// FeedbackProvider generates free-text feedback for a resume/job pair.
type FeedbackProvider interface {
	Generate(ctx context.Context, resume *records.ResumeRecord, job *records.JobRecord, hard *matching.HardMatchResult) (*Feedback, error)
}

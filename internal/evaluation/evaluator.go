package evaluation

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/CSharon27/Resume-Evalution-System/internal/ai"
	"github.com/CSharon27/Resume-Evalution-System/internal/logger"
	"github.com/CSharon27/Resume-Evalution-System/internal/matching"
	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"github.com/CSharon27/Resume-Evalution-System/internal/semantic"
	"github.com/CSharon27/Resume-Evalution-System/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type hardMatcher interface {
	ComputeHardMatch(resume *records.ResumeRecord, job *records.JobRecord) (*matching.HardMatchResult, error)
}

type semanticScorer interface {
	ComputeSemanticMatch(ctx context.Context, resume *records.ResumeRecord, job *records.JobRecord) *semantic.SemanticMatchResult
}

type feedbackSynthesizer interface {
	Synthesize(ctx context.Context, resume *records.ResumeRecord, job *records.JobRecord, hard *matching.HardMatchResult) ai.Feedback
}

// Deps are the collaborators of an Evaluator.
type Deps struct {
	Hard     hardMatcher
	Semantic semanticScorer
	Feedback feedbackSynthesizer
	Logger   *zap.Logger
}

// Evaluator combines hard and semantic matching into a verdict. It holds no
// mutable state and is safe for concurrent use.
type Evaluator struct {
	cfg      Config
	hard     hardMatcher
	semantic semanticScorer
	feedback feedbackSynthesizer
	logger   *zap.Logger
	now      func() time.Time
}

func New(cfg Config, deps Deps) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Hard == nil {
		return nil, errors.New("hard matcher is required")
	}
	if deps.Semantic == nil {
		return nil, errors.New("semantic scorer is required")
	}
	if deps.Feedback == nil {
		return nil, errors.New("feedback synthesizer is required")
	}

	return &Evaluator{
		cfg:      cfg,
		hard:     deps.Hard,
		semantic: deps.Semantic,
		feedback: deps.Feedback,
		logger:   logger.OrNop(deps.Logger),
		now:      time.Now,
	}, nil
}

func (e *Evaluator) Config() Config {
	return e.cfg
}

// FinalScore weights the two sub-scores.
func (e *Evaluator) FinalScore(hard, semantic float64) float64 {
	return utils.Clamp(hard*e.cfg.HardMatchWeight+semantic*e.cfg.SemanticMatchWeight, 0, 100)
}

func (e *Evaluator) Verdict(score float64) Verdict {
	switch {
	case score >= e.cfg.HighSuitabilityThreshold:
		return VerdictHigh
	case score >= e.cfg.MediumSuitabilityThreshold:
		return VerdictMedium
	default:
		return VerdictLow
	}
}

// Evaluate scores one resume against one job. It never fails: any error or
// panic yields a zeroed Low result carrying the error text.
func (e *Evaluator) Evaluate(ctx context.Context, resume *records.ResumeRecord, job *records.JobRecord) (result *EvaluationResult) {
	start := e.now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("evaluation panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			result = e.failed(resume, job, fmt.Errorf("panic: %v", r), start)
		}
	}()

	result, err := e.evaluate(ctx, resume, job, start)
	if err != nil {
		return e.failed(resume, job, err, start)
	}
	return result
}

func (e *Evaluator) evaluate(ctx context.Context, resume *records.ResumeRecord, job *records.JobRecord, start time.Time) (*EvaluationResult, error) {
	if resume == nil {
		return nil, errors.New("resume is required")
	}
	if job == nil {
		return nil, errors.New("job is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hard, err := e.hard.ComputeHardMatch(resume, job)
	if err != nil {
		return nil, fmt.Errorf("hard match: %w", err)
	}

	sem := e.semantic.ComputeSemanticMatch(ctx, resume, job)
	if sem == nil {
		return nil, errors.New("semantic match returned no result")
	}

	raw := e.FinalScore(hard.HardMatchScore, sem.SemanticMatchScore)
	verdict := e.Verdict(raw)
	final := utils.Round(raw, 2)
	missing := MissingElements(hard)
	fb := e.feedback.Synthesize(ctx, resume, job, hard)

	matched := append([]string{}, hard.MustHaveSkills.Matched...)
	for _, p := range hard.MustHaveSkills.Partial {
		matched = append(matched, p.Required)
	}

	result := &EvaluationResult{
		ID:                     uuid.NewString(),
		ResumeID:               resume.ID,
		JobID:                  job.ID,
		Name:                   resume.Name,
		RelevanceScore:         final,
		HardMatchScore:         utils.Round(hard.HardMatchScore, 2),
		SemanticMatchScore:     utils.Round(sem.SemanticMatchScore, 2),
		Verdict:                verdict,
		MatchedSkills:          matched,
		MissingSkills:          missing.Skills,
		MissingQualifications:  missing.Qualifications,
		MissingProjects:        missing.Projects,
		MissingCertifications:  missing.Certifications,
		Strengths:              nonNil(fb.Strengths),
		Weaknesses:             nonNil(fb.Weaknesses),
		ImprovementSuggestions: fb.ImprovementSuggestions,
		OverallFeedback:        fb.OverallFeedback,
		HardMatchDetails:       hard,
		SemanticMatchDetails:   sem,
	}
	e.finish(result, start)

	e.logger.Debug("resume evaluated", append(logger.EvaluationFields(resume.ID, job.ID),
		zap.Float64("relevance_score", result.RelevanceScore),
		zap.String("verdict", string(result.Verdict)),
	)...)
	return result, nil
}

func (e *Evaluator) failed(resume *records.ResumeRecord, job *records.JobRecord, err error, start time.Time) *EvaluationResult {
	result := &EvaluationResult{
		ID:                    uuid.NewString(),
		Verdict:               VerdictLow,
		MatchedSkills:         []string{},
		MissingSkills:         []string{},
		MissingQualifications: []string{},
		MissingProjects:       []string{},
		MissingCertifications: []string{},
		Strengths:             []string{},
		Weaknesses:            []string{},
		OverallFeedback:       fmt.Sprintf("Error during evaluation: %v", err),
		Error:                 fmt.Sprintf("Evaluation failed: %v", err),
	}
	if resume != nil {
		result.ResumeID, result.Name = resume.ID, resume.Name
	}
	if job != nil {
		result.JobID = job.ID
	}
	e.finish(result, start)

	e.logger.Warn("evaluation failed", append(logger.EvaluationFields(result.ResumeID, result.JobID), zap.Error(err))...)
	return result
}

func (e *Evaluator) finish(result *EvaluationResult, start time.Time) {
	end := e.now()
	result.EvaluatedAt = end.UTC()
	result.EvaluationTimeSeconds = utils.Round(end.Sub(start).Seconds(), 4)
}

// Missing is the missing-element report of an evaluation.
type Missing struct {
	Skills         []string
	Qualifications []string
	Projects       []string
	Certifications []string
}

var technicalSkills = []string{
	"python", "java", "javascript", "react", "angular", "vue", "node.js",
	"django", "flask", "sql", "mongodb", "postgresql",
}

// MissingElements copies missing skills and qualifications and suggests a
// project and a certification for every missing technical skill. Missing
// skills with no technical match get two generic portfolio suggestions.
func MissingElements(hard *matching.HardMatchResult) Missing {
	missing := Missing{
		Skills:         []string{},
		Qualifications: []string{},
		Projects:       []string{},
		Certifications: []string{},
	}
	if hard == nil {
		return missing
	}

	missing.Skills = append(missing.Skills, hard.MissingSkills...)
	missing.Qualifications = append(missing.Qualifications, hard.MissingQualifications...)

	for _, skill := range missing.Skills {
		if !isTechnical(skill) {
			continue
		}
		missing.Projects = append(missing.Projects, "Build a project using "+skill)
		missing.Certifications = append(missing.Certifications, "Get certified in "+skill)
	}

	if len(missing.Projects) == 0 && len(missing.Skills) > 0 {
		missing.Projects = append(missing.Projects,
			"Build a portfolio project showcasing your skills",
			"Create a GitHub repository with sample code",
		)
	}
	return missing
}

func isTechnical(skill string) bool {
	lower := strings.ToLower(skill)
	for _, tech := range technicalSkills {
		if strings.Contains(lower, tech) {
			return true
		}
	}
	return false
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

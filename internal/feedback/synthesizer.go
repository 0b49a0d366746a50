package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CSharon27/Resume-Evalution-System/internal/ai"
	"github.com/CSharon27/Resume-Evalution-System/internal/logger"
	"github.com/CSharon27/Resume-Evalution-System/internal/matching"
	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

var (
	// ErrProviderTimeout is reported when the provider does not answer in time.
	ErrProviderTimeout = errors.New("feedback provider timed out")
	// ErrEmptyFeedback is reported when the provider answers with nothing usable.
	ErrEmptyFeedback = errors.New("feedback provider returned empty feedback")
)

// RuleBased is returned when no provider is configured or it is disabled.
func RuleBased() ai.Feedback {
	return ai.Feedback{
		Strengths:              []string{"Good technical skills", "Relevant experience", "Clear formatting"},
		Weaknesses:             []string{"Could benefit from more specific achievements", "Consider adding quantifiable results"},
		ImprovementSuggestions: "AI-powered feedback is not enabled. Configure an LLM feedback provider to receive tailored suggestions.",
		OverallFeedback:        "Resume evaluation completed using rule-based matching only. Enable an LLM feedback provider for a detailed analysis.",
	}
}

// Degraded is returned when the configured provider fails.
func Degraded(reason error) ai.Feedback {
	return ai.Feedback{
		Strengths:              []string{"Technical skills present", "Basic qualifications met"},
		Weaknesses:             []string{"Limited detailed analysis available"},
		ImprovementSuggestions: fmt.Sprintf("LLM analysis temporarily unavailable: %v", reason),
		OverallFeedback:        "Evaluation completed with basic matching. LLM analysis could not be performed.",
	}
}

// NullProvider always answers with the rule-based payload.
type NullProvider struct{}

func (NullProvider) Generate(context.Context, *records.ResumeRecord, *records.JobRecord, *matching.HardMatchResult) (*ai.Feedback, error) {
	fb := RuleBased()
	return &fb, nil
}

type Config struct {
	Enabled bool
	Timeout time.Duration
}

// Synthesizer produces qualitative feedback and never fails: provider errors,
// panics and timeouts turn into the degraded payload.
type Synthesizer struct {
	provider ai.FeedbackProvider
	enabled  bool
	timeout  time.Duration
	logger   *zap.Logger
}

func NewSynthesizer(provider ai.FeedbackProvider, cfg Config, l *zap.Logger) *Synthesizer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Synthesizer{
		provider: provider,
		enabled:  cfg.Enabled,
		timeout:  cfg.Timeout,
		logger:   logger.OrNop(l),
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, resume *records.ResumeRecord, job *records.JobRecord, hard *matching.HardMatchResult) ai.Feedback {
	if s == nil || s.provider == nil || !s.enabled {
		return RuleBased()
	}

	fb, err := s.call(ctx, resume, job, hard)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if resume != nil && job != nil {
			fields = append(fields, logger.EvaluationFields(resume.ID, job.ID)...)
		}
		s.logger.Warn("feedback provider failed, using degraded feedback", fields...)
		return Degraded(err)
	}
	return *fb
}

type providerResult struct {
	feedback *ai.Feedback
	err      error
}

func (s *Synthesizer) call(ctx context.Context, resume *records.ResumeRecord, job *records.JobRecord, hard *matching.HardMatchResult) (*ai.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan providerResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- providerResult{err: fmt.Errorf("feedback provider panicked: %v", r)}
			}
		}()
		fb, err := s.provider.Generate(ctx, resume, job, hard)
		done <- providerResult{feedback: fb, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, s.contextError(ctx.Err())
	case res := <-done:
		if errors.Is(res.err, context.DeadlineExceeded) {
			return nil, s.contextError(res.err)
		}
		if res.err != nil {
			return nil, res.err
		}
		if res.feedback.Empty() {
			return nil, ErrEmptyFeedback
		}
		return res.feedback, nil
	}
}

func (s *Synthesizer) contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrProviderTimeout, s.timeout)
	}
	return err
}

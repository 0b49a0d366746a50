package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
)

type minimumScoreFilter struct {
	disabled bool
	reason   string
	minimum  float64
}

// NewMinimumScore creates a filter that drops results below the configured relevance score.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumScore
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum score must be within [0, 100], got %.2f", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, r *evaluation.Results) (*evaluation.Results, Step, error) {
	initial := r.Len()
	if f.minimum == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	excluded := r.Keep(func(item *evaluation.EvaluationResult) bool {
		return item.RelevanceScore >= f.minimum
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding candidates below minimum score",
			zap.Float64("minimum_score", f.minimum),
			zap.Strings("excluded_resumes", excluded),
			zap.Int("resumes_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(excluded), Left: r.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": strconv.FormatFloat(f.minimum, 'f', 2, 64)},
	}
}

type verdictFilter struct {
	disabled bool
	reason   string
	verdicts []evaluation.Verdict
}

// NewVerdict creates a filter that keeps only results with the configured verdicts.
func NewVerdict() Filter {
	return &verdictFilter{}
}

func (f *verdictFilter) Name() string { return "verdict" }

func (f *verdictFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *verdictFilter) IsEnabled() bool { return !f.disabled }

func (f *verdictFilter) Validate(cfg *Config) error {
	f.verdicts = nil
	if cfg == nil {
		return nil
	}
	for _, name := range cfg.Verdicts {
		v, ok := evaluation.ParseVerdict(name)
		if !ok {
			return fmt.Errorf("unknown verdict %q", name)
		}
		f.verdicts = append(f.verdicts, v)
	}
	return nil
}

func (f *verdictFilter) Apply(_ context.Context, deps Deps, r *evaluation.Results) (*evaluation.Results, Step, error) {
	initial := r.Len()
	if len(f.verdicts) == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	excluded := r.Keep(func(item *evaluation.EvaluationResult) bool {
		for _, v := range f.verdicts {
			if item.Verdict == v {
				return true
			}
		}
		return false
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding candidates by verdict",
			zap.Strings("kept_verdicts", f.names()),
			zap.Strings("excluded_resumes", excluded),
			zap.Int("resumes_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(excluded), Left: r.Len()}, nil
}

func (f *verdictFilter) names() []string {
	names := make([]string, 0, len(f.verdicts))
	for _, v := range f.verdicts {
		names = append(names, string(v))
	}
	return names
}

func (f *verdictFilter) Status() Status {
	details := map[string]string{}
	if len(f.verdicts) > 0 {
		details["verdicts"] = strings.Join(f.names(), ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type excludeFileFilter struct {
	disabled bool
	reason   string
	path     string
}

// NewExcludeFile creates a filter that removes candidates listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, r *evaluation.Results) (*evaluation.Results, Step, error) {
	initial := r.Len()
	if f.path == "" {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	excluded, err := GetExcludedFromFile(f.path)
	if err != nil {
		return r, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := r.Keep(func(item *evaluation.EvaluationResult) bool {
		return !excluded.Excludes(item)
	})
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type evaluationErrorsFilter struct {
	disabled bool
	reason   string
	drop     bool
}

// NewEvaluationErrors creates a filter that removes results produced by the
// evaluation fallback when drop-failed is configured.
func NewEvaluationErrors() Filter {
	return &evaluationErrorsFilter{}
}

func (f *evaluationErrorsFilter) Name() string { return "evaluation_errors" }

func (f *evaluationErrorsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *evaluationErrorsFilter) IsEnabled() bool { return !f.disabled }

func (f *evaluationErrorsFilter) Validate(cfg *Config) error {
	f.drop = cfg != nil && cfg.DropFailed
	return nil
}

func (f *evaluationErrorsFilter) Apply(_ context.Context, deps Deps, r *evaluation.Results) (*evaluation.Results, Step, error) {
	initial := r.Len()
	if !f.drop {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	excluded := r.Keep(func(item *evaluation.EvaluationResult) bool {
		return !item.Failed()
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Warn("excluding candidates whose evaluation failed",
			zap.Strings("excluded_resumes", excluded),
			zap.Int("resumes_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(excluded), Left: r.Len()}, nil
}

func (f *evaluationErrorsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"drop_failed": strconv.FormatBool(f.drop)},
	}
}

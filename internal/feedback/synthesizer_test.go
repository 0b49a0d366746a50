package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/CSharon27/Resume-Evalution-System/internal/ai"
	"github.com/CSharon27/Resume-Evalution-System/internal/matching"
	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubProvider struct {
	feedback *ai.Feedback
	err      error
	delay    time.Duration
	panicMsg string
	calls    int
}

func (s *stubProvider) Generate(ctx context.Context, _ *records.ResumeRecord, _ *records.JobRecord, _ *matching.HardMatchResult) (*ai.Feedback, error) {
	s.calls++
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.feedback, s.err
}

var (
	resume = &records.ResumeRecord{ID: "r1"}
	job    = &records.JobRecord{ID: "j1"}
	hard   = &matching.HardMatchResult{}
)

func TestSynthesizeWithoutProvider(t *testing.T) {
	got := NewSynthesizer(nil, Config{Enabled: true}, nil).Synthesize(context.Background(), resume, job, hard)
	if got.OverallFeedback != RuleBased().OverallFeedback {
		t.Fatalf("expected rule-based feedback, got %+v", got)
	}
}

func TestSynthesizeDisabledSkipsProvider(t *testing.T) {
	stub := &stubProvider{feedback: &ai.Feedback{OverallFeedback: "llm"}}
	got := NewSynthesizer(stub, Config{Enabled: false}, nil).Synthesize(context.Background(), resume, job, hard)
	if stub.calls != 0 {
		t.Fatalf("expected provider not to be called")
	}
	if !strings.Contains(got.OverallFeedback, "rule-based") {
		t.Fatalf("unexpected feedback: %q", got.OverallFeedback)
	}
}

func TestSynthesizeReturnsProviderOutputUntouched(t *testing.T) {
	want := &ai.Feedback{
		Strengths:              []string{"Go"},
		Weaknesses:             []string{},
		ImprovementSuggestions: "learn k8s",
		OverallFeedback:        "good",
	}
	got := NewSynthesizer(&stubProvider{feedback: want}, Config{Enabled: true}, nil).Synthesize(context.Background(), resume, job, hard)
	if got.OverallFeedback != "good" || got.ImprovementSuggestions != "learn k8s" || len(got.Strengths) != 1 {
		t.Fatalf("unexpected feedback: %+v", got)
	}
}

func TestSynthesizeFallsBackOnFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		timeout  time.Duration
		reason   string
	}{
		{"error", &stubProvider{err: errors.New("quota exceeded")}, time.Second, "quota exceeded"},
		{"panic", &stubProvider{panicMsg: "nil map"}, time.Second, "panicked: nil map"},
		{"empty", &stubProvider{feedback: &ai.Feedback{}}, time.Second, ErrEmptyFeedback.Error()},
		{"nil", &stubProvider{}, time.Second, ErrEmptyFeedback.Error()},
		{"timeout", &stubProvider{delay: time.Second, feedback: &ai.Feedback{OverallFeedback: "late"}}, 10 * time.Millisecond, ErrProviderTimeout.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(zapcore.WarnLevel)
			s := NewSynthesizer(tt.provider, Config{Enabled: true, Timeout: tt.timeout}, zap.New(core))

			got := s.Synthesize(context.Background(), resume, job, hard)

			if !strings.Contains(got.ImprovementSuggestions, tt.reason) {
				t.Fatalf("expected reason %q in suggestions, got %q", tt.reason, got.ImprovementSuggestions)
			}
			if got.OverallFeedback != Degraded(nil).OverallFeedback {
				t.Fatalf("expected degraded overall feedback, got %q", got.OverallFeedback)
			}
			if observed.Len() != 1 {
				t.Fatalf("expected failure to be logged, got %d entries", observed.Len())
			}
		})
	}
}

func TestNullProvider(t *testing.T) {
	s := NewSynthesizer(NullProvider{}, Config{Enabled: true}, nil)
	got := s.Synthesize(context.Background(), resume, job, hard)
	if len(got.Strengths) != 3 || got.OverallFeedback != RuleBased().OverallFeedback {
		t.Fatalf("unexpected null provider feedback: %+v", got)
	}
}

package filtering

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleResults() *evaluation.Results {
	return &evaluation.Results{Items: []*evaluation.EvaluationResult{
		{ResumeID: "r1", Name: "Ann", RelevanceScore: 85, Verdict: evaluation.VerdictHigh},
		{ResumeID: "r2", Name: "Bob", RelevanceScore: 65, Verdict: evaluation.VerdictMedium},
		{ResumeID: "r3", RelevanceScore: 0, Verdict: evaluation.VerdictLow, Error: "Evaluation failed: boom"},
		{ResumeID: "r4", Name: "Dan", RelevanceScore: 40, Verdict: evaluation.VerdictLow},
	}}
}

func TestRunAppliesEnabledSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	cfg := &Config{MinimumScore: 50}

	got, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core)}, Default(), sampleResults())
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, got.ResumeIDs())

	steps := observed.FilterMessage("filter step").All()
	require.Len(t, steps, 4)
	assert.Equal(t, "minimum_score", steps[2].ContextMap()["name"])
	assert.Equal(t, int64(2), steps[2].ContextMap()["dropped"])
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	steps := Default()
	DisableByName(steps, "minimum_score", "disabled by flag")

	got, err := Run(context.Background(), &Config{MinimumScore: 90}, Deps{Logger: zap.New(core)}, steps, sampleResults())
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())
	assert.Equal(t, 1, observed.FilterMessage("filter disabled").Len())

	for _, status := range Describe(steps) {
		if status.Name == "minimum_score" {
			assert.False(t, status.Enabled)
			assert.Equal(t, "disabled by flag", status.Reason)
		}
	}
}

func TestRunValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"minimum score above range", &Config{MinimumScore: 101}},
		{"negative minimum score", &Config{MinimumScore: -1}},
		{"unknown verdict", &Config{Verdicts: []string{"Excellent"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(context.Background(), tt.cfg, Deps{}, Default(), sampleResults()); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestVerdictFilter(t *testing.T) {
	got, err := Run(context.Background(), &Config{Verdicts: []string{"high", "Medium"}}, Deps{}, []Filter{NewVerdict()}, sampleResults())
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, got.ResumeIDs())
}

func TestEvaluationErrorsFilter(t *testing.T) {
	got, err := Run(context.Background(), &Config{DropFailed: true}, Deps{}, []Filter{NewEvaluationErrors()}, sampleResults())
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r4"}, got.ResumeIDs())

	kept, err := Run(context.Background(), &Config{}, Deps{}, []Filter{NewEvaluationErrors()}, sampleResults())
	require.NoError(t, err)
	assert.Equal(t, 4, kept.Len())
}

func TestExcludeFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")

	empty, err := GetExcludedFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	first := ToExcluded(&evaluation.Results{Items: sampleResults().Items[:2]}, "already contacted")
	require.NoError(t, first.ToFile(path))

	stored, err := GetExcludedFromFile(path)
	require.NoError(t, err)
	stored.Append(ToExcluded(&evaluation.Results{Items: sampleResults().Items[3:]}, "rejected"))
	require.NoError(t, stored.ToFile(path))

	reloaded, err := GetExcludedFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r4"}, reloaded.IDs())
	assert.Equal(t, "rejected", reloaded.Items[2].Reason)

	got, err := Run(context.Background(), &Config{ExcludeFile: path}, Deps{}, []Filter{NewExcludeFile()}, sampleResults())
	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, got.ResumeIDs())
}

func TestExcludeFileScopedToJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")
	reviewed := &evaluation.Results{Items: []*evaluation.EvaluationResult{
		{ResumeID: "r1", JobID: "backend"},
	}}
	excluded := ToExcluded(reviewed, "reviewed")
	excluded.Items = append(excluded.Items, &ExcludedCandidate{ID: "r2", Reason: "blocked everywhere"})
	require.NoError(t, excluded.ToFile(path))

	results := func(jobID string) *evaluation.Results {
		return &evaluation.Results{Items: []*evaluation.EvaluationResult{
			{ResumeID: "r1", JobID: jobID},
			{ResumeID: "r2", JobID: jobID},
			{ResumeID: "r3", JobID: jobID},
		}}
	}

	got, err := Run(context.Background(), &Config{ExcludeFile: path}, Deps{}, []Filter{NewExcludeFile()}, results("backend"))
	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, got.ResumeIDs())

	got, err = Run(context.Background(), &Config{ExcludeFile: path}, Deps{}, []Filter{NewExcludeFile()}, results("frontend"))
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r3"}, got.ResumeIDs())
}

func TestExcludeFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	if _, err := Run(context.Background(), &Config{ExcludeFile: path}, Deps{}, []Filter{NewExcludeFile()}, sampleResults()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRank(t *testing.T) {
	results := &evaluation.Results{Items: []*evaluation.EvaluationResult{
		{ResumeID: "b", RelevanceScore: 70},
		{ResumeID: "c", RelevanceScore: 90},
		nil,
		{ResumeID: "a", RelevanceScore: 70},
	}}

	ranked := Rank(results)
	require.Len(t, ranked, 3)

	ids := make([]string, 0, len(ranked))
	for i, r := range ranked {
		ids = append(ids, r.ResumeID)
		if r.Position != i+1 {
			t.Fatalf("position %d at index %d", r.Position, i)
		}
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Equal(t, "b", results.Items[0].ResumeID, "input must not be reordered")
	assert.Nil(t, Rank(nil))
}

func TestReportByVerdict(t *testing.T) {
	report := ReportByVerdict(Rank(sampleResults()))

	require.Len(t, report[evaluation.VerdictLow], 2)
	assert.Equal(t, "Dan", report[evaluation.VerdictLow][0]["resume"])
	assert.Equal(t, "r3", report[evaluation.VerdictLow][1]["resume"])
	assert.Equal(t, "1", report[evaluation.VerdictHigh][0]["rank"])
	assert.Equal(t, "85.00", report[evaluation.VerdictHigh][0]["relevance"])
}

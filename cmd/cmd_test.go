package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
	"github.com/CSharon27/Resume-Evalution-System/internal/filtering"
	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"github.com/CSharon27/Resume-Evalution-System/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetConfigDefaults(t *testing.T) {
	config, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, evaluation.DefaultConfig().HardMatchWeight, config.Scoring.HardMatchWeight)
	assert.Equal(t, evaluation.DefaultConfig().HardWeights, config.Scoring.HardWeights)
	require.NoError(t, config.Scoring.Validate())
	require.NotNil(t, config.Embedding)
	assert.Equal(t, "hashing", config.Embedding.Provider)
	assert.False(t, config.Scoring.LLMEnabled)
}

func TestNewEvaluatorWithLocalEmbedder(t *testing.T) {
	config, err := getConfig()
	require.NoError(t, err)

	e, err := newEvaluator(context.Background(), config, zap.NewNop())
	require.NoError(t, err)

	resume := &records.ResumeRecord{ID: "r1", Content: "Python developer with Django and SQL", Skills: []string{"Python", "Django"}}
	job := &records.JobRecord{ID: "j1", Content: "Looking for a Python Django developer", MustHaveSkills: []string{"Python", "Django"}}
	job.Normalize()

	got := e.Evaluate(context.Background(), resume, job)
	assert.Empty(t, got.Error)
	assert.Equal(t, 100.0, got.HardMatchScore)
	assert.Greater(t, got.SemanticMatchScore, 0.0)
}

func TestNewEvaluatorRejectsUnknownEmbedding(t *testing.T) {
	config := &Config{
		Scoring:   evaluation.DefaultConfig(),
		Embedding: &EmbeddingConfig{Provider: "word2vec"},
	}
	if _, err := newEvaluator(context.Background(), config, zap.NewNop()); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}

func TestNewEvaluatorFallsBackWhenAIKeyMissing(t *testing.T) {
	t.Setenv(geminiAPIKeyEnv, "")

	core, observed := observer.New(zap.WarnLevel)
	config := &Config{
		Scoring: evaluation.DefaultConfig(),
		AI:      &AIConfig{Enabled: true, Provider: "gemini"},
	}
	config.Scoring.LLMEnabled = true

	e, err := newEvaluator(context.Background(), config, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 1, observed.FilterMessage("LLM feedback disabled").Len())

	got := e.Evaluate(context.Background(), &records.ResumeRecord{ID: "r"}, &records.JobRecord{ID: "j"})
	assert.Empty(t, got.Error)
}

func TestRedacted(t *testing.T) {
	config := &Config{AI: &AIConfig{Gemini: &GeminiConfig{APIKey: "secret", Model: "m"}}}

	safe := redacted(config)
	assert.Equal(t, "***", safe.AI.Gemini.APIKey)
	assert.Equal(t, "m", safe.AI.Gemini.Model)
	assert.Equal(t, "secret", config.AI.Gemini.APIKey, "original must be untouched")

	plain := &Config{}
	assert.Same(t, plain, redacted(plain))
}

func sampleResults() *evaluation.Results {
	return &evaluation.Results{Items: []*evaluation.EvaluationResult{
		{ResumeID: "r1", Name: "Ann", JobID: "j1", RelevanceScore: 82, Verdict: evaluation.VerdictHigh},
		{ResumeID: "r2", Name: "Bob", JobID: "j1", RelevanceScore: 45, Verdict: evaluation.VerdictLow},
	}}
}

func TestHandleAction(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	config := &Config{}
	job := &records.JobRecord{ID: "j1", Title: "Engineer"}

	require.NoError(t, handleAction(PromptSummary, logger, config, job, sampleResults()))
	require.NoError(t, handleAction(PromptReportByVerdict, logger, config, job, sampleResults()))

	require.NoError(t, handleAction(PromptResultsToFile, logger, config, job, sampleResults()))
	dumps := observed.FilterMessage("dumping result to file").All()
	require.Len(t, dumps, 1)
	filename, _ := dumps[0].ContextMap()["filename"].(string)
	t.Cleanup(func() { _ = os.Remove(filename) })

	dump, err := report.ReadJSON(filename)
	require.NoError(t, err)
	assert.Equal(t, "j1", dump.JobID)
	assert.Len(t, dump.Results, 2)

	err = handleAction(PromptExit, logger, config, job, sampleResults())
	assert.True(t, errors.Is(err, errExit))

	assert.Error(t, handleAction("unknown", logger, config, job, sampleResults()))
}

func TestSelectedCandidateByIndex(t *testing.T) {
	results := &evaluation.Results{Items: []*evaluation.EvaluationResult{
		{ResumeID: "Jane Doe", Name: "Jane", RelevanceScore: 90, Verdict: evaluation.VerdictHigh},
		{ResumeID: "r2", Name: "Bob", RelevanceScore: 45, Verdict: evaluation.VerdictLow},
	}}
	ranked := filtering.Rank(results)

	got, ok := selectedCandidate(ranked, 0)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", got.ResumeID)

	got, ok = selectedCandidate(ranked, 1)
	require.True(t, ok)
	assert.Equal(t, "r2", got.ResumeID)

	// the back entry follows the candidates
	_, ok = selectedCandidate(ranked, len(ranked))
	assert.False(t, ok)
	_, ok = selectedCandidate(ranked, -1)
	assert.False(t, ok)
}

func TestAppendToExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	results := sampleResults()

	err := appendToExcludeFile(zap.NewNop(), path, results)
	assert.True(t, errors.Is(err, errExit))
	assert.Equal(t, 0, results.Len())

	excluded, err := filtering.GetExcludedFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, excluded.IDs())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	if !strings.HasPrefix(out.String(), app+" version: ") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

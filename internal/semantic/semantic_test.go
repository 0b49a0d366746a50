package semantic

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// stubEmbedder maps known texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float64
	err     error
	calls   atomic.Int32
}

func (s *stubEmbedder) Dimensions() int { return 2 }

func (s *stubEmbedder) EmbedStrings(_ context.Context, texts []string) ([][]float64, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, 0, len(texts))
	for _, text := range texts {
		out = append(out, s.vectors[text])
	}
	return out, nil
}

func TestHashingEmbedderDeterministic(t *testing.T) {
	e := NewHashingEmbedder(64)
	ctx := context.Background()

	first, err := e.EmbedStrings(ctx, []string{"Go developer", "Go developer", ""})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, first[0], first[1])
	assert.Len(t, first[0], 64)
	assert.Len(t, first[2], 64)

	sim, err := Cosine(first[0], first[1])
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestHashingEmbedderSkipsEmptyNeighbour(t *testing.T) {
	e := NewHashingEmbedder(256)

	assert.Equal(t, e.embed("python"), e.embed("python ..."))
	assert.Equal(t, e.embed("python django"), e.embed("python django ..."))
	assert.NotEqual(t, e.embed("python"), e.embed("python django"))
}

func TestCosine(t *testing.T) {
	sim, err := Cosine([]float64{1, 0}, []float64{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0, sim, 1e-12)

	sim, err = Cosine([]float64{1, 0}, []float64{-2, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1, sim, 1e-12)

	sim, err = Cosine([]float64{0, 0}, []float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)

	_, err = Cosine([]float64{1}, []float64{1, 0})
	assert.Error(t, err)
}

func TestComputeSemanticMatch(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float64{
		"resume": {0.6, 0.8},
		"job":    {1, 0},
	}}
	s := NewScorer(stub, nil)

	got := s.ComputeSemanticMatch(context.Background(),
		&records.ResumeRecord{Content: "resume"},
		&records.JobRecord{Content: "job"},
	)

	assert.InDelta(t, 60.0, got.SemanticMatchScore, 1e-6)
	assert.InDelta(t, 0.6, got.SimilarityScore, 1e-6)
	assert.Equal(t, 6, got.ResumeLength)
	assert.Equal(t, 3, got.JobLength)
	assert.Empty(t, got.Error)
}

func TestComputeSemanticMatchNegativeSimilarityFloorsAtZero(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float64{
		"a": {1, 0},
		"b": {-1, 0},
	}}
	got := NewScorer(stub, nil).ComputeSemanticMatch(context.Background(),
		&records.ResumeRecord{Content: "a"}, &records.JobRecord{Content: "b"})

	assert.Equal(t, 0.0, got.SemanticMatchScore)
	assert.InDelta(t, -1, got.SimilarityScore, 1e-9)
}

func TestComputeSemanticMatchRecoversFailures(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	stub := &stubEmbedder{err: errors.New("model unavailable")}
	s := NewScorer(stub, zap.New(core))

	got := s.ComputeSemanticMatch(context.Background(),
		&records.ResumeRecord{ID: "r1", Content: "text"}, &records.JobRecord{ID: "j1", Content: "text"})
	assert.Equal(t, 0.0, got.SemanticMatchScore)
	assert.Contains(t, got.Error, "model unavailable")
	assert.Equal(t, 1, observed.FilterMessage("semantic similarity failed").Len())

	empty := s.ComputeSemanticMatch(context.Background(),
		&records.ResumeRecord{Content: ""}, &records.JobRecord{Content: "text"})
	assert.Equal(t, 0.0, empty.SemanticMatchScore)
	assert.Equal(t, 1, observed.FilterMessage("semantic similarity skipped").Len())
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestCachedEmbedderReusesVectors(t *testing.T) {
	stub := &stubEmbedder{vectors: map[string][]float64{
		"job": {1, 0},
		"r1":  {0, 1},
		"r2":  {1, 1},
	}}
	c := NewCachedEmbedder(stub)
	ctx := context.Background()

	_, err := c.EmbedStrings(ctx, []string{"r1", "job"})
	require.NoError(t, err)
	got, err := c.EmbedStrings(ctx, []string{"r2", "job"})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1}, got[0])
	assert.Equal(t, []float64{1, 0}, got[1])
	assert.Equal(t, 3, c.Len())

	_, err = c.EmbedStrings(ctx, []string{"job", "r1"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.calls.Load())
	assert.Equal(t, 2, c.Dimensions())
}

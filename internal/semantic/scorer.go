package semantic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/CSharon27/Resume-Evalution-System/internal/logger"
	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"github.com/CSharon27/Resume-Evalution-System/internal/utils"
	"go.uber.org/zap"
)

// ErrEmptyInput is returned when one of the compared texts is blank.
var ErrEmptyInput = errors.New("empty text cannot be embedded")

// SemanticMatchResult is the embedding-based part of an evaluation.
type SemanticMatchResult struct {
	SemanticMatchScore float64 `json:"semantic_match_score"`
	SimilarityScore    float64 `json:"similarity_score"`
	ResumeLength       int     `json:"resume_length"`
	JobLength          int     `json:"job_length"`
	Error              string  `json:"error,omitempty"`
}

type Scorer struct {
	embedder Embedder
	logger   *zap.Logger
}

func NewScorer(embedder Embedder, l *zap.Logger) *Scorer {
	if embedder == nil {
		embedder = NewHashingEmbedder(DefaultDimensions)
	}
	return &Scorer{embedder: embedder, logger: logger.OrNop(l)}
}

// Similarity returns the cosine similarity of the two embeddings in [-1, 1].
// Blank input yields 0 together with ErrEmptyInput; a zero-norm vector yields 0.
func (s *Scorer) Similarity(ctx context.Context, text1, text2 string) (float64, error) {
	if strings.TrimSpace(text1) == "" || strings.TrimSpace(text2) == "" {
		return 0, ErrEmptyInput
	}

	vectors, err := s.embedder.EmbedStrings(ctx, []string{text1, text2})
	if err != nil {
		return 0, fmt.Errorf("embed texts: %w", err)
	}
	if len(vectors) != 2 {
		return 0, fmt.Errorf("embedder returned %d vectors, want 2", len(vectors))
	}

	return Cosine(vectors[0], vectors[1])
}

// Cosine computes the cosine similarity of a and b, clamped to [-1, 1].
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d != %d", len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return utils.Clamp(dot/(math.Sqrt(na)*math.Sqrt(nb)), -1, 1), nil
}

// ComputeSemanticMatch scores resume content against job content. Failures
// are logged and reported as a zero score.
func (s *Scorer) ComputeSemanticMatch(ctx context.Context, resume *records.ResumeRecord, job *records.JobRecord) *SemanticMatchResult {
	var resumeText, jobText, resumeID, jobID string
	if resume != nil {
		resumeText, resumeID = resume.Content, resume.ID
	}
	if job != nil {
		jobText, jobID = job.Content, job.ID
	}

	result := &SemanticMatchResult{
		ResumeLength: utf8.RuneCountInString(resumeText),
		JobLength:    utf8.RuneCountInString(jobText),
	}

	sim, err := s.Similarity(ctx, resumeText, jobText)
	if err != nil {
		fields := append(logger.EvaluationFields(resumeID, jobID), zap.Error(err))
		if errors.Is(err, ErrEmptyInput) {
			s.logger.Debug("semantic similarity skipped", fields...)
		} else {
			s.logger.Warn("semantic similarity failed", fields...)
		}
		result.Error = err.Error()
		return result
	}

	result.SimilarityScore = utils.Round(sim, 4)
	result.SemanticMatchScore = utils.Round(utils.Clamp(math.Max(0, sim)*100, 0, 100), 2)
	return result
}

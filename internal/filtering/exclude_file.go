package filtering

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
)

// ExcludedCandidates is the content of an exclude file.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate
}

type ExcludedCandidate struct {
	ID         string
	Name       string
	JobID      string
	Reason     string
	ExcludedAt time.Time
}

// ToExcluded turns results into exclude entries stamped with the current time.
func ToExcluded(results *evaluation.Results, reason string) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, result := range results.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			ID:         result.ResumeID,
			Name:       result.Name,
			JobID:      result.JobID,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedFromFile reads an exclude file. A missing or empty file yields
// an empty list.
func GetExcludedFromFile(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedCandidates) Append(s *ExcludedCandidates) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedCandidates) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, candidate := range e.Items {
		ids = append(ids, candidate.ID)
	}
	return ids
}

// Excludes reports whether the result's resume is listed for the result's
// job. An entry without a job id excludes the resume from every job.
func (e *ExcludedCandidates) Excludes(result *evaluation.EvaluationResult) bool {
	if result == nil {
		return false
	}
	for _, candidate := range e.Items {
		if candidate.ID != result.ResumeID {
			continue
		}
		if candidate.JobID == "" || candidate.JobID == result.JobID {
			return true
		}
	}
	return false
}

func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

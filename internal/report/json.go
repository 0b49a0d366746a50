package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
)

// Dump is the JSON document written for a batch of results.
type Dump struct {
	JobID   string                         `json:"job_id,omitempty"`
	Summary evaluation.SummaryStats        `json:"summary"`
	Results []*evaluation.EvaluationResult `json:"results"`
}

func NewDump(jobID string, results *evaluation.Results) *Dump {
	return &Dump{
		JobID:   jobID,
		Summary: evaluation.Summarize(results.Items),
		Results: results.Items,
	}
}

// DumpToTmpFile writes the dump to a new temporary file and returns its path.
func DumpToTmpFile(d *Dump) (string, error) {
	file, err := os.CreateTemp("", "evaluations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := encode(file, d); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func WriteJSON(path string, d *Dump) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	return encode(file, d)
}

// ReadJSON loads a dump previously written by WriteJSON or DumpToTmpFile.
func ReadJSON(path string) (*Dump, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var d Dump
	if err := json.NewDecoder(file).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &d, nil
}

func encode(w io.Writer, d *Dump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

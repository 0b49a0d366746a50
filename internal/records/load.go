package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/CSharon27/Resume-Evalution-System/internal/logger"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	educationType  = reflect.TypeOf(Education{})
	experienceType = reflect.TypeOf(Experience{})
)

// DecodeResume builds a resume from a loosely-typed map such as a decoded
// JSON or YAML document. Skills may be a list or a comma-separated string and
// education entries may be plain degree strings.
func DecodeResume(raw map[string]any) (*ResumeRecord, error) {
	var resume ResumeRecord
	if err := decode(raw, &resume); err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}
	resume.Normalize()
	return &resume, nil
}

// DecodeJob builds a job from a loosely-typed map.
func DecodeJob(raw map[string]any) (*JobRecord, error) {
	var job JobRecord
	if err := decode(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	job.Normalize()
	return &job, nil
}

// LoadResumeFile reads a resume from a .json, .yaml or .yml file. The file
// name without extension is used when the document has no id.
func LoadResumeFile(path string) (*ResumeRecord, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	resume, err := DecodeResume(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if resume.ID == "" {
		resume.ID = baseName(path)
	}
	resume.Source = path
	return resume, nil
}

func LoadJobFile(path string) (*JobRecord, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	job, err := DecodeJob(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if job.ID == "" {
		job.ID = baseName(path)
	}
	return job, nil
}

// LoadResumes loads a single resume file or every supported file in a
// directory, ordered by file name. In a directory a file that cannot be read
// or decoded is logged and skipped.
func LoadResumes(path string, l *zap.Logger) (*Resumes, error) {
	l = logger.OrNop(l)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		resume, err := LoadResumeFile(path)
		if err != nil {
			return nil, err
		}
		return &Resumes{Items: []*ResumeRecord{resume}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	resumes := &Resumes{Items: make([]*ResumeRecord, 0, len(names))}
	for _, name := range names {
		resume, err := LoadResumeFile(filepath.Join(path, name))
		if err != nil {
			l.Warn("skipping resume file", zap.String("filename", name), zap.Error(err))
			continue
		}
		resumes.Items = append(resumes.Items, resume)
	}
	return resumes, nil
}

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			degreeHook,
			experienceHook,
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// degreeHook lets an education entry be given as just the degree name.
func degreeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != educationType || from.Kind() != reflect.String {
		return data, nil
	}
	return map[string]any{"degree": data}, nil
}

// experienceHook lets an experience entry be given as a single line of text.
func experienceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != experienceType || from.Kind() != reflect.String {
		return data, nil
	}
	return map[string]any{"position": data}, nil
}

func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%s: unsupported file type", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	return raw, nil
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

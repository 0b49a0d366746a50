package records

import "strings"

// ResumeRecord is the candidate-side input of an evaluation. It is produced
// by the extraction layer and treated as read-only by the matchers.
type ResumeRecord struct {
	ID         string       `json:"id" mapstructure:"id"`
	Name       string       `json:"name,omitempty" mapstructure:"name"`
	Content    string       `json:"content" mapstructure:"content"`
	Skills     []string     `json:"skills" mapstructure:"skills"`
	Education  []Education  `json:"education" mapstructure:"education"`
	Experience []Experience `json:"experience" mapstructure:"experience"`
	Source     string       `json:"source,omitempty" mapstructure:"-"`
}

// Education is a single education entry. Only Degree takes part in matching.
type Education struct {
	Degree      string         `json:"degree" mapstructure:"degree"`
	Institution string         `json:"institution,omitempty" mapstructure:"institution"`
	Year        string         `json:"year,omitempty" mapstructure:"year"`
	Extra       map[string]any `json:"extra,omitempty" mapstructure:",remain"`
}

// Experience is an opaque work history entry; only the number of entries is used.
type Experience map[string]any

// Degrees returns the non-empty degree strings of the resume in order.
func (r *ResumeRecord) Degrees() []string {
	degrees := make([]string, 0, len(r.Education))
	for _, edu := range r.Education {
		if degree := strings.TrimSpace(edu.Degree); degree != "" {
			degrees = append(degrees, degree)
		}
	}
	return degrees
}

// Normalize trims skills and drops empty entries.
func (r *ResumeRecord) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Skills = compact(r.Skills)
}

type Resumes struct {
	Items []*ResumeRecord
}

func (r *Resumes) Len() int {
	return len(r.Items)
}

func (r *Resumes) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, resume := range r.Items {
		ids = append(ids, resume.ID)
	}
	return ids
}

func (r *Resumes) FindByID(id string) *ResumeRecord {
	for _, resume := range r.Items {
		if resume.ID == id {
			return resume
		}
	}
	return nil
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package records

import (
	"regexp"
	"strconv"
	"strings"
)

// NotSpecified is the experience requirement used when a job states none.
const NotSpecified = "Not specified"

var yearsPattern = regexp.MustCompile(`\d+`)

// JobRecord is the requirement-side input of an evaluation.
type JobRecord struct {
	ID                 string   `json:"id" mapstructure:"id"`
	Title              string   `json:"title,omitempty" mapstructure:"title"`
	Company            string   `json:"company,omitempty" mapstructure:"company"`
	Location           string   `json:"location,omitempty" mapstructure:"location"`
	Content            string   `json:"content" mapstructure:"content"`
	MustHaveSkills     []string `json:"must_have_skills" mapstructure:"must_have_skills"`
	GoodToHaveSkills   []string `json:"good_to_have_skills" mapstructure:"good_to_have_skills"`
	Qualifications     []string `json:"qualifications" mapstructure:"qualifications"`
	ExperienceRequired string   `json:"experience_required" mapstructure:"experience_required"`
}

// Normalize removes case-insensitive duplicates from the skill sets, keeping
// the first spelling, and defaults the experience requirement.
func (j *JobRecord) Normalize() {
	j.ID = strings.TrimSpace(j.ID)
	j.MustHaveSkills = dedupeFold(j.MustHaveSkills)
	j.GoodToHaveSkills = dedupeFold(j.GoodToHaveSkills)
	j.Qualifications = compact(j.Qualifications)
	if strings.TrimSpace(j.ExperienceRequired) == "" {
		j.ExperienceRequired = NotSpecified
	}
}

// RequiredYears extracts the first integer found in the experience
// requirement. Anything else, including NotSpecified, yields 0.
func RequiredYears(text string) int {
	text = strings.TrimSpace(text)
	if text == "" || text == NotSpecified {
		return 0
	}

	match := yearsPattern.FindString(text)
	if match == "" {
		return 0
	}

	years, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return years
}

func dedupeFold(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

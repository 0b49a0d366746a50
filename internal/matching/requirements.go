package matching

import (
	"errors"
	"fmt"
	"math"

	"github.com/CSharon27/Resume-Evalution-System/internal/logger"
	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"github.com/CSharon27/Resume-Evalution-System/internal/utils"
	"go.uber.org/zap"
)

const (
	// EducationFuzzyThreshold is the ratio a degree must exceed to satisfy a qualification.
	EducationFuzzyThreshold = 0.6
	// YearsPerExperienceEntry is the coarse duration assigned to each experience record.
	YearsPerExperienceEntry = 2
)

// EducationMatch is the result of comparing degrees against qualifications.
type EducationMatch struct {
	Matched        []string `json:"matched_qualifications"`
	Missing        []string `json:"missing_qualifications"`
	EducationScore float64  `json:"education_score"`
	TotalRequired  int      `json:"total_required"`
}

// ExperienceMatch is the result of the experience-duration heuristic.
type ExperienceMatch struct {
	RequiredYears    int     `json:"required_years"`
	EstimatedYears   int     `json:"estimated_years"`
	ExperienceScore  float64 `json:"experience_score"`
	MeetsRequirement bool    `json:"meets_requirement"`
}

// HardMatchResult is the rule-based part of an evaluation.
type HardMatchResult struct {
	HardMatchScore        float64         `json:"hard_match_score"`
	MustHaveSkills        SkillMatch      `json:"must_have_skills"`
	GoodToHaveSkills      SkillMatch      `json:"good_to_have_skills"`
	Education             EducationMatch  `json:"education"`
	Experience            ExperienceMatch `json:"experience"`
	MissingSkills         []string        `json:"missing_skills"`
	MissingQualifications []string        `json:"missing_qualifications"`
	// KeywordSimilarity is the TF-IDF similarity of the two contents. It is
	// diagnostic only and does not enter HardMatchScore.
	KeywordSimilarity float64 `json:"keyword_similarity"`
}

// HardWeights combines the hard-match dimensions. They must sum to 1.
type HardWeights struct {
	MustHave   float64 `mapstructure:"must-have" json:"must_have" validate:"gte=0,lte=1"`
	GoodToHave float64 `mapstructure:"good-to-have" json:"good_to_have" validate:"gte=0,lte=1"`
	Education  float64 `mapstructure:"education" json:"education" validate:"gte=0,lte=1"`
	Experience float64 `mapstructure:"experience" json:"experience" validate:"gte=0,lte=1"`
}

var ErrInvalidWeights = errors.New("hard match weights must sum to 1")

func DefaultHardWeights() HardWeights {
	return HardWeights{MustHave: 0.4, GoodToHave: 0.2, Education: 0.2, Experience: 0.2}
}

func (w HardWeights) Validate() error {
	for _, v := range []float64{w.MustHave, w.GoodToHave, w.Education, w.Experience} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: negative weight %v", ErrInvalidWeights, v)
		}
	}
	if sum := w.MustHave + w.GoodToHave + w.Education + w.Experience; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: got %.4f", ErrInvalidWeights, sum)
	}
	return nil
}

// MatchEducation checks every required qualification against the candidate
// degrees; the first degree above the threshold satisfies it.
func MatchEducation(degrees, qualifications []string) EducationMatch {
	result := EducationMatch{
		Matched:       []string{},
		Missing:       []string{},
		TotalRequired: len(qualifications),
	}

	for _, qual := range qualifications {
		found := false
		for _, degree := range degrees {
			if FuzzySimilarity(qual, degree) > EducationFuzzyThreshold {
				found = true
				break
			}
		}
		if found {
			result.Matched = append(result.Matched, qual)
		} else {
			result.Missing = append(result.Missing, qual)
		}
	}

	if result.TotalRequired == 0 {
		result.EducationScore = 100
		return result
	}
	result.EducationScore = utils.Clamp(float64(len(result.Matched))/float64(result.TotalRequired)*100, 0, 100)
	return result
}

// MatchExperience estimates candidate years as two per experience entry and
// compares them with the first integer of the requirement text.
func MatchExperience(experience []records.Experience, required string) ExperienceMatch {
	result := ExperienceMatch{
		RequiredYears:  records.RequiredYears(required),
		EstimatedYears: len(experience) * YearsPerExperienceEntry,
	}

	result.MeetsRequirement = result.EstimatedYears >= result.RequiredYears
	if result.MeetsRequirement || result.RequiredYears == 0 {
		result.ExperienceScore = 100
		return result
	}

	result.ExperienceScore = utils.Clamp(float64(result.EstimatedYears)/float64(result.RequiredYears)*100, 0, 100)
	return result
}

// Matcher computes the hard-match sub-score of a resume against a job.
type Matcher struct {
	weights HardWeights
	text    TextSimilarity
	logger  *zap.Logger
}

// NewMatcher returns a matcher. A nil text similarity defaults to TF-IDF.
func NewMatcher(weights HardWeights, text TextSimilarity, l *zap.Logger) (*Matcher, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if text == nil {
		text = NewTFIDF()
	}
	return &Matcher{weights: weights, text: text, logger: logger.OrNop(l)}, nil
}

func (m *Matcher) ComputeHardMatch(resume *records.ResumeRecord, job *records.JobRecord) (*HardMatchResult, error) {
	if resume == nil {
		return nil, errors.New("resume is required")
	}
	if job == nil {
		return nil, errors.New("job is required")
	}

	mustHave := MatchSkillSet(resume.Skills, job.MustHaveSkills)
	goodToHave := MatchSkillSet(resume.Skills, job.GoodToHaveSkills)
	education := MatchEducation(resume.Degrees(), job.Qualifications)
	experience := MatchExperience(resume.Experience, job.ExperienceRequired)

	score := mustHave.SkillScore*m.weights.MustHave +
		goodToHave.SkillScore*m.weights.GoodToHave +
		education.EducationScore*m.weights.Education +
		experience.ExperienceScore*m.weights.Experience

	keyword, err := m.text.Similarity(resume.Content, job.Content)
	if err != nil {
		m.logger.Warn("keyword similarity failed",
			append(logger.EvaluationFields(resume.ID, job.ID), zap.Error(err))...,
		)
		keyword = 0
	}

	return &HardMatchResult{
		HardMatchScore:        utils.Clamp(score, 0, 100),
		MustHaveSkills:        mustHave,
		GoodToHaveSkills:      goodToHave,
		Education:             education,
		Experience:            experience,
		MissingSkills:         mustHave.Missing,
		MissingQualifications: education.Missing,
		KeywordSimilarity:     keyword,
	}, nil
}

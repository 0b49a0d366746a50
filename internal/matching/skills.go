package matching

import (
	"strings"

	"github.com/CSharon27/Resume-Evalution-System/internal/utils"
)

const (
	// SkillFuzzyThreshold is the ratio a candidate skill must exceed to count
	// as a partial match.
	SkillFuzzyThreshold = 0.7
	// PartialMatchCredit is the weight a partial match contributes.
	PartialMatchCredit = 0.7
)

// PartialMatch records a required skill satisfied only by fuzzy similarity.
type PartialMatch struct {
	Required  string  `json:"required"`
	MatchedTo string  `json:"matched_to"`
	Score     float64 `json:"score"`
}

// SkillMatch classifies every required skill exactly once.
type SkillMatch struct {
	Matched       []string       `json:"matched_skills"`
	Missing       []string       `json:"missing_skills"`
	Partial       []PartialMatch `json:"partial_matches"`
	SkillScore    float64        `json:"skill_score"`
	TotalRequired int            `json:"total_required"`
}

// MatchSkillSet compares candidate skills against required ones: exact
// case-insensitive match first, then the best fuzzy match above the
// threshold, otherwise missing. Nothing required scores 100.
func MatchSkillSet(candidate, required []string) SkillMatch {
	result := SkillMatch{
		Matched:       []string{},
		Missing:       []string{},
		Partial:       []PartialMatch{},
		TotalRequired: len(required),
	}

	exact := make(map[string]struct{}, len(candidate))
	for _, skill := range candidate {
		exact[strings.ToLower(skill)] = struct{}{}
	}

	for _, req := range required {
		if _, ok := exact[strings.ToLower(req)]; ok {
			result.Matched = append(result.Matched, req)
			continue
		}

		best, bestScore := "", 0.0
		for _, skill := range candidate {
			score := FuzzySimilarity(req, skill)
			if score > SkillFuzzyThreshold && score > bestScore {
				best, bestScore = skill, score
			}
		}

		if best != "" {
			result.Partial = append(result.Partial, PartialMatch{Required: req, MatchedTo: best, Score: bestScore})
			continue
		}
		result.Missing = append(result.Missing, req)
	}

	if result.TotalRequired == 0 {
		result.SkillScore = 100
		return result
	}

	credit := float64(len(result.Matched)) + float64(len(result.Partial))*PartialMatchCredit
	result.SkillScore = utils.Clamp(credit/float64(result.TotalRequired)*100, 0, 100)
	return result
}

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/CSharon27/Resume-Evalution-System/internal/ai"
	"github.com/CSharon27/Resume-Evalution-System/internal/logger"
	"github.com/CSharon27/Resume-Evalution-System/internal/matching"
	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"github.com/CSharon27/Resume-Evalution-System/internal/utils"
	"go.uber.org/zap"
)

const (
	systemInstruction       = "You are an experienced technical recruiter. Answer only with the requested JSON."
	defaultTone             = "Constructive"
	defaultMaxLogLength     = 200
	maxUserInstructionRunes = 500
	maxSingleLineRunes      = 200
)

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// PromptOverrides customise the feedback prompt.
type PromptOverrides struct {
	Tone             string `mapstructure:"tone"`
	ExtraCriteria    string `mapstructure:"extra-criteria"`
	UserInstructions string `mapstructure:"user-instructions"`
}

// FeedbackProvider asks Gemini for strengths, weaknesses and suggestions.
type FeedbackProvider struct {
	generator contentGenerator
	overrides PromptOverrides
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.FeedbackProvider = (*FeedbackProvider)(nil)

func NewFeedbackProvider(generator contentGenerator, maxLogLength int, l *zap.Logger) *FeedbackProvider {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &FeedbackProvider{
		generator: generator,
		logger:    logger.OrNop(l),
		maxLogLen: maxLogLength,
	}
}

func (p *FeedbackProvider) SetPromptOverrides(o PromptOverrides) {
	p.overrides = o
}

func (p *FeedbackProvider) Generate(ctx context.Context, resume *records.ResumeRecord, job *records.JobRecord, hard *matching.HardMatchResult) (*ai.Feedback, error) {
	if resume == nil {
		return nil, errors.New("resume is required")
	}
	if job == nil {
		return nil, errors.New("job is required")
	}

	prompt, err := p.buildPrompt(resume, job, hard)
	if err != nil {
		return nil, err
	}

	fields := logger.EvaluationFields(resume.ID, job.ID)
	p.logger.Debug("gemini feedback request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)...)

	raw, err := p.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("gemini feedback response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)...)

	feedback, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	feedback.Raw = raw
	return feedback, nil
}

func (p *FeedbackProvider) buildPrompt(resume *records.ResumeRecord, job *records.JobRecord, hard *matching.HardMatchResult) (string, error) {
	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal resume payload: %w", err)
	}

	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}

	summary := map[string]any{}
	if hard != nil {
		summary = map[string]any{
			"hard_match_score":       utils.Round(hard.HardMatchScore, 2),
			"matched_skills":         hard.MustHaveSkills.Matched,
			"partial_matches":        hard.MustHaveSkills.Partial,
			"missing_skills":         hard.MissingSkills,
			"missing_qualifications": hard.MissingQualifications,
			"experience":             hard.Experience,
		}
	}
	matchJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal match summary: %w", err)
	}

	tone := singleLine(p.overrides.Tone)
	if tone == "" {
		tone = defaultTone
	}
	extra := singleLine(p.overrides.ExtraCriteria)
	if extra == "" {
		extra = "none"
	}

	replacer := strings.NewReplacer(
		"{{TONE}}", tone,
		"{{EXTRA_CRITERIA}}", extra,
		"{{USER_INSTRUCTIONS}}", userInstructionsBlock(p.overrides.UserInstructions),
		"{{JOB_JSON}}", string(jobJSON),
		"{{RESUME_JSON}}", string(resumeJSON),
		"{{MATCH_JSON}}", string(matchJSON),
	)
	return replacer.Replace(promptTemplate), nil
}

// singleLine sanitizes s and caps its length.
func singleLine(s string) string {
	return truncateRunes(sanitize(s), maxSingleLineRunes)
}

// sanitize collapses whitespace and neutralises square brackets so user text
// cannot open a new prompt section.
func sanitize(s string) string {
	s = strings.NewReplacer("[", "(", "]", ")").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func userInstructionsBlock(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = sanitize(line); line != "" {
			lines = append(lines, line)
		}
	}

	joined := truncateRunes(strings.Join(lines, "\n"), maxUserInstructionRunes)
	if joined == "" {
		return "  - none"
	}

	var out []string
	for _, line := range strings.Split(joined, "\n") {
		out = append(out, "  - "+line)
	}
	return strings.Join(out, "\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

func parseResponse(raw string) (*ai.Feedback, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	feedback := &ai.Feedback{
		Strengths:              coerceStrings(data["strengths"]),
		Weaknesses:             coerceStrings(data["weaknesses"]),
		ImprovementSuggestions: coerceText(data["improvement_suggestions"]),
		OverallFeedback:        coerceText(data["overall_feedback"]),
	}
	if feedback.Empty() {
		return nil, errors.New("gemini response has no feedback fields")
	}
	return feedback, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start != -1 && end > start {
		raw = raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
	}
	return []string{}
}

// coerceText accepts a string or a list of strings, joining the latter.
func coerceText(v any) string {
	if list, ok := v.([]any); ok {
		return strings.Join(coerceStrings(list), " ")
	}
	return coerceString(v)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

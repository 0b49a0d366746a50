package evaluation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/CSharon27/Resume-Evalution-System/internal/matching"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid evaluation config")

// Config holds scoring weights and verdict thresholds. It is validated once
// when the evaluator is built.
type Config struct {
	HardMatchWeight            float64              `mapstructure:"hard-match-weight" json:"hard_match_weight" validate:"gte=0,lte=1"`
	SemanticMatchWeight        float64              `mapstructure:"semantic-match-weight" json:"semantic_match_weight" validate:"gte=0,lte=1"`
	HighSuitabilityThreshold   float64              `mapstructure:"high-suitability-threshold" json:"high_suitability_threshold" validate:"gte=0,lte=100"`
	MediumSuitabilityThreshold float64              `mapstructure:"medium-suitability-threshold" json:"medium_suitability_threshold" validate:"gte=0,lte=100"`
	LLMEnabled                 bool                 `mapstructure:"llm-enabled" json:"llm_enabled"`
	FeedbackTimeout            time.Duration        `mapstructure:"feedback-timeout" json:"feedback_timeout" validate:"gte=0"`
	Concurrency                int                  `mapstructure:"concurrency" json:"concurrency" validate:"gte=0,lte=64"`
	HardWeights                matching.HardWeights `mapstructure:"hard-weights" json:"hard_weights"`
}

func DefaultConfig() Config {
	return Config{
		HardMatchWeight:            0.4,
		SemanticMatchWeight:        0.6,
		HighSuitabilityThreshold:   80,
		MediumSuitabilityThreshold: 60,
		FeedbackTimeout:            30 * time.Second,
		Concurrency:                1,
		HardWeights:                matching.DefaultHardWeights(),
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if sum := c.HardMatchWeight + c.SemanticMatchWeight; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: hard and semantic weights must sum to 1, got %.4f", ErrInvalidConfig, sum)
	}
	if c.MediumSuitabilityThreshold > c.HighSuitabilityThreshold {
		return fmt.Errorf("%w: medium threshold %.2f is above high threshold %.2f",
			ErrInvalidConfig, c.MediumSuitabilityThreshold, c.HighSuitabilityThreshold)
	}
	if err := c.HardWeights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

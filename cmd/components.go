package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/CSharon27/Resume-Evalution-System/internal/ai"
	"github.com/CSharon27/Resume-Evalution-System/internal/ai/gemini"
	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
	"github.com/CSharon27/Resume-Evalution-System/internal/feedback"
	"github.com/CSharon27/Resume-Evalution-System/internal/matching"
	"github.com/CSharon27/Resume-Evalution-System/internal/secrets"
	"github.com/CSharon27/Resume-Evalution-System/internal/semantic"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

// components lazily shares one genai client between the embedder and the
// feedback provider.
type components struct {
	config *Config
	logger *zap.Logger
	client *genai.Client
}

func (c *components) genaiClient(ctx context.Context) (*genai.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	var gcfg GeminiConfig
	if c.config.AI != nil && c.config.AI.Gemini != nil {
		gcfg = *c.config.AI.Gemini
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	client, err := gemini.NewClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}

func (c *components) embedder(ctx context.Context) (semantic.Embedder, error) {
	cfg := c.config.Embedding
	if cfg == nil {
		cfg = &EmbeddingConfig{Provider: "hashing"}
	}

	var embedder semantic.Embedder
	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", "hashing":
		embedder = semantic.NewHashingEmbedder(cfg.Dimensions)
	case "gemini":
		client, err := c.genaiClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("building gemini embedder: %w", err)
		}
		remote, err := gemini.NewEmbedder(client, cfg.Model, cfg.Dimensions)
		if err != nil {
			return nil, err
		}
		embedder = remote
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	c.logger.Info("embedding provider configured",
		zap.String("provider", cfg.Provider),
		zap.Int("dimensions", embedder.Dimensions()),
		zap.Bool("cache", cfg.Cache),
	)

	if cfg.Cache {
		return semantic.NewCachedEmbedder(embedder), nil
	}
	return embedder, nil
}

func (c *components) feedbackProvider(ctx context.Context) (ai.FeedbackProvider, error) {
	cfg := c.config.AI
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	var gcfg GeminiConfig
	if cfg.Gemini != nil {
		gcfg = *cfg.Gemini
	}

	client, err := c.genaiClient(ctx)
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(client, gcfg.Model, gcfg.MaxRetries, c.logger.With(
		zap.Int("ai_retry_attempts", gcfg.MaxRetries),
	))
	if err != nil {
		return nil, err
	}

	fp := gemini.NewFeedbackProvider(generator, gcfg.MaxLogLength, c.logger)
	fp.SetPromptOverrides(cfg.Prompt)
	return fp, nil
}

// newEvaluator wires the matchers, the embedder and the optional LLM
// feedback provider into an evaluator.
func newEvaluator(ctx context.Context, config *Config, logger *zap.Logger) (*evaluation.Evaluator, error) {
	c := &components{config: config, logger: logger}

	hard, err := matching.NewMatcher(config.Scoring.HardWeights, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("building hard matcher: %w", err)
	}

	embedder, err := c.embedder(ctx)
	if err != nil {
		return nil, err
	}

	provider, err := c.feedbackProvider(ctx)
	if err != nil {
		logger.Warn("LLM feedback disabled", zap.Error(err))
		provider = nil
	}

	timeout := config.Scoring.FeedbackTimeout
	if config.AI != nil && config.AI.Timeout > 0 {
		timeout = config.AI.Timeout
	}

	synth := feedback.NewSynthesizer(provider, feedback.Config{
		Enabled: config.Scoring.LLMEnabled && provider != nil,
		Timeout: timeout,
	}, logger)

	return evaluation.New(config.Scoring, evaluation.Deps{
		Hard:     hard,
		Semantic: semantic.NewScorer(embedder, logger),
		Feedback: synth,
		Logger:   logger,
	})
}

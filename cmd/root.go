package cmd

import (
	"strings"
	"time"

	"github.com/CSharon27/Resume-Evalution-System/internal/ai/gemini"
	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
	"github.com/CSharon27/Resume-Evalution-System/internal/filtering"
	"github.com/CSharon27/Resume-Evalution-System/internal/semantic"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "resume-evaluator"
	envPrefix = "RESUME_EVALUATOR"
)

type Config struct {
	Scoring     evaluation.Config `mapstructure:"scoring"`
	Embedding   *EmbeddingConfig  `mapstructure:"embedding"`
	AI          *AIConfig         `mapstructure:"ai"`
	Filters     filtering.Config  `mapstructure:"filters"`
	ExcludeFile string            `mapstructure:"exclude-file"`
}

type EmbeddingConfig struct {
	// Provider is hashing (local, default) or gemini.
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	Cache      bool   `mapstructure:"cache"`
}

type AIConfig struct {
	Enabled  bool                   `mapstructure:"enabled"`
	Provider string                 `mapstructure:"provider"`
	Timeout  time.Duration          `mapstructure:"timeout"`
	Gemini   *GeminiConfig          `mapstructure:"gemini"`
	Prompt   gemini.PromptOverrides `mapstructure:"prompt"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-evaluator scores resumes against a job description and explains the verdict",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-evaluator.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	scoring := evaluation.DefaultConfig()
	v.SetDefault("scoring.hard-match-weight", scoring.HardMatchWeight)
	v.SetDefault("scoring.semantic-match-weight", scoring.SemanticMatchWeight)
	v.SetDefault("scoring.high-suitability-threshold", scoring.HighSuitabilityThreshold)
	v.SetDefault("scoring.medium-suitability-threshold", scoring.MediumSuitabilityThreshold)
	v.SetDefault("scoring.feedback-timeout", scoring.FeedbackTimeout)
	v.SetDefault("scoring.concurrency", scoring.Concurrency)
	v.SetDefault("scoring.hard-weights.must-have", scoring.HardWeights.MustHave)
	v.SetDefault("scoring.hard-weights.good-to-have", scoring.HardWeights.GoodToHave)
	v.SetDefault("scoring.hard-weights.education", scoring.HardWeights.Education)
	v.SetDefault("scoring.hard-weights.experience", scoring.HardWeights.Experience)

	v.SetDefault("embedding.provider", "hashing")
	v.SetDefault("embedding.dimensions", semantic.DefaultDimensions)
	v.SetDefault("embedding.cache", true)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", scoring.FeedbackTimeout)
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 2000)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional; defaults and environment are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			cobra.CheckErr(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}

	if config.ExcludeFile != "" && config.Filters.ExcludeFile == "" {
		config.Filters.ExcludeFile = config.ExcludeFile
	}
	config.Scoring.LLMEnabled = config.AI != nil && config.AI.Enabled

	return config, nil
}

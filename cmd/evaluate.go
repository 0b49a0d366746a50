package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
	"github.com/CSharon27/Resume-Evalution-System/internal/filtering"
	"github.com/CSharon27/Resume-Evalution-System/internal/logger"
	"github.com/CSharon27/Resume-Evalution-System/internal/records"
	"github.com/CSharon27/Resume-Evalution-System/internal/report"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptSummary             = "Show summary"
	PromptReportByVerdict     = "Report by verdict"
	PromptCandidateDetails    = "Show candidate details"
	PromptResultsToFile       = "Dump results to file"
	PromptExportExcel         = "Export to Excel"
	PromptAppendToExcludeFile = "Append shown candidates to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
	defaultExcelReport        = "evaluation_report.xlsx"
)

var errExit = errors.New("exit requested")

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate resumes against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		evaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().String("job", "", "job description file (json or yaml)")
	evaluateCmd.Flags().String("resumes", "", "resume file or directory with resume files")
	evaluateCmd.Flags().BoolP("auto-approve", "y", false, "print the ranking and exit without the interactive menu")
	evaluateCmd.Flags().IntP("concurrency", "c", 0, "number of resumes evaluated in parallel (overrides scoring.concurrency)")
	evaluateCmd.Flags().StringP("exclude-file", "e", "", "file with candidates to exclude. Default is unset.")
	evaluateCmd.Flags().String("output", "", "write the results as JSON to this file")
	evaluateCmd.Flags().Float64("minimum-score", 0, "drop candidates below this relevance score")
	evaluateCmd.Flags().StringSlice("disable-filter", nil, "filter steps to skip (exclude_file, evaluation_errors, minimum_score, verdict)")

	viper.BindPFlag("exclude-file", evaluateCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.minimum-score", evaluateCmd.Flags().Lookup("minimum-score"))

	evaluateCmd.MarkFlagRequired("job")
	evaluateCmd.MarkFlagRequired("resumes")
}

// evaluate is the main command for the cli.
func evaluate(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
		config.Scoring.Concurrency = concurrency
	}

	logger.Info("starting the resume-evaluator", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	jobPath, _ := cmd.Flags().GetString("job")
	job, err := records.LoadJobFile(jobPath)
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err))
	}

	resumesPath, _ := cmd.Flags().GetString("resumes")
	resumes, err := records.LoadResumes(resumesPath, logger)
	if err != nil {
		logger.Fatal("loading resumes", zap.Error(err))
	}

	logger.Info("loaded resumes", zap.Int("count", resumes.Len()), zap.String("job_id", job.ID))

	if resumes.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes found"))
		return
	}

	evaluator, err := newEvaluator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the evaluator", zap.Error(err))
	}

	results := &evaluation.Results{Items: evaluator.BatchEvaluate(ctx, resumes.Items, job)}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := report.WriteJSON(output, report.NewDump(job.ID, results)); err != nil {
			logger.Fatal("writing results", zap.Error(err))
		}
		logger.Info("results written", zap.String("filename", output))
	}

	steps := filtering.Default()
	disabled, _ := cmd.Flags().GetStringSlice("disable-filter")
	for _, name := range disabled {
		filtering.DisableByName(steps, name, "disabled by flag")
	}
	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter configured",
			zap.String("filter", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	filtered, err := filtering.Run(ctx, &config.Filters, filtering.Deps{Logger: logger}, steps, results)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	results = filtered

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	printRanking(logger, filtering.Rank(results))

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove {
		return
	}

	for {
		items := []string{PromptSummary, PromptReportByVerdict, PromptCandidateDetails, PromptResultsToFile, PromptExportExcel}
		if config.Filters.ExcludeFile != "" && results.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		prompt := promptui.Select{
			Label: "What next?",
			Items: append(items, PromptExit),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of candidates", zap.Int("count", results.Len()))

		if err := handleAction(action, logger, config, job, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, job *records.JobRecord, results *evaluation.Results) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptSummary:
		pretty, _ := json.MarshalIndent(evaluation.Summarize(results.Items), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", results.Len()))
		return nil
	case PromptReportByVerdict:
		pretty, _ := json.MarshalIndent(filtering.ReportByVerdict(filtering.Rank(results)), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", results.Len()))
		return nil
	case PromptCandidateDetails:
		return candidateDetails(logger, results)
	case PromptResultsToFile:
		filename, err := report.DumpToTmpFile(report.NewDump(job.ID, results))
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExportExcel:
		filename, err := report.WriteExcel(defaultExcelReport, jobTitle(job), filtering.Rank(results))
		if err != nil {
			return fmt.Errorf("export to excel: %w", err)
		}
		logger.Info("excel report written", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, config.Filters.ExcludeFile, results)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func candidateDetails(logger *zap.Logger, results *evaluation.Results) error {
	for {
		ranked := filtering.Rank(results)
		items := make([]string, 0, len(ranked)+1)
		for _, r := range ranked {
			items = append(items, fmt.Sprintf("%s %s / %.2f / %s", r.ResumeID, r.Name, r.RelevanceScore, r.Verdict))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		idx, _, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		result, ok := selectedCandidate(ranked, idx)
		if !ok {
			return nil
		}

		pretty, _ := json.MarshalIndent(result, "", "  ")
		logger.Info(string(pretty), zap.String("resume_id", result.ResumeID))
	}
}

// selectedCandidate maps a menu index to a ranked candidate. Any index past
// the candidates is the back entry.
func selectedCandidate(ranked []filtering.RankedResult, idx int) (*evaluation.EvaluationResult, bool) {
	if idx < 0 || idx >= len(ranked) {
		return nil, false
	}
	return ranked[idx].EvaluationResult, true
}

func appendToExcludeFile(logger *zap.Logger, path string, results *evaluation.Results) error {
	excluded, err := filtering.GetExcludedFromFile(path)
	if err != nil {
		return err
	}

	excluded.Append(filtering.ToExcluded(results, "reviewed"))

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", path))

	results.Keep(func(item *evaluation.EvaluationResult) bool {
		return !excluded.Excludes(item)
	})
	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left"))
		return errExit
	}
	return nil
}

func printRanking(logger *zap.Logger, ranked []filtering.RankedResult) {
	for _, r := range ranked {
		fields := []zap.Field{
			zap.Int("rank", r.Position),
			zap.String("resume_id", r.ResumeID),
			zap.Float64("relevance_score", r.RelevanceScore),
			zap.Float64("hard_match_score", r.HardMatchScore),
			zap.Float64("semantic_match_score", r.SemanticMatchScore),
			zap.String("verdict", string(r.Verdict)),
			zap.Strings("missing_skills", r.MissingSkills),
		}
		if r.Failed() {
			fields = append(fields, zap.String("error", r.Error))
		}
		logger.Info(r.Name, fields...)
	}
}

func jobTitle(job *records.JobRecord) string {
	if job.Title != "" {
		return job.Title
	}
	return job.ID
}

// redacted returns a copy of the config safe to log.
func redacted(config *Config) *Config {
	if config == nil || config.AI == nil || config.AI.Gemini == nil || config.AI.Gemini.APIKey == "" {
		return config
	}
	copied := *config
	ai := *config.AI
	gcfg := *config.AI.Gemini
	gcfg.APIKey = "***"
	ai.Gemini = &gcfg
	copied.AI = &ai
	return &copied
}

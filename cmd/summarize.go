package cmd

import (
	"encoding/json"
	"log"

	"github.com/CSharon27/Resume-Evalution-System/internal/evaluation"
	"github.com/CSharon27/Resume-Evalution-System/internal/filtering"
	"github.com/CSharon27/Resume-Evalution-System/internal/logger"
	"github.com/CSharon27/Resume-Evalution-System/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <results.json>",
	Short: "Print summary statistics of a saved evaluation run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		summarize(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().Bool("ranking", false, "also print the ranked candidates")
	summarizeCmd.Flags().String("excel", "", "export the saved results to this Excel file")
}

func summarize(cmd *cobra.Command, path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	dump, err := report.ReadJSON(path)
	if err != nil {
		logger.Fatal("reading results", zap.Error(err))
	}

	results := &evaluation.Results{Items: dump.Results}
	pretty, _ := json.MarshalIndent(evaluation.Summarize(results.Items), "", "  ")
	logger.Info(string(pretty), zap.String("job_id", dump.JobID), zap.String("filename", path))

	if ranking, _ := cmd.Flags().GetBool("ranking"); ranking {
		printRanking(logger, filtering.Rank(results))
	}

	if excel, _ := cmd.Flags().GetString("excel"); excel != "" {
		filename, err := report.WriteExcel(excel, dump.JobID, filtering.Rank(results))
		if err != nil {
			logger.Fatal("export to excel", zap.Error(err))
		}
		logger.Info("excel report written", zap.String("filename", filename))
	}
}

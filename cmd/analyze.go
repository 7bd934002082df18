package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/analytics"
	"github.com/spigell/comp-forecast/internal/logger"
)

const (
	PromptPrintReport          = "Print full report"
	PromptPrintRecommendations = "Print recommendations"
	PromptPrintMarket          = "Print market positioning"
	PromptReportToFile         = "Dump report to file"
	PromptExit                 = "Exit"
)

var errExit = errors.New("exit requested")

var analyzePrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptPrintReport, PromptPrintRecommendations, PromptPrintMarket, PromptReportToFile, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze salary history, negotiations and market positioning",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("jobs", "", "JSON or YAML file with jobs (default is the configured database)")
	analyzeCmd.Flags().StringP("user", "u", "", "user id to analyze")
	analyzeCmd.Flags().BoolP("auto-approve", "y", false, "print the report without the interactive menu")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug"), Stderr: true})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	benchmarks, err := loadBenchmarks(config)
	if err != nil {
		logger.Fatal("loading benchmarks", zap.Error(err))
	}

	jobsPath, _ := cmd.Flags().GetString("jobs")
	userID, _ := cmd.Flags().GetString("user")

	source, closer, err := newSource(ctx, config, jobsPath, logger)
	if err != nil {
		logger.Fatal("opening job source", zap.Error(err))
	}
	defer closer.Close()

	jobs, err := source.Jobs(ctx, userID)
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err), zap.String("user_id", userID))
	}

	report := analytics.Build(jobs, benchmarks)
	logger.Info("salary analytics ready",
		zap.Int("jobs", len(jobs)),
		zap.Int("recommendations", len(report.Recommendations)),
	)

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := analyzePrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAnalyzeAction(cmd, action, logger, &report); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAnalyzeAction(cmd *cobra.Command, action string, logger *zap.Logger, report *analytics.Report) error {
	out := cmd.OutOrStdout()

	switch action {
	case PromptPrintReport:
		return writeJSON(out, report)
	case PromptPrintRecommendations:
		for idx, rec := range report.Recommendations {
			fmt.Fprintf(out, "%d. %s\n", idx+1, rec)
		}
		return nil
	case PromptPrintMarket:
		return writeJSON(out, report.MarketPositioning)
	case PromptReportToFile:
		filename, err := dumpToTmpFile("salary_analytics_*.json", report)
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

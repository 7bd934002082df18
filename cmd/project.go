package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/enrichment"
	"github.com/spigell/comp-forecast/internal/logger"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project five and ten year compensation for a set of jobs",
	Run: func(cmd *cobra.Command, _ []string) {
		project(cmd)
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().String("jobs", "", "JSON or YAML file with jobs, or with a whole {jobs, inputs} request")
	projectCmd.Flags().String("inputs", "", "JSON or YAML file with projection inputs")
	projectCmd.MarkFlagRequired("jobs")
}

func project(cmd *cobra.Command) {
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

	jobsPath, _ := cmd.Flags().GetString("jobs")
	inputsPath, _ := cmd.Flags().GetString("inputs")

	jobs, inputs, err := readProjectionFiles(jobsPath, inputsPath)
	if err != nil {
		logger.Fatal("reading projection request", zap.Error(err))
	}

	logger.Info("projecting compensation", zap.Int("jobs", len(jobs)), zap.String("version", version))

	adapter := enrichment.New(advisorOrNil(ctx, config, logger), nil, logger)
	result := adapter.Project(ctx, &enrichment.Request{Jobs: jobs, Inputs: inputs})

	logger.Info("projection ready", zap.String("source", string(result.Assumptions.Source)))

	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		logger.Fatal("writing projection", zap.Error(err))
	}
}

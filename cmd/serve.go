package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/comp-forecast/internal/enrichment"
	"github.com/spigell/comp-forecast/internal/logger"
	"github.com/spigell/comp-forecast/internal/metrics"
	"github.com/spigell/comp-forecast/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection and analytics HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("address", "", "listen address (default :8080)")
	serveCmd.Flags().String("jobs", "", "serve analytics from a JSON or YAML file keyed by user id instead of the database")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the comp-forecast api", zap.String("version", version))

	benchmarks, err := loadBenchmarks(config)
	if err != nil {
		logger.Fatal("loading benchmarks", zap.Error(err))
	}

	jobsPath, _ := cmd.Flags().GetString("jobs")
	source, closer, err := newSource(ctx, config, jobsPath, logger)
	if err != nil {
		logger.Fatal("opening job source", zap.Error(err))
	}
	defer closer.Close()

	m := metrics.New()
	adapter := enrichment.New(advisorOrNil(ctx, config, logger), m, logger)

	srvCfg := server.Config{Benchmarks: benchmarks}
	if config.Server != nil {
		srvCfg.Address = config.Server.Address
		srvCfg.EnrichmentTimeout = config.Server.EnrichmentTimeout
	}

	if err := server.New(srvCfg, adapter, source, m, logger).Run(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}

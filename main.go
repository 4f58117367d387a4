package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"k8sgrader/internal/config"
	"k8sgrader/internal/content"
	"k8sgrader/internal/grader"
	"k8sgrader/internal/logger"
	"k8sgrader/internal/report"
	"k8sgrader/internal/runner"
	"k8sgrader/internal/server"
	"k8sgrader/internal/storage"
	"k8sgrader/internal/workspace"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := logger.InitLogger(cfg.LogConfig); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	library, err := content.Load(cfg.ContentConfig.GamesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load game definitions")
	}

	store, err := storage.NewRedisStore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to storage")
	}
	defer store.Close()

	publisher, err := report.NewS3Publisher(ctx, cfg.ReportConfig.Bucket,
		time.Duration(cfg.ReportConfig.URLExpiryMins)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create report publisher")
	}

	g := grader.New(
		store,
		library,
		workspace.New(cfg.WorkspaceConfig.Dir),
		runner.NewExecRunner(cfg.RunnerConfig.Command),
		publisher,
	)

	srv := server.New(g, store)
	if err := srv.ListenAndServe(ctx, cfg.ServerConfig.Addr); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

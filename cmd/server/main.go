package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeycarbs/offerscout/internal/config"
	"github.com/honeycarbs/offerscout/internal/mcp"
	"github.com/honeycarbs/offerscout/internal/scheduler"
	"github.com/honeycarbs/offerscout/pkg/logging"
	"github.com/honeycarbs/offerscout/pkg/shutdown"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	res, cleanup, err := mcp.InitializeResources(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize resources", "err", err)
		os.Exit(1)
	}

	srv := mcp.NewServer(logger, cfg, res)

	components := []shutdown.Stoppable{srv}
	if cfg.RefreshSchedule != "" {
		sched := scheduler.New(res.JobService, cfg.RefreshSchedule, scheduler.DefaultBatch, logger)
		if err := sched.Start(); err != nil {
			logger.Error("failed to start refresh scheduler", "err", err)
			cleanup()
			os.Exit(1)
		}
		components = append(components, sched)
	}
	components = append(components, shutdown.Func(func(context.Context) error {
		cleanup()
		return nil
	}))

	sigCtx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer stop()

	done := shutdown.Graceful(sigCtx, 10*time.Second, logger, components...)

	runErr := srv.Run()
	if runErr != nil {
		logger.Error("MCP server exited with error", "err", runErr)
		// release the scheduler and stores even though no signal came
		stop()
	}

	// Run returns as soon as Shutdown begins; wait for the remaining components
	<-done
	logger.Info("MCP server stopped")

	if runErr != nil {
		_ = logger.Sync()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"daily-steps-service/internal/config"
	"daily-steps-service/internal/controller"
	"daily-steps-service/internal/db"
	httpserver "daily-steps-service/internal/http"
	"daily-steps-service/internal/logger"
	"daily-steps-service/internal/repository"
	"daily-steps-service/internal/service"
	"daily-steps-service/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	policy, err := service.ParseReductionPolicy(cfg.ReductionPolicy)
	if err != nil {
		logg.WithError(err).Fatal("invalid reduction policy")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		stepRepo        repository.StepRepository
		deltaController controller.DeltaController
		deltaWorker     service.BatchDeltaWorker
	)

	switch cfg.StepSource {
	case config.SourceClickHouse:
		conn, err := db.NewConnection(ctx, cfg, logg)
		if err != nil {
			logg.WithError(err).Fatal("connect clickhouse")
		}
		defer conn.Close()

		if err := db.RunMigrations(ctx, conn); err != nil {
			logg.WithError(err).Fatal("migrate")
		}

		repo := repository.NewClickHouseRepository(conn)
		stepRepo = repo
		deltaWorker = service.NewBatchDeltaWorker(repo, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery, logg)
		deltaController = controller.NewDeltaController(service.NewDeltaService(deltaWorker, cfg.FutureTolerance))
	case config.SourceGoogleFit:
		client := &fasthttp.Client{
			Name:                "daily-steps-service",
			MaxConnsPerHost:     16,
			ReadTimeout:         cfg.FetchTimeout,
			WriteTimeout:        cfg.FetchTimeout,
			MaxIdleConnDuration: time.Minute,
		}
		stepRepo = repository.NewGoogleFitRepository(client, repository.GoogleFitOptions{
			BaseURL:      cfg.GoogleFitBaseURL,
			AccessToken:  cfg.GoogleFitAccessToken,
			DataSourceID: cfg.GoogleFitDataSource,
			Timeout:      cfg.FetchTimeout,
		})
	}

	st := store.NewDailyStepStore(cfg.SortDescending)
	pipeline := service.NewAggregationPipeline(stepRepo, st, service.LogListener{Log: logg}, logg, service.PipelineOptions{
		FetchTimeout: cfg.FetchTimeout,
		Policy:       policy,
	})
	refresher := service.NewRefreshWorker(pipeline, cfg.RefreshInterval, logg)

	server := httpserver.NewServer(cfg, controller.NewStepController(pipeline), deltaController)

	errCh := make(chan error, 1)
	go func() {
		logg.WithFields(logrus.Fields{
			"addr":   cfg.HTTPPort,
			"source": cfg.StepSource,
		}).Info("starting server")
		errCh <- server.Listen(cfg.HTTPPort)
	}()

	select {
	case <-ctx.Done():
		logg.Info("shutdown requested")
	case err := <-errCh:
		if err != nil {
			logg.WithError(err).Error("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.WithError(err).Error("shutdown server")
	}
	refresher.Shutdown()
	if deltaWorker != nil {
		deltaWorker.Shutdown()
	}
	logg.Info("bye")
}

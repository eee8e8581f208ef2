package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-reviews/internal/config"
	httpAPI "github.com/iyhunko/product-reviews/internal/http"
	"github.com/iyhunko/product-reviews/internal/http/controller"
	"github.com/iyhunko/product-reviews/internal/logger"
	"github.com/iyhunko/product-reviews/internal/metrics"
	"github.com/iyhunko/product-reviews/internal/repository/sql"
	"github.com/iyhunko/product-reviews/internal/service"
	sqspkg "github.com/iyhunko/product-reviews/internal/sqs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)
	logger.InitJSONLogger(conf.DebugMode)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)
	if err := metrics.RegisterDBStats(db, "reviews"); err != nil {
		slog.Warn("failed to register DB stats collector", slog.Any("err", err))
	}

	// Create repositories
	productRepository := sql.NewProductRepository(db)
	reviewRepository := sql.NewReviewRepository(db)

	var writer service.ReviewWriter = reviewRepository
	var outboxWorker *service.OutboxWorker
	if conf.AWS.EventsEnabled() {
		sqsClient, err := sqspkg.NewClient(ctx, conf.AWS)
		handleErr("creating SQS client", err)
		publisher := sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)

		// Reviews and their events are written in one transaction
		writer = sql.NewTransactionalRepository(db)
		outboxWorker = service.NewOutboxWorker(sql.NewEventRepository(db), publisher, conf.Outbox.Interval)
		go outboxWorker.Start(ctx)
	}

	reviewService := service.NewReviewService(productRepository, reviewRepository, writer)

	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAPI.InitRouter(gin.New(),
		controller.New(conf, db),
		controller.NewReviewController(reviewService))

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port), slog.String("env", conf.Environment))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metricsServer := metrics.StartMetricsServer(conf)

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to stop HTTP server", slog.Any("err", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to stop metrics server", slog.Any("err", err))
	}
	if outboxWorker != nil {
		outboxWorker.Stop()
	}
	if err := db.Close(); err != nil {
		slog.Error("failed to close database", slog.Any("err", err))
	}
	slog.Info("Application terminated gracefully")
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/iyhunko/product-reviews/internal/config"
	"github.com/iyhunko/product-reviews/internal/logger"
	"github.com/iyhunko/product-reviews/internal/repository/sql"
	"github.com/iyhunko/product-reviews/internal/seed"
)

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)
	logger.InitJSONLogger(conf.DebugMode)

	ctx := context.Background()
	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)
	defer db.Close()

	seeder := seed.New(sql.NewProductRepository(db), sql.NewReviewRepository(db))
	if _, err := seeder.Run(ctx); err != nil {
		slog.Error("error while seeding database", slog.Any("err", err))
		_ = db.Close()
		os.Exit(1)
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"popcorn/proj/internal/api/tasks"
	"popcorn/proj/internal/config"
	"popcorn/proj/internal/lib/logger"
	"popcorn/proj/internal/storage/mongodb"
)

const version = "1.0.0"

func main() {
	godotenv.Load()
	cfgPath := flag.String("config", "config/local.yml", "path to config file")

	flag.Parse()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout)
	defer cancel()
	storage, err := mongodb.New(ctx, cfg.DB.URI, cfg.DB.Name)
	if err != nil {
		panic(err)
	}
	defer storage.Close(context.Background())
	if err := storage.EnsureIndexes(ctx); err != nil {
		panic(err)
	}
	log.Info("database connection established", "db", cfg.DB.Name)
	bgTasks := tasks.New(log, cfg.Tasks.MaxWorkers, cfg.Tasks.MaxQueueSize)
	bgTasks.Run()
	app := NewApplication(cfg, log, storage, bgTasks)
	if err := app.serve(); err != nil {
		log.Error("server stopped with error", "reason", err.Error())
	}
}

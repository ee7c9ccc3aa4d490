package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/database"
	"movie-catalog/internal/logger"
	"movie-catalog/internal/router"
	"movie-catalog/internal/seed"
	"movie-catalog/internal/session"

	"go.uber.org/zap"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLog, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	// init database; an unreachable store aborts startup
	db, err := database.Init(cfg.Database)
	if err != nil {
		zapLog.Fatal("init database", zap.Error(err))
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		zapLog.Fatal("migrate database", zap.Error(err))
	}

	// seed empty stores before accepting traffic
	if err := seed.Run(db, cfg.Security.BcryptCost, zapLog); err != nil {
		zapLog.Fatal("seed database", zap.Error(err))
	}

	// background purge of expired sessions
	sessions := session.NewStore(db, time.Duration(cfg.Session.IdleMinutes)*time.Minute)
	session.StartCleaner(context.Background(), sessions, time.Hour, zapLog)

	// setup router
	r := router.SetupRouter(cfg, db, zapLog)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	zapLog.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zapLog.Fatal("run server", zap.Error(err))
	}
}

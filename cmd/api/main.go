package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-erp-admin/internal/config"
	"go-erp-admin/internal/model"
	"go-erp-admin/internal/server"
	"go-erp-admin/internal/ws"
	"go-erp-admin/pkg/database"
	"go-erp-admin/pkg/session"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := config.NewLogger(cfg)

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN(), log)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	// Schema is managed by AutoMigrate; there is no separate migration step.
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		log.WithError(err).Fatal("migrate schema")
	}

	// 3. Session store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Fatal("connect redis")
	}

	// 4. WebSocket hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	deps := server.Deps{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Redis:    rdb,
		Sessions: session.NewStore(rdb, cfg.SessionTTL),
		Hub:      hub,
	}

	// 5. Seed default privileges, roles, and admin user
	if err := server.Seed(deps); err != nil {
		log.WithError(err).Fatal("seed defaults")
	}

	app := server.NewApp(deps)

	// 6. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("listen")
		}
	}()
	log.WithField("port", cfg.Port).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	stop()
	if err := rdb.Close(); err != nil {
		log.WithError(err).Warn("close redis")
	}
	if err := database.Close(db); err != nil {
		log.WithError(err).Warn("close database")
	}
	log.Info("server exited")
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samedayramps/tiny-church-app/internal/api"
	"github.com/samedayramps/tiny-church-app/internal/auth"
	"github.com/samedayramps/tiny-church-app/internal/config"
	"github.com/samedayramps/tiny-church-app/internal/directory"
	"github.com/samedayramps/tiny-church-app/internal/mailer"
	"github.com/samedayramps/tiny-church-app/internal/pkg/logger"
	"github.com/samedayramps/tiny-church-app/internal/repository/postgres"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
	"github.com/samedayramps/tiny-church-app/internal/worker"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logger.DEBUG)
	}

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Sessions live in Redis, so the API process cannot run without it.
	if cfg.Redis.Addr == "" {
		log.Fatal("redis: addr is required, sessions are Redis-backed")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	mail, err := buildMailer(cfg)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	store := directory.NewStore(db)
	logs := postgres.NewEmailLogRepo(db)
	dispatcher := messaging.NewDispatcher(logs, mail, cfg.Email.SenderName, cfg.Email.SenderEmail)
	msg := messaging.NewService(logs, store, dispatcher)
	sessions := auth.NewManager(rdb, cfg.Auth)

	sweeper := worker.NewSweeper(msg, rdb, db, cfg.Messaging.SweepInterval())
	if err := sweeper.Start(); err != nil {
		log.Fatalf("sweeper: %v", err)
	}
	defer sweeper.Stop()

	reminders := worker.NewReminders(store, msg, rdb, db, 24*time.Hour)
	if err := reminders.Start(); err != nil {
		log.Fatalf("reminders: %v", err)
	}
	defer reminders.Stop()

	server := api.NewServer(cfg.Server, store, msg, sessions, cfg.Messaging.ServiceToken)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("server: %v", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err.Error())
	}
}

func buildMailer(cfg *config.Config) (mailer.Mailer, error) {
	switch cfg.Email.Provider {
	case "ses":
		return mailer.NewSESMailer(context.Background(), cfg.Email.SES)
	case "smtp":
		return mailer.NewSMTPMailer(cfg.Email.SMTP)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}
}

// Headless worker process for deployments that run delivery retries
// and event reminders outside the API process. Point it at the same
// database and Redis; the per-worker locks keep it from overlapping
// with the in-server workers.
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

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Without Redis the workers fall back to PG advisory locks.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
	} else {
		logger.Info("redis not configured, worker locks use PG advisory locks")
	}

	mail, err := buildMailer(cfg)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	store := directory.NewStore(db)
	logs := postgres.NewEmailLogRepo(db)
	dispatcher := messaging.NewDispatcher(logs, mail, cfg.Email.SenderName, cfg.Email.SenderEmail)
	msg := messaging.NewService(logs, store, dispatcher)

	sweeper := worker.NewSweeper(msg, rdb, db, cfg.Messaging.SweepInterval())
	if err := sweeper.Start(); err != nil {
		log.Fatalf("sweeper: %v", err)
	}
	reminders := worker.NewReminders(store, msg, rdb, db, 24*time.Hour)
	if err := reminders.Start(); err != nil {
		log.Fatalf("reminders: %v", err)
	}

	logger.Info("workers running", "sweep_interval", cfg.Messaging.SweepInterval().String())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	reminders.Stop()
	sweeper.Stop()
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

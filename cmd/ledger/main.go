package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront/internal/config"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/ledger"
	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.LedgerWorkers)
	if err != nil {
		log.Fatal("db connect", "err", err)
	}
	defer db.Close()

	repo := &ledger.Repo{DB: db}
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("ensure ledger schema", "err", err)
	}

	svc := &ledger.Service{Repo: repo, Log: log.With("component", "ledger")}

	// Redis dedup is a fast path; the table's primary key stays the authority.
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := redisx.Ping(ctx, rdb); err != nil {
			log.Warn("redis unavailable, dedup by primary key only", "addr", cfg.RedisAddr, "err", err)
		} else {
			svc.Dedup = &ledger.RedisDedup{Redis: rdb, Service: cfg.ServiceName + "-ledger"}
		}
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.LedgerGroup, cfg.SubmissionTopic, cfg.LedgerWorkers, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("ledger consumer started", "group", cfg.LedgerGroup, "topic", cfg.SubmissionTopic, "workers", cfg.LedgerWorkers)
		if err := cons.Start(ctx, svc.HandleSubmission); err != nil {
			log.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumer")
	case <-ctx.Done():
	}
	cancel()
	<-done
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/gateway"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/refcache"
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

	loc, err := time.LoadLocation(cfg.AppointmentTZ)
	if err != nil {
		log.Fatal("load appointment timezone", "tz", cfg.AppointmentTZ, "err", err)
	}

	// Reference cache: redis when reachable, in-process otherwise.
	var store refcache.Store = refcache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := redisx.Ping(ctx, rdb); err != nil {
			log.Warn("redis unavailable, caching in memory", "addr", cfg.RedisAddr, "err", err)
		} else {
			store = refcache.NewRedisStore(rdb)
		}
	}

	gw := gateway.New(cfg.APIBaseURL, gateway.WithTimeout(cfg.APITimeout), gateway.WithLogger(log))

	api := &httpx.API{
		Gateway:  gw,
		Catalog:  refcache.New(store, cfg.CatalogTTL, log).WithSource(gw),
		Wizards:  httpx.NewRegistry(cfg.WizardIdleTTL, log),
		Location: loc,
		LoginURL: cfg.LoginURL,
		Log:      log.With("component", "http"),
	}

	// Kafka producer for submission outcomes
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, cfg.SubmissionTopic, 1024, log)
		prod.Start(ctx)
		api.Events = kafkax.NewEmitter(prod, cfg.ServiceName)
	} else {
		log.Warn("KAFKA_BROKERS empty, submission events are dropped")
	}

	go api.Wizards.Run(ctx)

	router := httpx.NewRouter(cfg.CORSOrigins, cfg.APITimeout+5*time.Second)
	api.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr, "upstream", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", "err", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // flush buffered events, then close the writer
		prod.WaitClosed()
	}
	cancel()
}

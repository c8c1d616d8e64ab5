package main

import (
	"context"
	"errors"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/config"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/events"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/frames"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/router"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/kafka/producer"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/handlers/slogpretty"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage/filesystem"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	shutdownTimeout = 10 * time.Second
)

//	@title			KissCam API
//	@version		1.0
//	@description	Photo booth image store: upload, list, read and delete event photos.
//	@BasePath		/

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting kisscam server", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	storageDir, err := cfg.Storage.ResolvedDir()
	if err != nil {
		log.Error("failed to resolve storage dir", sl.Err(err))
		os.Exit(1)
	}

	store, err := filesystem.New(storageDir, cfg.Storage.MaxUploadBytes())
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	log.Info("storage ready",
		slog.String("dir", store.Dir()),
		slog.Float64("max_upload_mb", cfg.Storage.MaxUploadMegabytes()),
	)

	if cfg.UploadToken == "" {
		log.Warn("UPLOAD_TOKEN is empty, uploads and deletes will be rejected")
	}

	catalog := frames.Default()
	if cfg.Frames.Dir != "" {
		catalog, err = frames.FromDir(cfg.Frames.Dir)
		if err != nil {
			log.Error("failed to load frames", sl.Err(err))
			os.Exit(1)
		}
		log.Info("frames loaded from dir", slog.String("dir", cfg.Frames.Dir))
	}

	var publisher events.Publisher = events.Nop{}

	var kafkaProducer *producer.Producer
	if cfg.Kafka.Enabled() {
		kafkaProducer, err = producer.NewProducer(&cfg.Kafka, log)
		if err != nil {
			log.Error("failed to create kafka producer", sl.Err(err))
			os.Exit(1)
		}
		publisher = kafkaProducer
		log.Info("publishing image events", slog.String("topic", cfg.Kafka.Topic))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := &http.Server{
		Addr: cfg.HTTPServer.Address,
		Handler: router.New(router.Deps{
			Log:            log,
			Store:          store,
			Catalog:        catalog,
			Publisher:      publisher,
			Registry:       registry,
			UploadToken:    cfg.UploadToken,
			MaxUploadBytes: store.MaxUploadBytes(),
		}),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sign := <-stop:
		log.Info("application stopping", slog.String("signal", sign.String()))
	case err = <-serverErr:
		log.Error("failed to start server", sl.Err(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(ctx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
	}

	if kafkaProducer != nil {
		if err = kafkaProducer.Close(); err != nil {
			log.Error("failed to close kafka producer", sl.Err(err))
		}
		log.Info("kafka connection closed")
	}

	log.Info("application stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}

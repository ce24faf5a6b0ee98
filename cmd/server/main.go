package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/novasolutions/novainvoice/internal/assistant"
	"github.com/novasolutions/novainvoice/internal/config"
	"github.com/novasolutions/novainvoice/internal/handlers"
	"github.com/novasolutions/novainvoice/internal/store"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration from environment
	cfg := config.Load()

	kv, err := openKV(cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("could not open storage")
	}

	s := store.Open(kv, cfg.Storage.Key, log)
	settings := handlers.NewSettings(cfg.Company)
	gateway := assistant.New(cfg.Assistant.URL, time.Duration(cfg.Assistant.Timeout)*time.Second, log)

	app := NewApp(s, settings, gateway, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server stopped gracefully")
}

// openKV selects the persistence backend from config.
func openKV(cfg config.StorageConfig) (store.KV, error) {
	switch cfg.Driver {
	case "file":
		return store.NewFileKV(cfg.Dir), nil
	case "sqlite":
		return store.OpenSQLiteKV(cfg.Path)
	case "postgres":
		return store.OpenPostgresKV(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

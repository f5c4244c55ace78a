package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crave/config"
	"crave/internal/database"
	"crave/internal/logger"
	"crave/internal/queue"
	"crave/internal/router"
	"crave/internal/service"
	"crave/pkg/payment"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Server.LogLevel)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	if err := database.SeedFees(db); err != nil {
		log.WithError(err).Fatal("fee seeding failed")
	}

	var publisher service.EventPublisher
	if p, err := queue.New(cfg.Rabbit, log); err != nil {
		log.WithError(err).Warn("queue unavailable, notifications will only be recorded")
	} else {
		publisher = p
		defer p.Close()
	}

	engine := router.Setup(cfg, db, log, publisher, &payment.StubProvider{})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server shutdown failed")
	}
	log.Info("server stopped")
}

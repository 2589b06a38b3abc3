package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"matka/api"
	"matka/application"
	"matka/config"
	"matka/database"
	"matka/domain/interfaces"
	"matka/infrastructure"
	"matka/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	cfg := config.Get()
	log.WithField("environment", cfg.Environment).Info("Starting matka settlement service")

	if err := database.MigrateUp(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations applied")

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	var eventPublisher interfaces.EventPublisher
	natsPublisher, err := infrastructure.NewNATSEventPublisher(cfg.NATSServers)
	if err != nil {
		// The engine settles fine without a notifier; events just go nowhere
		log.WithError(err).Warn("NATS unavailable, events will be dropped")
		eventPublisher = infrastructure.NewNoopEventPublisher()
	} else {
		eventPublisher = natsPublisher
		defer natsPublisher.Close()
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewTransactionalPublisher(eventPublisher)
	})

	app := application.New(uowFactory)
	server := api.NewServer(app)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		errCh <- server.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")

	shutdownDone := make(chan struct{})
	go func() {
		if err := server.Shutdown(); err != nil {
			log.WithError(err).Error("Error shutting down HTTP server")
		}
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		log.Info("Shutdown completed")
	case <-time.After(10 * time.Second):
		log.Warn("Shutdown timeout exceeded")
	}

	return nil
}

package consumers

import (
	"context"
	"log/slog"

	"tourops/internal/cache"
	"tourops/internal/config"
	"tourops/internal/database"
	"tourops/internal/external"
	"tourops/internal/messaging"
	"tourops/internal/repository"
)

// ConsumerService runs the NATS subscribers that fan scheduling events out
// to the ops notifier and keep the shared availability cache honest.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		slog.Warn("Valkey unavailable, cache invalidation disabled", "error", err)
		valkeyClient = nil
	}

	repos := repository.NewRepositories(db)
	notifierClient := external.NewNotifierClient(cfg.Notifier)

	handlers := NewHandlers(repos, notifierClient, valkeyClient)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue("assignment.created", "consumers", cs.handlers.HandleAssignmentCreated); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue("assignment.confirmed", "consumers", cs.handlers.HandleAssignmentConfirmed); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue("assignment.deleted", "consumers", cs.handlers.HandleAssignmentDeleted); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue("seat.assigned", "consumers", cs.handlers.HandleSeatAssigned); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue("seat.released", "consumers", cs.handlers.HandleSeatReleased); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue("seat.bulk_assigned", "consumers", cs.handlers.HandleSeatsBulkAssigned); err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}

package events

import (
	"context"
	"encoding/json"

	"github.com/covelotage/service-matching/internal/platform/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RouteRemover deletes every route owned by a user. Implemented by the route
// application service.
type RouteRemover interface {
	DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// UserEventConsumer listens to identity-service events and removes routes of
// deleted accounts.
type UserEventConsumer struct {
	consumer *kafka.Consumer
	remover  RouteRemover
	logger   *zap.Logger
}

// NewUserEventConsumer creates a new UserEventConsumer.
func NewUserEventConsumer(brokers []string, groupID string, remover RouteRemover, logger *zap.Logger) *UserEventConsumer {
	return &UserEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicUserEvents, logger),
		remover:  remover,
		logger:   logger,
	}
}

// Start begins consuming user events. This blocks until the context is
// cancelled.
func (c *UserEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *UserEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *UserEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var event kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("failed to parse cloud event from user topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	if event.Type != UserDeleted {
		c.logger.Debug("ignoring unhandled user event type", zap.String("type", event.Type))
		return nil
	}

	var deleted UserDeletedEvent
	if err := event.ParseData(&deleted); err != nil {
		c.logger.Error("failed to parse UserDeletedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	removed, err := c.remover.DeleteAllForOwner(ctx, deleted.UserID)
	if err != nil {
		c.logger.Error("failed to delete routes for deleted user",
			zap.String("user_id", deleted.UserID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("removed routes for deleted user",
		zap.String("user_id", deleted.UserID.String()),
		zap.Int64("removed", removed),
	)
	return nil
}

package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(log *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: log}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"name":          event.Name,
		"email":         logger.MaskEmail(event.Email),
		"phone_count":   event.PhoneCount,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishUserUpdated logs user.updated events.
func (p *StubPublisher) PublishUserUpdated(_ context.Context, event domain.UserUpdatedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"name":       event.Name,
		"email":      logger.MaskEmail(event.Email),
		"updated_at": event.UpdatedAt,
	}
	p.logEvent("user.updated", event.UserID, event.UpdatedAt, payload)
	return nil
}

// PublishUserDeleted logs user.deleted events.
func (p *StubPublisher) PublishUserDeleted(_ context.Context, event domain.UserDeletedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"deleted_at": event.DeletedAt,
	}
	p.logEvent("user.deleted", event.UserID, event.DeletedAt, payload)
	return nil
}

package port

import (
	"context"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
)

// EventPublisher emits user lifecycle events. Publishing is best effort:
// services log failures and never roll back a completed mutation because a
// broker was unavailable.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserUpdated(ctx context.Context, event domain.UserUpdatedEvent) error
	PublishUserDeleted(ctx context.Context, event domain.UserDeletedEvent) error
}

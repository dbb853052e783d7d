package port

import (
	"context"
	"time"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
)

// UserRepository exposes persistence behavior for users and their phones.
// Create must enforce email uniqueness atomically at persistence time and
// return repository.ErrDuplicateEmail when another row already owns the
// address; the engine's pre-check alone cannot close the race between two
// concurrent creates.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

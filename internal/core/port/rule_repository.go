package port

import (
	"context"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
)

// RuleRepository exposes lookup and management of validation rules. GetByKey
// returns repository.ErrNotFound for an unconfigured key; callers treat that
// as "check does not run", never as a failure.
type RuleRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.ValidationRule, error)
	List(ctx context.Context) ([]domain.ValidationRule, error)
	Create(ctx context.Context, rule domain.ValidationRule) error
	Update(ctx context.Context, rule domain.ValidationRule) error
	Delete(ctx context.Context, key string) error
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/core/port"
)

// ErrRuleKeyRequired indicates a rule write arrived without a key.
var ErrRuleKeyRequired = errors.New("rule key is required")

// RuleService manages the validation rule rows. Rules are configuration, not
// user data: they have their own CRUD surface and are read-only from the
// validation engine's perspective.
type RuleService struct {
	rules  port.RuleRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewRuleService constructs the rule service.
func NewRuleService(rules port.RuleRepository) *RuleService {
	return &RuleService{rules: rules, logger: zap.NewNop(), now: time.Now}
}

// WithLogger attaches a structured logger.
func (s *RuleService) WithLogger(log *zap.Logger) *RuleService {
	if log != nil {
		s.logger = log
	}
	return s
}

// WithClock injects a custom clock, primarily for tests.
func (s *RuleService) WithClock(now func() time.Time) *RuleService {
	if now != nil {
		s.now = now
	}
	return s
}

// List returns every configured rule.
func (s *RuleService) List(ctx context.Context) ([]domain.ValidationRule, error) {
	return s.rules.List(ctx)
}

// GetByKey returns the rule stored under key or repository.ErrNotFound.
func (s *RuleService) GetByKey(ctx context.Context, key string) (*domain.ValidationRule, error) {
	return s.rules.GetByKey(ctx, strings.TrimSpace(key))
}

// Create stores a new rule row under its key.
func (s *RuleService) Create(ctx context.Context, rule domain.ValidationRule) (domain.ValidationRule, error) {
	rule.Key = strings.TrimSpace(rule.Key)
	if rule.Key == "" {
		return domain.ValidationRule{}, ErrRuleKeyRequired
	}

	now := s.now().UTC()
	rule.ID = uuid.NewString()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if err := s.rules.Create(ctx, rule); err != nil {
		return domain.ValidationRule{}, fmt.Errorf("persist rule: %w", err)
	}

	s.logger.Info("validation rule created", zap.String("key", rule.Key))
	return rule, nil
}

// Update replaces the value and description of an existing rule, keeping its
// id and key. Returns repository.ErrNotFound for an unknown key.
func (s *RuleService) Update(ctx context.Context, key string, rule domain.ValidationRule) (domain.ValidationRule, error) {
	key = strings.TrimSpace(key)
	existing, err := s.rules.GetByKey(ctx, key)
	if err != nil {
		return domain.ValidationRule{}, err
	}

	existing.Value = rule.Value
	existing.Description = rule.Description
	existing.UpdatedAt = s.now().UTC()

	if err := s.rules.Update(ctx, *existing); err != nil {
		return domain.ValidationRule{}, fmt.Errorf("persist rule update: %w", err)
	}

	s.logger.Info("validation rule updated", zap.String("key", key))
	return *existing, nil
}

// Delete removes the rule stored under key. Returns repository.ErrNotFound
// for an unknown key; from then on the corresponding check simply stops
// running.
func (s *RuleService) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if err := s.rules.Delete(ctx, key); err != nil {
		return err
	}

	s.logger.Info("validation rule deleted", zap.String("key", key))
	return nil
}

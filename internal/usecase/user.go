package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/core/port"
	"github.com/germandcf/ProyectoNisum/internal/infra/logger"
	"github.com/germandcf/ProyectoNisum/internal/repository"
	"github.com/germandcf/ProyectoNisum/internal/validation"
)

// TokenIssuer produces the opaque bearer token assigned to every newly
// created user. The token is stored with the record and returned to the
// caller; nothing in this service consumes it afterwards.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// UserService orchestrates the validation engine, the user store, and
// id/token/timestamp assignment for the user CRUD use cases. Validation
// outcomes are forwarded unchanged; the service never re-interprets or
// downgrades them.
type UserService struct {
	users  port.UserRepository
	engine *validation.Engine
	tokens TokenIssuer
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService constructs the user service.
func NewUserService(users port.UserRepository, engine *validation.Engine, tokens TokenIssuer, events port.EventPublisher) *UserService {
	return &UserService{
		users:  users,
		engine: engine,
		tokens: tokens,
		events: events,
		logger: zap.NewNop(),
		now:    time.Now,
	}
}

// WithLogger attaches a structured logger.
func (s *UserService) WithLogger(log *zap.Logger) *UserService {
	if log != nil {
		s.logger = log
	}
	return s
}

// WithClock injects a custom clock, primarily for tests.
func (s *UserService) WithClock(now func() time.Time) *UserService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create validates the candidate and persists a new user with a generated
// id, a fresh bearer token, and created = modified = last-login = now. The
// store's unique email index is the authoritative uniqueness guard: a
// duplicate-key rejection at persist time surfaces as the same violation the
// pre-check would have produced.
func (s *UserService) Create(ctx context.Context, cand validation.Candidate) (domain.User, error) {
	if err := s.engine.Validate(ctx, cand); err != nil {
		return domain.User{}, err
	}

	token, err := s.tokens.Issue(cand.Email)
	if err != nil {
		return domain.User{}, fmt.Errorf("issue token: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:        uuid.NewString(),
		Name:      cand.Name,
		Email:     cand.Email,
		Password:  cand.Password,
		Token:     token,
		IsActive:  true,
		Created:   now,
		Modified:  now,
		LastLogin: now,
		Phones:    cand.Phones,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, &validation.Error{Violations: []string{"email already registered"}}
		}
		return domain.User{}, fmt.Errorf("persist user: %w", err)
	}

	s.publishRegistered(ctx, user)
	s.logger.Info("user created",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return user, nil
}

// GetAll returns every stored user.
func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// GetByID returns the user with the given id or repository.ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByEmail returns the user owning the given address or repository.ErrNotFound.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// Update re-validates the candidate, excluding the record's own email from
// the uniqueness lookup, then overwrites name, email, and password and
// refreshes the modified timestamp. Id, token, created, and last-login are
// untouched.
func (s *UserService) Update(ctx context.Context, id string, cand validation.Candidate) (domain.User, error) {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.engine.ValidateUpdate(ctx, cand, id); err != nil {
		return domain.User{}, err
	}

	existing.Name = cand.Name
	existing.Email = cand.Email
	existing.Password = cand.Password
	existing.Modified = s.now().UTC()

	if err := s.users.Update(ctx, *existing); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, &validation.Error{Violations: []string{"email already registered"}}
		}
		return domain.User{}, fmt.Errorf("persist user update: %w", err)
	}

	s.publishUpdated(ctx, *existing)
	return *existing, nil
}

// Delete removes the user and its phones atomically.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.publishDeleted(ctx, id)
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// UpdateLastLogin stamps last-login = now on the user, leaving every other
// field unchanged.
func (s *UserService) UpdateLastLogin(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, id, now); err != nil {
		return domain.User{}, err
	}

	user.LastLogin = now
	return *user, nil
}

func (s *UserService) publishRegistered(ctx context.Context, user domain.User) {
	if s.events == nil {
		return
	}

	event := domain.UserRegisteredEvent{
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PhoneCount:   len(user.Phones),
		RegisteredAt: user.Created,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Warn("publish user registered event failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
}

func (s *UserService) publishUpdated(ctx context.Context, user domain.User) {
	if s.events == nil {
		return
	}

	event := domain.UserUpdatedEvent{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		UpdatedAt: user.Modified,
	}
	if err := s.events.PublishUserUpdated(ctx, event); err != nil {
		s.logger.Warn("publish user updated event failed",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
}

func (s *UserService) publishDeleted(ctx context.Context, id string) {
	if s.events == nil {
		return
	}

	event := domain.UserDeletedEvent{
		UserID:    id,
		DeletedAt: s.now().UTC(),
	}
	if err := s.events.PublishUserDeleted(ctx, event); err != nil {
		s.logger.Warn("publish user deleted event failed",
			zap.String("user_id", id),
			zap.Error(err),
		)
	}
}

var _ TokenIssuer = tokenIssuerFunc(nil)

// tokenIssuerFunc adapts a function to the TokenIssuer interface.
type tokenIssuerFunc func(subject string) (string, error)

func (f tokenIssuerFunc) Issue(subject string) (string, error) {
	return f(subject)
}

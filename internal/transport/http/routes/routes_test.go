package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/infra/config"
	"github.com/germandcf/ProyectoNisum/internal/repository"
	httproutes "github.com/germandcf/ProyectoNisum/internal/transport/http/routes"
	"github.com/germandcf/ProyectoNisum/internal/usecase"
	"github.com/germandcf/ProyectoNisum/internal/validation"
)

type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *memoryUserRepository) Update(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = at
	r.users[id] = user
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memoryRuleRepository struct {
	mu    sync.Mutex
	rules map[string]domain.ValidationRule
}

func newMemoryRuleRepository(rules ...domain.ValidationRule) *memoryRuleRepository {
	repo := &memoryRuleRepository{rules: make(map[string]domain.ValidationRule)}
	for _, rule := range rules {
		repo.rules[rule.Key] = rule
	}
	return repo
}

func (r *memoryRuleRepository) GetByKey(_ context.Context, key string) (*domain.ValidationRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rule, nil
}

func (r *memoryRuleRepository) List(_ context.Context) ([]domain.ValidationRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ValidationRule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	return out, nil
}

func (r *memoryRuleRepository) Create(_ context.Context, rule domain.ValidationRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[rule.Key]; ok {
		return repository.ErrDuplicateKey
	}
	r.rules[rule.Key] = rule
	return nil
}

func (r *memoryRuleRepository) Update(_ context.Context, rule domain.ValidationRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[rule.Key]; !ok {
		return repository.ErrNotFound
	}
	r.rules[rule.Key] = rule
	return nil
}

func (r *memoryRuleRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rules, key)
	return nil
}

type staticTokenIssuer struct{}

func (staticTokenIssuer) Issue(string) (string, error) { return "token-abc", nil }

func newTestRouter(t *testing.T, ruleRepo *memoryRuleRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := newMemoryUserRepository()
	engine := validation.NewEngine(ruleRepo, userRepo)
	users := usecase.NewUserService(userRepo, engine, staticTokenIssuer{}, nil)
	rules := usecase.NewRuleService(ruleRepo)

	logger, _ := zap.NewDevelopment()
	cfg := &config.AppConfig{App: config.AppSettings{Env: "test"}}

	return httproutes.Register(httproutes.Dependencies{
		Config: cfg,
		Logger: logger,
		Services: httproutes.ServiceSet{
			Users: users,
			Rules: rules,
		},
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, newMemoryRuleRepository())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestCreateUserEndpoint(t *testing.T) {
	r := newTestRouter(t, newMemoryRuleRepository(
		domain.ValidationRule{Key: domain.RuleKeyPasswordMinLength, Value: "8"},
	))

	body, _ := json.Marshal(map[string]any{
		"name":     "Juan Rodriguez",
		"email":    "juan@rodriguez.org",
		"password": "Password123@",
		"phones": []map[string]string{
			{"number": "1234567", "cityCode": "1", "countryCode": "57"},
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["id"] == "" || resp["id"] == nil {
		t.Fatalf("expected assigned id, got %v", resp["id"])
	}
	if resp["token"] != "token-abc" {
		t.Fatalf("expected issued token, got %v", resp["token"])
	}
	if resp["active"] != true {
		t.Fatalf("expected active user, got %v", resp["active"])
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password must not be echoed back")
	}
}

func TestCreateUserEndpointAggregatesViolations(t *testing.T) {
	r := newTestRouter(t, newMemoryRuleRepository(
		domain.ValidationRule{Key: domain.RuleKeyPasswordMinLength, Value: "8"},
		domain.ValidationRule{Key: domain.RuleKeyPasswordNumber, Value: "true"},
	))

	body, _ := json.Marshal(map[string]any{
		"name":     "Juan Rodriguez",
		"email":    "juan@rodriguez.org",
		"password": "short",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	message, _ := resp["error"].(string)
	if !strings.Contains(message, " | ") {
		t.Fatalf("expected aggregated violations joined in one message, got %q", message)
	}
}

func TestRuleEndpoints(t *testing.T) {
	r := newTestRouter(t, newMemoryRuleRepository())

	body, _ := json.Marshal(map[string]string{
		"key":         "password.min.length",
		"value":       "10",
		"description": "minimum password length",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/validation-rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/validation-rules/password.min.length", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["value"] != "10" {
		t.Fatalf("expected value 10, got %v", resp["value"])
	}
}

func TestGetUserByEmailNotFound(t *testing.T) {
	r := newTestRouter(t, newMemoryRuleRepository())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/email/nobody@example.com", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
)

// apiTimeLayout is the wire format for timestamps in responses.
const apiTimeLayout = "2006-01-02 15:04:05"

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// PhonePayload carries one contact number in requests and responses.
type PhonePayload struct {
	Number      string `json:"number"`
	CityCode    string `json:"cityCode"`
	CountryCode string `json:"countryCode"`
}

// UserRequest is the payload accepted by the create and update endpoints.
type UserRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Phones   []PhonePayload `json:"phones"`
}

// UserResponse is the full user representation returned by the API. The
// stored password is never included.
type UserResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phones    []PhonePayload `json:"phones"`
	Created   string         `json:"created"`
	Modified  string         `json:"modified"`
	LastLogin string         `json:"lastLogin"`
	Token     string         `json:"token"`
	IsActive  bool           `json:"active"`
}

func newUserResponse(user domain.User) UserResponse {
	phones := make([]PhonePayload, 0, len(user.Phones))
	for _, phone := range user.Phones {
		phones = append(phones, PhonePayload{
			Number:      phone.Number,
			CityCode:    phone.CityCode,
			CountryCode: phone.CountryCode,
		})
	}

	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phones:    phones,
		Created:   formatAPITime(user.Created),
		Modified:  formatAPITime(user.Modified),
		LastLogin: formatAPITime(user.LastLogin),
		Token:     user.Token,
		IsActive:  user.IsActive,
	}
}

func newUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, newUserResponse(user))
	}
	return out
}

func formatAPITime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(apiTimeLayout)
}

func (p PhonePayload) toDomain() domain.Phone {
	return domain.Phone{
		Number:      p.Number,
		CityCode:    p.CityCode,
		CountryCode: p.CountryCode,
	}
}

// RuleRequest is the payload accepted by the rule management endpoints.
type RuleRequest struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// RuleResponse is the rule representation returned by the API.
type RuleResponse struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func newRuleResponse(rule domain.ValidationRule) RuleResponse {
	return RuleResponse{
		ID:          rule.ID,
		Key:         rule.Key,
		Value:       rule.Value,
		Description: rule.Description,
		CreatedAt:   formatAPITime(rule.CreatedAt),
		UpdatedAt:   formatAPITime(rule.UpdatedAt),
	}
}

// HealthResponse describes the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse describes the readiness payload with per-dependency status.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

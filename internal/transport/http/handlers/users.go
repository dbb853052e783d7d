package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/repository"
	"github.com/germandcf/ProyectoNisum/internal/usecase"
	"github.com/germandcf/ProyectoNisum/internal/validation"
)

// UserHandler exposes the user CRUD endpoints.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler builds a handler backed by the user service.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes binds user endpoints. Extra middleware, such as a rate
// limit, applies to registration only.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, createMiddlewares ...gin.HandlerFunc) {
	createHandlers := append([]gin.HandlerFunc{}, createMiddlewares...)
	createHandlers = append(createHandlers, h.Create)

	r.POST("", createHandlers...)
	r.GET("", h.List)
	r.GET("/:id", h.GetByID)
	r.GET("/email/:email", h.GetByEmail)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
	r.PATCH("/:id/last-login", h.TouchLastLogin)
}

// Create registers a new user. All field violations are aggregated into a
// single error message rather than failing on the first one.
func (h *UserHandler) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.Create(c.Request.Context(), candidateFromRequest(req))
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

// List returns every registered user.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	c.JSON(http.StatusOK, newUserResponses(users))
}

// GetByID returns a single user by identifier.
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// GetByEmail returns a single user by exact email match.
func (h *UserHandler) GetByEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email is required"))
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user))
}

// Update overwrites an existing user's profile after revalidation.
func (h *UserHandler) Update(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), candidateFromRequest(req))
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// Delete removes a user and its phones.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}

// TouchLastLogin stamps the user's last login and returns the updated user.
func (h *UserHandler) TouchLastLogin(c *gin.Context) {
	user, err := h.users.UpdateLastLogin(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to update last login")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// respondUserError distinguishes user-input rejections from rule
// misconfiguration. A broken rule row is a server fault, never a 4xx.
func (h *UserHandler) respondUserError(c *gin.Context, err error) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, vErr.Error()))
		return
	}

	var cfgErr *validation.RuleConfigError
	if errors.As(err, &cfgErr) {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "validation rules misconfigured"))
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "user not found"))
		return
	}

	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to save user"))
}

func candidateFromRequest(req UserRequest) validation.Candidate {
	phones := make([]domain.Phone, 0, len(req.Phones))
	for _, phone := range req.Phones {
		phones = append(phones, phone.toDomain())
	}

	return validation.Candidate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phones:   phones,
	}
}

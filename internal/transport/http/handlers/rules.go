package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/germandcf/ProyectoNisum/internal/core/domain"
	"github.com/germandcf/ProyectoNisum/internal/repository"
	"github.com/germandcf/ProyectoNisum/internal/usecase"
)

// RuleHandler exposes CRUD endpoints for validation rules. Changing a rule
// row changes registration behavior immediately; no redeploy involved.
type RuleHandler struct {
	rules *usecase.RuleService
}

// NewRuleHandler builds a handler backed by the rule service.
func NewRuleHandler(rules *usecase.RuleService) *RuleHandler {
	return &RuleHandler{rules: rules}
}

// RegisterRoutes binds rule endpoints.
func (h *RuleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.GET("/:key", h.GetByKey)
	r.POST("", h.Create)
	r.PUT("/:key", h.Update)
	r.DELETE("/:key", h.Delete)
}

// List returns every configured rule.
func (h *RuleHandler) List(c *gin.Context) {
	rules, err := h.rules.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list rules"))
		return
	}

	out := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, newRuleResponse(rule))
	}

	c.JSON(http.StatusOK, out)
}

// GetByKey returns the rule configured under the path key.
func (h *RuleHandler) GetByKey(c *gin.Context) {
	rule, err := h.rules.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "rule not found"},
		}, http.StatusInternalServerError, "failed to load rule")
		return
	}

	c.JSON(http.StatusOK, newRuleResponse(*rule))
}

// Create configures a new rule.
func (h *RuleHandler) Create(c *gin.Context) {
	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid rule payload"))
		return
	}

	rule, err := h.rules.Create(c.Request.Context(), domain.ValidationRule{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRuleKeyRequired, Status: http.StatusBadRequest, Message: "rule key is required"},
			{Err: repository.ErrDuplicateKey, Status: http.StatusConflict, Message: "rule key already exists"},
		}, http.StatusInternalServerError, "failed to create rule")
		return
	}

	c.JSON(http.StatusCreated, newRuleResponse(rule))
}

// Update overwrites the value and description of an existing rule.
func (h *RuleHandler) Update(c *gin.Context) {
	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid rule payload"))
		return
	}

	rule, err := h.rules.Update(c.Request.Context(), c.Param("key"), domain.ValidationRule{
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "rule not found"},
		}, http.StatusInternalServerError, "failed to update rule")
		return
	}

	c.JSON(http.StatusOK, newRuleResponse(rule))
}

// Delete removes a rule; the engine stops running the affected check.
func (h *RuleHandler) Delete(c *gin.Context) {
	if err := h.rules.Delete(c.Request.Context(), c.Param("key")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "rule not found"},
		}, http.StatusInternalServerError, "failed to delete rule")
		return
	}

	c.Status(http.StatusNoContent)
}

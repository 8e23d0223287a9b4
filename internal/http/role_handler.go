package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"career-compass/internal/repository"
	"career-compass/internal/service"
)

// RoleHandler mantiene dependencias para el catálogo de roles y la
// selección de rol objetivo.
type RoleHandler struct {
	logger      *zap.Logger
	roles       repository.RoleRepository
	targetRoles *service.TargetRoleService
	roleMatch   *service.RoleMatchService
}

// NewRoleHandler crea una instancia de RoleHandler con dependencias necesarias.
func NewRoleHandler(
	logger *zap.Logger,
	roles repository.RoleRepository,
	targetRoles *service.TargetRoleService,
	roleMatch *service.RoleMatchService,
) *RoleHandler {
	return &RoleHandler{
		logger:      logger,
		roles:       roles,
		targetRoles: targetRoles,
		roleMatch:   roleMatch,
	}
}

// ListRoles maneja GET /roles.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list roles failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// GetRole maneja GET /roles/:id.
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role id"})
		return
	}

	role, err := h.roles.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
			return
		}
		h.logger.Error("get role failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// RecommendRoles maneja GET /roles/recommendations.
func (h *RoleHandler) RecommendRoles(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	k := 5
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 20 {
			k = parsed
		}
	}

	matches, err := h.roleMatch.RecommendRoles(c.Request.Context(), userID, k)
	if err != nil {
		if errors.Is(err, service.ErrNoSkillsAssessed) {
			c.JSON(http.StatusOK, gin.H{"matches": []any{}, "hint": "complete an assessment first"})
			return
		}
		h.logger.Error("recommend roles failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not recommend roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// SetTargetRole maneja PUT /target-role.
func (h *RoleHandler) SetTargetRole(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req struct {
		RoleID int64 `json:"role_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid set target role request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	role, err := h.targetRoles.SetTargetRole(c.Request.Context(), userID, req.RoleID)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
			return
		}
		h.logger.Error("set target role failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not set target role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// GetTargetRole maneja GET /target-role.
func (h *RoleHandler) GetTargetRole(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	role, hasRole, err := h.targetRoles.GetTargetRole(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("get target role failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch target role"})
		return
	}
	if !hasRole {
		c.JSON(http.StatusOK, gin.H{"role": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// ClearTargetRole maneja DELETE /target-role.
func (h *RoleHandler) ClearTargetRole(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	if err := h.targetRoles.ClearTargetRole(c.Request.Context(), userID); err != nil {
		h.logger.Error("clear target role failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear target role"})
		return
	}
	c.Status(http.StatusNoContent)
}

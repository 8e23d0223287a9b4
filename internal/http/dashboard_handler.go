package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"career-compass/internal/domain"
	"career-compass/internal/repository"
	"career-compass/internal/service"
)

// DashboardHandler mantiene dependencias para el dashboard, la meta de
// carrera y el digest por correo.
type DashboardHandler struct {
	logger    *zap.Logger
	dashboard *service.DashboardService
	digest    *service.DigestService
	goals     repository.GoalRepository
}

// NewDashboardHandler crea una instancia de DashboardHandler con dependencias necesarias.
func NewDashboardHandler(
	logger *zap.Logger,
	dashboard *service.DashboardService,
	digest *service.DigestService,
	goals repository.GoalRepository,
) *DashboardHandler {
	return &DashboardHandler{
		logger:    logger,
		dashboard: dashboard,
		digest:    digest,
		goals:     goals,
	}
}

// GetDashboard maneja GET /dashboard.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	view, err := h.dashboard.BuildDashboard(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("build dashboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": view})
}

// SendDigest maneja POST /dashboard/digest.
func (h *DashboardHandler) SendDigest(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	if err := h.digest.SendDigest(c.Request.Context(), userID); err != nil {
		h.logger.Warn("send digest failed", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not send digest"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "digest_sent"})
}

// GetGoal maneja GET /goals.
func (h *DashboardHandler) GetGoal(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	goal, err := h.goals.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusOK, gin.H{"goal": nil})
			return
		}
		h.logger.Error("get goal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch goal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpsertGoal maneja PUT /goals.
func (h *DashboardHandler) UpsertGoal(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req struct {
		TargetDate *time.Time `json:"target_date"`
		Readiness  int        `json:"readiness" binding:"min=0,max=100"`
		Notes      string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid goal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	goal := domain.CareerGoal{
		UserID:     userID,
		TargetDate: req.TargetDate,
		Readiness:  req.Readiness,
		Notes:      req.Notes,
		UpdatedAt:  time.Now().UTC(),
	}

	if err := h.goals.Upsert(c.Request.Context(), goal); err != nil {
		h.logger.Error("upsert goal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save goal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

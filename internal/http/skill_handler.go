package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-compass/internal/repository"
	"career-compass/internal/service"
)

// SkillHandler mantiene dependencias para endpoints de habilidades y
// del reporte de brechas.
type SkillHandler struct {
	logger      *zap.Logger
	skills      repository.SkillRepository
	assessments *service.AssessmentService
	trackers    *service.GapTrackerRegistry
}

// NewSkillHandler crea una instancia de SkillHandler con dependencias necesarias.
func NewSkillHandler(
	logger *zap.Logger,
	skills repository.SkillRepository,
	assessments *service.AssessmentService,
	trackers *service.GapTrackerRegistry,
) *SkillHandler {
	return &SkillHandler{
		logger:      logger,
		skills:      skills,
		assessments: assessments,
		trackers:    trackers,
	}
}

// ListSkills maneja GET /skills.
func (h *SkillHandler) ListSkills(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	skills, err := h.skills.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list skills failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list skills"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

// SubmitAssessment maneja POST /skills/assessment.
func (h *SkillHandler) SubmitAssessment(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	var req struct {
		Skills []service.AssessmentInput `json:"skills" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assessment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	skills, err := h.assessments.SubmitAssessment(c.Request.Context(), userID, req.Skills)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSkillNameRequired),
			errors.Is(err, service.ErrSkillLevelRange),
			errors.Is(err, service.ErrSkillCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		default:
			h.logger.Error("submit assessment failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit assessment"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"skills": skills})
}

// GetGapReport maneja GET /gap-report y devuelve las entradas ya
// ordenadas por prioridad junto con el estado del recálculo.
func (h *SkillHandler) GetGapReport(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	tracker := h.trackers.ForUser(userID)
	entries, state := tracker.Report()

	c.JSON(http.StatusOK, gin.H{
		"state":   state,
		"role_id": tracker.ReportRoleID(),
		"entries": service.SortGapEntries(entries),
	})
}

// RefreshGapReport maneja POST /gap-report/refresh, el trigger manual.
func (h *SkillHandler) RefreshGapReport(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	h.trackers.ForUser(userID).Refresh()
	c.JSON(http.StatusAccepted, gin.H{"status": "recompute_requested"})
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"career-compass/internal/service"
)

// InsightHandler mantiene dependencias para los análisis LLM y los
// planes de aprendizaje.
type InsightHandler struct {
	logger   *zap.Logger
	insights *service.InsightService
	paths    *service.LearningPathService
}

// NewInsightHandler crea una instancia de InsightHandler con dependencias necesarias.
func NewInsightHandler(logger *zap.Logger, insights *service.InsightService, paths *service.LearningPathService) *InsightHandler {
	return &InsightHandler{
		logger:   logger,
		insights: insights,
		paths:    paths,
	}
}

// GenerateInsight maneja POST /insights.
func (h *InsightHandler) GenerateInsight(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	insight, err := h.insights.GenerateInsight(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoTargetRole):
			c.JSON(http.StatusConflict, gin.H{"error": "no target role set"})
			return
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		default:
			h.logger.Error("generate insight failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate insight"})
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"insight": insight})
}

// GetLatestInsight maneja GET /insights.
func (h *InsightHandler) GetLatestInsight(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	insight, err := h.insights.LatestInsight(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusOK, gin.H{"insight": nil})
			return
		}
		h.logger.Error("get insight failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch insight"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"insight": insight})
}

// GenerateLearningPath maneja POST /learning-path.
func (h *InsightHandler) GenerateLearningPath(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	path, err := h.paths.GeneratePath(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoTargetRole):
			c.JSON(http.StatusConflict, gin.H{"error": "no target role set"})
			return
		case errors.Is(err, service.ErrEmptyLearningPath):
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate learning path"})
			return
		default:
			h.logger.Error("generate learning path failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate learning path"})
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"learning_path": path})
}

// GetLatestLearningPath maneja GET /learning-path.
func (h *InsightHandler) GetLatestLearningPath(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}

	path, err := h.paths.LatestPath(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusOK, gin.H{"learning_path": nil})
			return
		}
		h.logger.Error("get learning path failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch learning path"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"learning_path": path})
}

package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"career-compass/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userH *UserHandler,
	roleH *RoleHandler,
	skillH *SkillHandler,
	dashboardH *DashboardHandler,
	insightH *InsightHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.POST("/users", userH.CreateUser)

	auth := r.Group("/auth")
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	r.GET("/roles", roleH.ListRoles)

	protected := r.Group("")
	protected.Use(JWTAuthMiddleware(jwtSvc))

	protected.GET("/roles/recommendations", roleH.RecommendRoles)
	r.GET("/roles/:id", roleH.GetRole)

	protected.GET("/target-role", roleH.GetTargetRole)
	protected.PUT("/target-role", roleH.SetTargetRole)
	protected.DELETE("/target-role", roleH.ClearTargetRole)

	protected.GET("/skills", skillH.ListSkills)
	protected.POST("/skills/assessment", skillH.SubmitAssessment)
	protected.GET("/gap-report", skillH.GetGapReport)
	protected.POST("/gap-report/refresh", skillH.RefreshGapReport)

	protected.GET("/dashboard", dashboardH.GetDashboard)
	protected.POST("/dashboard/digest", dashboardH.SendDigest)
	protected.GET("/goals", dashboardH.GetGoal)
	protected.PUT("/goals", dashboardH.UpsertGoal)

	protected.POST("/insights", insightH.GenerateInsight)
	protected.GET("/insights", insightH.GetLatestInsight)
	protected.POST("/learning-path", insightH.GenerateLearningPath)
	protected.GET("/learning-path", insightH.GetLatestLearningPath)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"career-compass/internal/config"
	"career-compass/internal/db"
	"career-compass/internal/email"
	apihttp "career-compass/internal/http"
	"career-compass/internal/llm"
	"career-compass/internal/repository"
	"career-compass/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	skillRepo := repository.NewPgSkillRepository(pool)
	roleRepo := repository.NewPgRoleRepository(pool)
	targetRepo := repository.NewPgTargetRoleRepository(pool)
	goalRepo := repository.NewPgGoalRepository(pool)
	insightRepo := repository.NewPgInsightRepository(pool)
	pathRepo := repository.NewPgLearningPathRepository(pool)

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEmbeddingModel, zap.NewStdLog(logger))

	var (
		insightLimiter service.InsightRateLimiter
		tokenStore     service.RefreshTokenStore
		redisClient    *redis.Client
	)
	rateWindow := time.Duration(cfg.InsightRateWindowMinutes) * time.Minute
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			insightLimiter = service.NewRedisInsightRateLimiter(redisClient, rateWindow, cfg.InsightRateMax)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}
	if insightLimiter == nil {
		insightLimiter = service.NewInsightRateLimiter(rateWindow, cfg.InsightRateMax)
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	trackers := service.NewGapTrackerRegistry(logger, roleRepo, targetRepo, skillRepo)
	targetRoleSvc := service.NewTargetRoleService(logger, roleRepo, targetRepo, trackers)
	assessmentSvc := service.NewAssessmentService(logger, skillRepo, trackers)
	dashboardSvc := service.NewDashboardService(targetRoleSvc, goalRepo, trackers)
	userSvc := service.NewUserService(logger, userRepo)
	digestSvc := service.NewDigestService(logger, dashboardSvc, userSvc, emailSender)
	insightSvc := service.NewInsightService(logger, llmClient, insightRepo, targetRoleSvc, skillRepo, insightLimiter)
	pathSvc := service.NewLearningPathService(logger, llmClient, pathRepo, targetRoleSvc, skillRepo)
	roleMatchSvc := service.NewRoleMatchService(llmClient, roleRepo, skillRepo)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	roleHandler := apihttp.NewRoleHandler(logger, roleRepo, targetRoleSvc, roleMatchSvc)
	skillHandler := apihttp.NewSkillHandler(logger, skillRepo, assessmentSvc, trackers)
	dashboardHandler := apihttp.NewDashboardHandler(logger, dashboardSvc, digestSvc, goalRepo)
	insightHandler := apihttp.NewInsightHandler(logger, insightSvc, pathSvc)

	router := apihttp.NewRouter(logger, jwtSvc, userHandler, roleHandler, skillHandler, dashboardHandler, insightHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

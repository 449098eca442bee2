package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/acadhub/gradebook-api/api/swagger"
	"github.com/acadhub/gradebook-api/internal/handler"
	"github.com/acadhub/gradebook-api/internal/middleware"
	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/internal/repository"
	"github.com/acadhub/gradebook-api/internal/service"
	"github.com/acadhub/gradebook-api/pkg/cache"
	"github.com/acadhub/gradebook-api/pkg/classroom"
	"github.com/acadhub/gradebook-api/pkg/config"
	"github.com/acadhub/gradebook-api/pkg/database"
	"github.com/acadhub/gradebook-api/pkg/genai"
	"github.com/acadhub/gradebook-api/pkg/logger"
	corsmiddleware "github.com/acadhub/gradebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadhub/gradebook-api/pkg/middleware/requestid"
)

// @title AcadHub Gradebook API
// @version 1.0.0
// @description Grade computation and gradebook service for the academic management platform
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	classRepo := repository.NewClassRepository(db)
	componentRepo := repository.NewGradeComponentRepository(db)
	entryRepo := repository.NewGradeEntryRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Leaderboard.CacheTTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "gradebook-api",
	})
	gradebookSvc := service.NewGradebookService(entryRepo, componentRepo, classRepo, subjectRepo,
		cacheSvc, metricsSvc, validate, logr, cfg.Gradebook)
	leaderboardSvc := service.NewLeaderboardService(studentRepo, subjectRepo, entryRepo, componentRepo,
		cacheSvc, gradebookSvc.Calculator(), logr, cfg.Leaderboard)
	classSvc := service.NewClassService(classRepo, studentRepo, entryRepo, componentRepo,
		gradebookSvc.Calculator(), logr)
	dashboardSvc := service.NewDashboardService(classRepo, studentRepo, announcementRepo,
		gradebookSvc, classSvc, cacheSvc, logr, cfg.Dashboard)

	var drafter *genai.Client
	if cfg.GenAI.Enabled {
		drafter = genai.New(cfg.GenAI)
	}
	announcementSvc := service.NewAnnouncementService(announcementRepo, drafter, validate, logr, cfg.GenAI)

	var classroomClient *classroom.Client
	if cfg.Classroom.Enabled {
		classroomClient = classroom.New(cfg.Classroom)
	}
	syncSvc := service.NewSyncService(classRepo, studentRepo, componentRepo, entryRepo,
		classroomClient, cacheSvc, logr, cfg.Classroom)

	reportSvc := service.NewReportService(classSvc, cfg.Reports, logr, nil, nil)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	gradebookHandler := handler.NewGradebookHandler(gradebookSvc)
	gradeHandler := handler.NewGradeHandler(gradebookSvc, studentRepo)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)
	classHandler := handler.NewClassHandler(classSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	syncHandler := handler.NewSyncHandler(syncSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		authed := auth.Group("", middleware.JWT(authSvc))
		authed.POST("/logout", authHandler.Logout)
		authed.PUT("/password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
	}

	secured := api.Group("", middleware.JWT(authSvc))
	{
		secured.GET("/dashboard", dashboardHandler.Summary)
		secured.GET("/me/grades", gradeHandler.MyGrades)
		secured.GET("/leaderboard/subjects/:id", leaderboardHandler.SubjectLeaderboard)
		secured.GET("/leaderboard/top", leaderboardHandler.TopPerformers)
		secured.GET("/announcements", announcementHandler.List)
		secured.GET("/classes/:id", classHandler.Get)
	}

	staff := api.Group("", middleware.JWT(authSvc),
		middleware.RequireRoles(models.RoleAdmin, models.RoleProfessor))
	{
		staff.GET("/students/:id/grades", gradeHandler.StudentGrades)
		staff.GET("/classes/:id/summary", classHandler.Summary)
		staff.GET("/classes/:id/entries", gradebookHandler.ListEntries)
		staff.POST("/classes/:id/entries", gradebookHandler.UpsertEntry)
		staff.POST("/classes/:id/entries/bulk", gradebookHandler.BulkUpsert)
		staff.DELETE("/entries/:id", gradebookHandler.DeleteEntry)
		staff.GET("/classes/:id/components", gradebookHandler.ListComponents)
		staff.POST("/classes/:id/components", gradebookHandler.CreateComponent)
		staff.PUT("/components/:id", gradebookHandler.UpdateComponent)
		staff.DELETE("/components/:id", gradebookHandler.DeleteComponent)
		staff.POST("/classes/:id/sync", syncHandler.ImportClass)
		staff.GET("/classes/:id/report", reportHandler.ClassGradebook)
		staff.POST("/announcements", announcementHandler.Create)
		staff.DELETE("/announcements/:id", announcementHandler.Delete)
	}

	admin := api.Group("/system", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/metrics", metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

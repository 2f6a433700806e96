package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schoolmgr/school-api/api/swagger"
	"github.com/schoolmgr/school-api/internal/bootstrap"
	"github.com/schoolmgr/school-api/internal/handler"
	"github.com/schoolmgr/school-api/internal/middleware"
	"github.com/schoolmgr/school-api/internal/models"
	"github.com/schoolmgr/school-api/internal/repository"
	"github.com/schoolmgr/school-api/internal/service"
	"github.com/schoolmgr/school-api/pkg/cache"
	"github.com/schoolmgr/school-api/pkg/config"
	"github.com/schoolmgr/school-api/pkg/database"
	"github.com/schoolmgr/school-api/pkg/logger"
	corsmiddleware "github.com/schoolmgr/school-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolmgr/school-api/pkg/middleware/requestid"
)

// @title School Management API
// @version 1.0.0
// @description Role-based school administration backend
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, schedule cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Cache.TTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	accountRepo := repository.NewAccountRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	classSubjectRepo := repository.NewClassSubjectRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	authService := service.NewAuthService(accountRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userService := service.NewUserService(accountRepo, profileRepo, validate, logr)
	classService := service.NewClassService(classRepo, validate, logr)
	subjectService := service.NewSubjectService(subjectRepo, validate, logr)
	scheduleService := service.NewScheduleService(scheduleRepo, classRepo, profileRepo, subjectRepo, classSubjectRepo, cacheService, validate, logr)
	gradeService := service.NewGradeService(gradeRepo, profileRepo, subjectRepo, classSubjectRepo, validate, logr)
	attendanceService := service.NewAttendanceService(attendanceRepo, scheduleRepo, profileRepo, validate, logr)
	rosterService := service.NewRosterService(profileRepo, logr)
	exportService := service.NewExportService(gradeRepo, profileRepo, logr)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bootstrap.SeedAdmin(seedCtx, accountRepo, cfg.Admin, logr); err != nil {
		logr.Sugar().Warnw("admin seeding failed", "error", err)
	}
	cancel()

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	classHandler := handler.NewClassHandler(classService)
	subjectHandler := handler.NewSubjectHandler(subjectService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	gradeHandler := handler.NewGradeHandler(gradeService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	rosterHandler := handler.NewRosterHandler(rosterService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

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
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	}

	admin := middleware.RBAC(models.RoleAdministrator)
	teacher := middleware.RBAC(models.RoleTeacher)
	student := middleware.RBAC(models.RoleStudent)
	anyRole := middleware.RBAC(models.RoleAdministrator, models.RoleTeacher, models.RoleStudent)

	users := api.Group("/users", middleware.JWT(authService), admin)
	{
		users.GET("", userHandler.List)
		users.GET("/roles", userHandler.Roles)
		users.GET("/:id", userHandler.Get)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	classes := api.Group("/classes", middleware.JWT(authService))
	{
		classes.GET("", admin, classHandler.List)
		classes.GET("/options", anyRole, classHandler.Options)
		classes.GET("/:id", admin, classHandler.Get)
		classes.POST("", admin, classHandler.Create)
		classes.PUT("/:id", admin, classHandler.Update)
		classes.DELETE("/:id", admin, classHandler.Delete)
	}

	subjects := api.Group("/subjects", middleware.JWT(authService))
	{
		subjects.GET("", admin, subjectHandler.List)
		subjects.GET("/options", anyRole, subjectHandler.Options)
		subjects.GET("/:id", admin, subjectHandler.Get)
		subjects.POST("", admin, subjectHandler.Create)
		subjects.PUT("/:id", admin, subjectHandler.Update)
		subjects.DELETE("/:id", admin, subjectHandler.Delete)
	}

	schedules := api.Group("/schedules", middleware.JWT(authService))
	{
		schedules.POST("", admin, scheduleHandler.AddEntry)
		schedules.GET("/classes", admin, scheduleHandler.Classes)
		schedules.GET("/class/:id", anyRole, scheduleHandler.ForClass)
		schedules.GET("/class/:id/subjects", admin, scheduleHandler.SubjectsForClass)
		schedules.GET("/my", student, scheduleHandler.ForStudent)
		schedules.GET("/teacher", teacher, scheduleHandler.ForTeacher)
	}

	grades := api.Group("/grades", middleware.JWT(authService))
	{
		grades.POST("", teacher, gradeHandler.Add)
		grades.GET("/my", student, gradeHandler.MyGrades)
		grades.GET("/teacher", teacher, gradeHandler.TeacherGrades)
		grades.GET("/subjects", teacher, gradeHandler.Subjects)
		grades.GET("/students", teacher, gradeHandler.Students)
	}

	attendance := api.Group("/attendance", middleware.JWT(authService), teacher)
	{
		attendance.GET("/today", attendanceHandler.TodayLessons)
		attendance.GET("/:scheduleId/students", attendanceHandler.Students)
		attendance.POST("/:scheduleId", attendanceHandler.Save)
	}

	api.GET("/teachers", middleware.JWT(authService), admin, rosterHandler.Teachers)
	api.GET("/students", middleware.JWT(authService), admin, rosterHandler.Students)
	api.GET("/exports/grades/:id", middleware.JWT(authService), admin, exportHandler.GradeSheet)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/mentortrack-api/internal/handler"
	internalmiddleware "github.com/noah-isme/mentortrack-api/internal/middleware"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/internal/repository"
	"github.com/noah-isme/mentortrack-api/internal/service"
	"github.com/noah-isme/mentortrack-api/pkg/config"
	"github.com/noah-isme/mentortrack-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mentortrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mentortrack-api/pkg/middleware/requestid"
)

type dependencies struct {
	cfg    *config.Config
	db     *sqlx.DB
	redis  *redis.Client
	logger *zap.Logger
}

func newRouter(deps dependencies) *gin.Engine {
	cfg, db, logr := deps.cfg, deps.db, deps.logger
	validate := validator.New()
	loc := cfg.Location()

	userRepo := repository.NewUserRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	parentRepo := repository.NewParentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	reportRepo := repository.NewReportRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	metricsSvc := service.NewMetricsService()
	var cacheRepo service.CacheRepository
	if deps.redis != nil {
		cacheRepo = repository.NewCacheRepository(deps.redis, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)

	authSvc := service.NewAuthService(userRepo, auditRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	registrationSvc := service.NewRegistrationService(db, userRepo, mentorRepo, parentRepo, studentRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, studentRepo, mentorRepo, logr)
	assignmentSvc := service.NewAssignmentService(db, assignmentRepo, mentorRepo, studentRepo, cacheSvc, validate, logr)
	meetingSvc := service.NewMeetingService(db, meetingRepo, assignmentRepo, mentorRepo, studentRepo, parentRepo, cacheSvc, metricsSvc, validate, logr, service.MeetingConfig{
		DefaultDuration: cfg.Meetings.DefaultDuration,
		Location:        loc,
	})
	goalSvc := service.NewGoalService(goalRepo, assignmentRepo, cacheSvc, validate, logr)
	interventionSvc := service.NewInterventionService(interventionRepo, assignmentRepo, cacheSvc, validate, logr)
	noteSvc := service.NewNoteService(noteRepo, meetingRepo, assignmentRepo, validate, logr)
	mentorSvc := service.NewMentorService(mentorRepo, studentRepo, validate, logr)
	parentSvc := service.NewParentService(parentRepo, studentRepo)
	reportSvc := service.NewReportService(reportRepo, meetingRepo, cacheSvc, logr, service.ReportConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
		Location: loc,
	})

	authHandler := handler.NewAuthHandler(authSvc, registrationSvc)
	adminHandler := handler.NewAdminHandler(userSvc, assignmentSvc)
	meetingHandler := handler.NewMeetingHandler(meetingSvc)
	mentorHandler := handler.NewMentorHandler(mentorSvc, assignmentSvc)
	goalHandler := handler.NewGoalHandler(goalSvc)
	interventionHandler := handler.NewInterventionHandler(interventionSvc)
	noteHandler := handler.NewNoteHandler(noteSvc)
	parentHandler := handler.NewParentHandler(parentSvc)
	reportHandler := handler.NewReportHandler(reportSvc, meetingSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/health", metricsHandler.Health)

	admin := internalmiddleware.RequireRoles(models.RoleAdmin)
	mentor := internalmiddleware.RequireRoles(models.RoleMentor)
	student := internalmiddleware.RequireRoles(models.RoleStudent)
	parent := internalmiddleware.RequireRoles(models.RoleParent)
	audit := func(action, resource string) gin.HandlerFunc {
		return internalmiddleware.Audit(auditRepo, action, resource)
	}

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))

	securedAuth := secured.Group("/auth")
	securedAuth.GET("/me", authHandler.Me)
	securedAuth.POST("/change-password", authHandler.ChangePassword)
	securedAuth.POST("/register-student", admin, audit(models.AuditActionUserCreate, "student"), authHandler.RegisterStudent)
	securedAuth.POST("/register-mentor", admin, audit(models.AuditActionUserCreate, "mentor"), authHandler.RegisterMentor)
	securedAuth.POST("/register-parent", admin, audit(models.AuditActionUserCreate, "parent"), authHandler.RegisterParent)

	adminGroup := secured.Group("/admin", admin)
	adminGroup.GET("/all", adminHandler.ListStudents)
	adminGroup.GET("/mentors/all", adminHandler.ListMentors)
	adminGroup.DELETE("/mentors/:id", audit(models.AuditActionUserDelete, "mentor"), adminHandler.DeleteMentor)
	adminGroup.DELETE("/students/:id", audit(models.AuditActionUserDelete, "student"), adminHandler.DeleteStudent)
	adminGroup.POST("/assign", audit(models.AuditActionCreate, "assignment"), adminHandler.Assign)
	adminGroup.GET("/assignments/all", adminHandler.ListAssignments)
	adminGroup.PUT("/assign/:id", audit(models.AuditActionUpdate, "assignment"), adminHandler.UpdateAssignment)

	meetings := secured.Group("/meetings")
	meetings.POST("", internalmiddleware.RequireRoles(models.RoleMentor, models.RoleStudent, models.RoleParent), audit(models.AuditActionCreate, "meeting"), meetingHandler.Schedule)
	meetings.GET("/upcoming", mentor, meetingHandler.Upcoming)
	meetings.GET("/overdue/list", mentor, meetingHandler.Overdue)
	meetings.GET("/student/upcoming", student, meetingHandler.StudentUpcoming)
	meetings.GET("/student/me", student, meetingHandler.StudentMine)
	meetings.GET("/student/:student_id", internalmiddleware.RequireRoles(models.RoleMentor, models.RoleParent), meetingHandler.ForStudent)
	meetings.GET("/details/:id", mentor, meetingHandler.Detail)
	meetings.PUT("/:id", mentor, audit(models.AuditActionUpdate, "meeting"), meetingHandler.UpdateStatus)

	mentors := secured.Group("/mentors", mentor)
	mentors.GET("/mentees", mentorHandler.Mentees)
	mentors.GET("/students/all", mentorHandler.AllStudents)
	mentors.GET("/profile", mentorHandler.Profile)
	mentors.PUT("/profile", audit(models.AuditActionUpdate, "mentor_profile"), mentorHandler.UpdateProfile)
	mentors.POST("/assign", audit(models.AuditActionCreate, "assignment"), mentorHandler.SelfAssign)

	goals := secured.Group("/goals")
	goals.POST("", mentor, audit(models.AuditActionCreate, "goal"), goalHandler.Create)
	goals.GET("/student/me", student, goalHandler.Mine)
	goals.PUT("/:id/mark", student, audit(models.AuditActionUpdate, "goal"), goalHandler.Mark)
	goals.GET("/student/:student_id", mentor, goalHandler.ForStudent)
	goals.GET("/active/all", mentor, goalHandler.Active)
	goals.GET("/all", mentor, goalHandler.All)
	goals.PUT("/:id", mentor, audit(models.AuditActionUpdate, "goal"), goalHandler.Update)
	goals.DELETE("/:id", mentor, audit(models.AuditActionDelete, "goal"), goalHandler.Delete)

	interventions := secured.Group("/interventions", mentor)
	interventions.POST("", audit(models.AuditActionCreate, "intervention"), interventionHandler.Create)
	interventions.GET("/student/:student_id", interventionHandler.ForStudent)
	interventions.GET("/active/all", interventionHandler.Active)
	interventions.PUT("/:id", audit(models.AuditActionUpdate, "intervention"), interventionHandler.Update)

	notes := secured.Group("/notes")
	notes.POST("", mentor, audit(models.AuditActionCreate, "meeting_note"), noteHandler.AddMeetingNote)
	notes.GET("/meeting/:meeting_id", noteHandler.ForMeeting)
	notes.GET("/meeting/student/:student_id", noteHandler.ForStudent)
	notes.POST("/general/add", mentor, audit(models.AuditActionCreate, "general_note"), noteHandler.AddGeneralNote)
	notes.GET("/general/student/:student_id", mentor, noteHandler.GeneralForStudent)
	notes.PUT("/general/:id", mentor, audit(models.AuditActionUpdate, "general_note"), noteHandler.UpdateGeneralNote)

	parents := secured.Group("/parents", parent)
	parents.GET("/children", parentHandler.Children)
	parents.GET("/profile", parentHandler.Profile)

	reports := secured.Group("/reports", mentor)
	reports.GET("/dashboard-stats", reportHandler.DashboardStats)
	reports.GET("/upcoming-meetings", reportHandler.UpcomingMeetings)
	reports.GET("/overdue-meetings", reportHandler.OverdueMeetings)
	reports.GET("/at-risk-students", reportHandler.AtRiskStudents)
	reports.GET("/mentee-count", reportHandler.MenteeCount)
	reports.GET("/export", reportHandler.Export)

	return r
}

package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	v1 "github.com/bazarkampus/bazar-api/internal/api/handler/v1"
	"github.com/bazarkampus/bazar-api/internal/api/middleware"
	"github.com/bazarkampus/bazar-api/internal/config"
	"github.com/bazarkampus/bazar-api/internal/repository"
	"github.com/bazarkampus/bazar-api/internal/repository/dao"
	"github.com/bazarkampus/bazar-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	businessRepo := repository.NewBusinessRepository(dao.NewBusinessDAO(db))
	assessmentRepo := repository.NewAssessmentRepository(dao.NewAssessmentDAO(db))
	umkmRepo := repository.NewUmkmRepository(dao.NewUmkmDAO(db))
	notificationRepo := repository.NewNotificationRepository(dao.NewNotificationDAO(db))

	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo)

	notificationSvc := service.NewNotificationService(notificationRepo, nil)
	notificationHandler := v1.NewNotificationHandler(notificationSvc, userSvc)
	notificationSvc.SetBroadcaster(notificationHandler)
	go notificationHandler.Run()

	assessmentSvc := service.NewAssessmentService(assessmentRepo, eventRepo, businessRepo, userRepo, notificationSvc)
	eventSvc := service.NewEventService(eventRepo, assessmentSvc)
	marketplaceSvc := service.NewMarketplaceService(businessRepo, eventRepo, userRepo, notificationSvc)
	umkmSvc := service.NewUmkmService(umkmRepo, userRepo, notificationSvc)
	reportSvc := service.NewReportService(eventRepo, assessmentSvc)

	authHandler := v1.NewAuthHandler(conf.API, authSvc)
	userHandler := v1.NewUserHandler(userSvc)
	eventHandler := v1.NewEventHandler(eventSvc, userSvc)
	assessmentHandler := v1.NewAssessmentHandler(assessmentSvc, userSvc)
	marketplaceHandler := v1.NewMarketplaceHandler(marketplaceSvc, userSvc)
	umkmHandler := v1.NewUmkmHandler(conf.Uploads, umkmSvc, userSvc)
	reportHandler := v1.NewReportHandler(reportSvc, userSvc)

	s.MountHandlers(authHandler, userHandler, eventHandler, assessmentHandler,
		marketplaceHandler, umkmHandler, notificationHandler, reportHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	assessmentHandler *v1.AssessmentHandler,
	marketplaceHandler *v1.MarketplaceHandler,
	umkmHandler *v1.UmkmHandler,
	notificationHandler *v1.NotificationHandler,
	reportHandler *v1.ReportHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/lecturers", userHandler.HandleListLecturers)
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)

		authenticated.GET("/events", eventHandler.HandleListEvents)
		authenticated.POST("/events", eventHandler.HandleCreateEvent)
		authenticated.GET("/events/:eventID", eventHandler.HandleGetEvent)
		authenticated.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		authenticated.POST("/events/:eventID/status", eventHandler.HandleChangeEventStatus)
		authenticated.GET("/events/:eventID/sponsors", eventHandler.HandleGetSponsors)
		authenticated.POST("/events/:eventID/sponsors", eventHandler.HandleAddSponsor)
		authenticated.DELETE("/events/:eventID/sponsors/:sponsorID", eventHandler.HandleRemoveSponsor)

		authenticated.GET("/events/:eventID/categories", assessmentHandler.HandleGetCategories)
		authenticated.POST("/events/:eventID/categories", assessmentHandler.HandleCreateCategory)
		authenticated.POST("/scores", assessmentHandler.HandleSubmitScore)
		authenticated.GET("/categories/:categoryID/ranking", assessmentHandler.HandleGetRanking)
		authenticated.POST("/categories/:categoryID/winner", assessmentHandler.HandleSetWinner)
		authenticated.GET("/events/:eventID/ranking/export", reportHandler.HandleExportRanking)

		authenticated.POST("/events/:eventID/register", marketplaceHandler.HandleRegisterBusiness)
		authenticated.GET("/events/:eventID/businesses", marketplaceHandler.HandleGetBusinesses)
		authenticated.POST("/businesses/:businessID/approve", marketplaceHandler.HandleApproveBusiness)
		authenticated.POST("/businesses/:businessID/reject", marketplaceHandler.HandleRejectBusiness)
		authenticated.POST("/businesses/:businessID/booth", marketplaceHandler.HandleAssignBooth)
		authenticated.DELETE("/businesses/:businessID", marketplaceHandler.HandleCancelRegistration)

		authenticated.POST("/umkm", umkmHandler.HandleCreateUmkm)
		authenticated.GET("/umkm", umkmHandler.HandleListUmkms)
		authenticated.GET("/umkm/:umkmID", umkmHandler.HandleGetUmkm)
		authenticated.POST("/umkm/:umkmID/stages/:stageNumber/files", umkmHandler.HandleUploadStageFiles)
		authenticated.POST("/umkm/:umkmID/stages/:stageNumber/request-validation", umkmHandler.HandleRequestValidation)
		authenticated.POST("/umkm/:umkmID/stages/:stageNumber/validate", umkmHandler.HandleValidateStage)

		authenticated.GET("/notifications", notificationHandler.HandleGetNotifications)
		authenticated.GET("/notifications/stream", notificationHandler.HandleStream)
		authenticated.POST("/notifications/:notificationID/read", notificationHandler.HandleMarkRead)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

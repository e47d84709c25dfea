package routes

import (
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every API handler
type Handlers struct {
	Session  *handler.SessionHandler
	Composer *handler.ComposerHandler
	History  *handler.HistoryHandler
	Settings *handler.SettingsHandler
	Tunnel   *handler.TunnelHandler
	Health   *handler.HealthHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/healthz", h.Health.Health)

	api := router.Group("/api")

	sessionRoutes := api.Group("/session")
	{
		sessionRoutes.GET("", h.Session.Get)
		sessionRoutes.GET("/events", h.Session.Events)
		sessionRoutes.POST("/page", h.Session.SetPage)
		sessionRoutes.POST("/result/dismiss", h.Session.DismissResult)
	}

	composerRoutes := api.Group("/composer")
	{
		composerRoutes.GET("", h.Composer.GetDraft)
		composerRoutes.POST("/compose", h.Composer.Compose)
		composerRoutes.POST("/submit", h.Composer.Submit)
		composerRoutes.POST("/reset", h.Composer.Reset)
	}

	historyRoutes := api.Group("/history")
	{
		historyRoutes.GET("", h.History.List)
		historyRoutes.POST("/:id/load", h.History.Load)
		historyRoutes.POST("/:id/reverse", h.History.Reverse)
	}

	settingsRoutes := api.Group("/settings")
	{
		settingsRoutes.GET("", h.Settings.Get)
		settingsRoutes.PUT("", h.Settings.Update)
		settingsRoutes.POST("/pick-file", h.Settings.PickFile)
	}

	tunnelRoutes := api.Group("/tunnel")
	{
		tunnelRoutes.GET("", h.Tunnel.Get)
		tunnelRoutes.POST("/connect", h.Tunnel.Connect)
		tunnelRoutes.POST("/disconnect", h.Tunnel.Disconnect)
		tunnelRoutes.POST("/toggle", h.Tunnel.Toggle)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(
	router *gin.Engine,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	allowedOrigins []string,
) {
	// Logger wraps ErrorHandler so it records the status of rendered errors
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger, timeProvider))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(allowedOrigins))
}

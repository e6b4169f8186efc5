package server

import (
	"github.com/gin-gonic/gin"

	"github.com/planora/planora-backend/internal/http/handlers"
	"github.com/planora/planora-backend/internal/http/middleware"
	"github.com/planora/planora-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	PlanHandler    *handlers.PlanHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(cfg.Log))
	router.Use(middleware.CORS())

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/logout", cfg.AuthHandler.Logout)
		protected.GET("/user", cfg.UserHandler.GetMe)

		protected.POST("/plans", cfg.PlanHandler.Generate)
		protected.GET("/plans", cfg.PlanHandler.List)
		protected.GET("/plans/:id", cfg.PlanHandler.Get)
		protected.DELETE("/plans/:id", cfg.PlanHandler.Delete)

		protected.POST("/plans/:id/sections/:path/regenerate", cfg.PlanHandler.RegenerateSection)
		protected.POST("/plans/:id/sections/:path/improve", cfg.PlanHandler.ImproveSection)
		protected.PUT("/plans/:id/sections/:path", cfg.PlanHandler.UpdateSection)
	}

	return router
}

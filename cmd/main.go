package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/planora/planora-backend/internal/app"
	"github.com/planora/planora-backend/internal/clients/redis"
	"github.com/planora/planora-backend/internal/data/db"
	authrepo "github.com/planora/planora-backend/internal/data/repos/auth"
	planrepo "github.com/planora/planora-backend/internal/data/repos/marketingplan"
	userrepo "github.com/planora/planora-backend/internal/data/repos/user"
	"github.com/planora/planora-backend/internal/http/handlers"
	"github.com/planora/planora-backend/internal/http/middleware"
	"github.com/planora/planora-backend/internal/platform/llm"
	"github.com/planora/planora-backend/internal/platform/logger"
	"github.com/planora/planora-backend/internal/server"
	"github.com/planora/planora-backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	userRepo := userrepo.NewUserRepo(thePG, log)
	userTokenRepo := authrepo.NewUserTokenRepo(thePG, log)
	marketingPlanRepo := planrepo.NewMarketingPlanRepo(thePG, log)

	// Completion client. Missing configuration is a hard startup failure,
	// never a runtime one.
	completer, err := llm.NewClient(cfg.LLM, log)
	if err != nil {
		log.Fatal("Could not init LLM client", "error", err)
	}
	jsonCompleter := llm.NewRepairer(completer, log)

	// Optional AI rate limiter.
	limiter, err := redis.NewRateLimiter(log)
	if err != nil {
		log.Warn("Redis rate limiter disabled", "error", err)
		limiter = nil
	}

	// Services
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(thePG, log, userRepo)
	planService := services.NewPlanService(thePG, log, userRepo, marketingPlanRepo, jsonCompleter, limiter, services.PlanQuotas{
		FreeTierLimit: cfg.FreeTierPlanLimit,
		ProTierLimit:  cfg.ProTierPlanLimit,
	})

	// HTTP
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AuthHandler:    handlers.NewAuthHandler(log, authService),
		AuthMiddleware: middleware.NewAuthMiddleware(log, authService),
		UserHandler:    handlers.NewUserHandler(log, userService),
		PlanHandler:    handlers.NewPlanHandler(log, planService),
	})

	log.Info("Starting HTTP server", "port", cfg.HTTPPort)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("HTTP server stopped", "error", err)
	}
}

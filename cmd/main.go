package main

import (
	"fmt"
	"log"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cloudpanel/internal/caching"
	"cloudpanel/internal/config"
	"cloudpanel/internal/handlers"
	"cloudpanel/internal/jobs"
	"cloudpanel/internal/middleware"
	"cloudpanel/internal/repositories"
	"cloudpanel/internal/services"
	"cloudpanel/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret")
	}

	// Object storage for instance logos and academy media
	storageSvc, err := services.NewStorageService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	instanceRepo := repositories.NewInstanceRepo(pool)
	poolRepo := repositories.NewPoolRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)
	academyRepo := repositories.NewAcademyRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Create services
	subscriptionSvc := services.NewSubscriptionService(subscriptionRepo)
	instanceSvc := services.NewInstanceService(instanceRepo, storageSvc)
	poolSvc := services.NewPoolService(poolRepo, instanceRepo)
	academySvc := services.NewAcademyService(academyRepo, storageSvc, cacheSvc)

	// Create handlers
	subscriptionHandlers := handlers.NewSubscriptionHandlers(subscriptionSvc)
	planHandlers := handlers.NewPlanHandlers()
	instanceHandlers := handlers.NewInstanceHandlers(instanceSvc)
	poolHandlers := handlers.NewPoolHandlers(poolSvc)
	userHandlers := handlers.NewUserHandlers(userRepo)
	academyHandlers := handlers.NewAcademyHandlers(academySvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// JWT validation against the OAuth provider's JWKS, HMAC fallback in dev
	authConfig, err := middleware.NewAuthConfig(cfg.OAuthJWKSURL, jwtSecret)
	if err != nil {
		log.Fatalf("Failed to configure token validation: %v", err)
	}

	accessGate := middleware.NewAccessGate(subscriptionSvc, instanceRepo)

	// Background expiry sweep
	sweeper, err := jobs.NewExpirySweeper(subscriptionRepo)
	if err != nil {
		log.Fatalf("Failed to initialize expiry sweeper: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Protected routes (require a valid token)
	api := e.Group("/api")
	api.Use(echojwt.WithConfig(authConfig))

	api.GET("/me", userHandlers.Me)

	// Plan catalog (read-only, any signed-in user)
	api.GET("/plans", planHandlers.ListPlans)
	api.GET("/plans/:id", planHandlers.GetPlan)

	// Customer surface: gated on subscription state
	customer := api.Group("")
	customer.Use(accessGate.Guard())

	customer.GET("/instances/me", instanceHandlers.GetMyInstance)
	customer.GET("/academy/courses", academyHandlers.ListCourses)
	customer.GET("/academy/courses/:id", academyHandlers.GetCourse)
	customer.GET("/academy/lessons/:id", academyHandlers.GetLesson)

	// Billing surface: reachable even when the subscription has lapsed,
	// otherwise a customer could never renew
	api.POST("/subscriptions", subscriptionHandlers.CreateSubscription)
	api.PUT("/subscriptions/:id/extend", subscriptionHandlers.ExtendSubscription)
	api.GET("/subscriptions/:id", subscriptionHandlers.GetSubscription)
	api.GET("/instances/:id/subscriptions", subscriptionHandlers.ListSubscriptions)
	api.GET("/instances/:id/entitlement", subscriptionHandlers.GetEntitlement)
	api.POST("/instances", instanceHandlers.CreateInstance)

	// Payment processor callback
	api.POST("/subscriptions/update-status", subscriptionHandlers.UpdateStatus)

	// Admin surface
	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/users", userHandlers.ListUsers)
	admin.GET("/users/:id", userHandlers.GetUser)
	admin.POST("/users", userHandlers.CreateUser)
	admin.PUT("/users/:id", userHandlers.UpdateUser)
	admin.DELETE("/users/:id", userHandlers.DeleteUser)

	admin.GET("/instances", instanceHandlers.ListInstances)
	admin.GET("/instances/:id", instanceHandlers.GetInstance)
	admin.PUT("/instances/:id", instanceHandlers.UpdateInstance)
	admin.POST("/instances/:id/logo", instanceHandlers.UploadLogo)
	admin.DELETE("/instances/:id", instanceHandlers.DeleteInstance)

	admin.GET("/pools", poolHandlers.ListPools)
	admin.POST("/pools", poolHandlers.CreatePool)
	admin.GET("/pools/:id", poolHandlers.GetPool)
	admin.PUT("/pools/:id", poolHandlers.UpdatePool)
	admin.DELETE("/pools/:id", poolHandlers.DeletePool)
	admin.GET("/pools/:id/instances", poolHandlers.GetPoolInstances)
	admin.POST("/pools/:id/instances", poolHandlers.AssignInstance)
	admin.DELETE("/pools/:id/instances/:instanceId", poolHandlers.UnassignInstance)

	admin.DELETE("/subscriptions/:id", subscriptionHandlers.DeleteSubscription)

	log.Printf("Cloudpanel server v%s starting on port %d", version, cfg.Port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}

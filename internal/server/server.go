package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"sqlgenie/internal/config"
	"sqlgenie/internal/database"
	"sqlgenie/internal/handlers"
	"sqlgenie/internal/llm"
	"sqlgenie/internal/mailer"
	"sqlgenie/internal/middlewares"
	"sqlgenie/internal/repositories"
	"sqlgenie/internal/routes"
	"sqlgenie/internal/services"
)

// NewServer wires the whole application together and returns the HTTP server
// plus a cleanup func that closes the backing connections.
func NewServer() (*http.Server, func()) {
	cfg := config.Load()

	pool, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		log.Println("Connected to Redis successfully")
	}

	// Dependency injection
	userRepo := repositories.NewUserRepository(pool)
	historyRepo := repositories.NewQueryHistoryRepository(pool)
	tokenStore := repositories.NewTokenStore(rdb)

	authService := services.NewAuthService(userRepo, tokenStore, mailer.LogMailer{})
	userService := services.NewUserService(userRepo)

	// A nil interface keeps the service on the synthesizer-only path when no
	// API key is configured.
	var generator services.Generator
	if client := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel); client != nil {
		generator = client
	} else {
		log.Println("OPENAI_API_KEY not set, using rule-based SQL synthesis only")
	}
	generateService := services.NewGenerateService(generator, historyRepo)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	generateHandler := handlers.NewGenerateHandler(generateService)

	limiter := middlewares.NewRateLimiter(cfg.GenerateRateLimit, cfg.GenerateRateBurst)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(router, authHandler, userHandler, generateHandler, limiter)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	cleanup := func() {
		pool.Close()
		if err := rdb.Close(); err != nil {
			log.Printf("error closing Redis client: %v", err)
		}
	}

	return server, cleanup
}

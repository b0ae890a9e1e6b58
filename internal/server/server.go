package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/recipebox/backend/config"
	"github.com/recipebox/backend/internal/api"
	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/router"
	"github.com/recipebox/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New wires the database, services and handlers into a ready-to-start
// server.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg.S3BucketName)
	if err != nil {
		return nil, err
	}

	var limiter *middleware.RateLimiter
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     120,
			KeyPrefix: "ratelimit",
		})
	} else {
		log.Println("Redis not configured, rate limiting disabled")
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	imageService := service.NewImageService(s3Config, cfg.MediaDir)
	recipeService := service.NewRecipeService(db, imageService)
	relationService := service.NewRelationService(db)
	shoppingListService := service.NewShoppingListService(db)

	authHandler := api.NewAuthHandler(authService, relationService)
	recipeHandler := api.NewRecipeHandler(authService, recipeService, relationService, shoppingListService)
	catalogHandler := api.NewCatalogHandler(authService, service.NewCatalogService(db))

	engine := router.SetupRouter(authHandler, recipeHandler, catalogHandler, cfg.AllowedOrigins, cfg.MediaDir, limiter)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
		db: db,
	}, nil
}

// Start starts the server
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

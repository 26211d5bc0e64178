package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"camerastore/internal/config"
	custommiddleware "camerastore/internal/middleware"
	"camerastore/internal/repository"
	"camerastore/internal/service"
	"camerastore/internal/storage"
	"camerastore/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	router := chi.NewRouter()

	// Basic middleware stack
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Image store backing the product image uploads
	images, err := storage.NewImageStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	// Redis backs rate limiting on the auth endpoints
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg.JWT.Secret)
	catalogService := service.NewCatalogService(productRepo, categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	userAdminService := service.NewUserAdminService(userRepo, refreshTokenRepo)

	// Handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	productHandler := transport.NewProductHandler(catalogService, images, logger)
	reviewHandler := transport.NewReviewHandler(reviewService, logger)
	adminUserHandler := transport.NewAdminUserHandler(userAdminService, logger)

	// Route guards
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminOnly := custommiddleware.RequireAdmin(logger)
	moderatorOnly := custommiddleware.RequireModerator(logger)

	// Login and registration are rate limited per client
	authRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
		KeyPrefix:         "rl:auth",
	}, logger)

	router.Group(func(r chi.Router) {
		r.Use(authRateLimit)
		authHandler.RegisterRoutes(r, authMiddleware)
	})
	productHandler.RegisterRoutes(router, authMiddleware, adminOnly)
	reviewHandler.RegisterRoutes(router, authMiddleware, moderatorOnly)
	adminUserHandler.RegisterRoutes(router, authMiddleware, adminOnly)

	// Uploaded product images are served statically
	router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(images.Dir()))))

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

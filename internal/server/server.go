package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avelinadev/devflow/backend/internal/cache"
	"github.com/avelinadev/devflow/backend/internal/config"
	"github.com/avelinadev/devflow/backend/internal/database"
	"github.com/avelinadev/devflow/backend/internal/handlers"
	"github.com/avelinadev/devflow/backend/internal/middleware"
	"github.com/avelinadev/devflow/backend/internal/search"
	"github.com/avelinadev/devflow/backend/internal/services"
	"github.com/avelinadev/devflow/backend/internal/webhook"
)

// Server wires the database, cache, search index and handlers together.
type Server struct {
	cfg     config.Config
	db      database.Service
	store   cache.Store
	index   *search.Index
	handler *handlers.Handler
}

// New builds the full application from configuration. Redis and
// Meilisearch are optional: without them the page cache is a no-op and
// question search falls back to SQL matching.
func New(cfg config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	var store cache.Store = cache.Noop{}
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Printf("cache: redis unavailable, page cache disabled: %v", err)
		} else {
			store = redisStore
			log.Println("✅ Redis page cache connected")
		}
	}

	var index *search.Index
	if cfg.MeiliURL != "" {
		index = search.New(cfg.MeiliURL, cfg.MeiliMasterKey)
	}

	verifier, err := webhook.NewVerifier(cfg.WebhookSecret, cfg.WebhookTolerance)
	if err != nil {
		return nil, err
	}

	svc := services.New(db.GetDB(), store, index)

	return &Server{
		cfg:     cfg,
		db:      db,
		store:   store,
		index:   index,
		handler: handlers.NewHandler(svc, verifier),
	}, nil
}

// HTTPServer returns the configured HTTP server, ready to listen.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Close releases the server's connections.
func (s *Server) Close() {
	if s.index != nil {
		s.index.Close()
	}
	if redisStore, ok := s.store.(*cache.Redis); ok {
		if err := redisStore.Close(); err != nil {
			log.Printf("cache: close: %v", err)
		}
	}
	if err := s.db.Close(); err != nil {
		log.Printf("database: close: %v", err)
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(s.cfg.CORSOrigin, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(s.cfg.JWTSecret))
	api.Use(middleware.PageCache(s.store))
	{
		// Identity-provider webhook (verified by signature, not by token)
		api.POST("/webhooks/clerk", s.handler.Webhook.HandleClerkEvent)

		// Question routes (public reads)
		api.GET("/questions", s.handler.Question.GetQuestions)
		api.GET("/questions/hot", s.handler.Question.GetHotQuestions)
		api.GET("/questions/:id", s.handler.Question.GetQuestion)
		api.POST("/questions/:id/view", s.handler.Question.ViewQuestion)

		// Answer routes (public reads)
		api.GET("/questions/:id/answers", s.handler.Answer.GetAnswers)

		// Tag routes (public reads)
		api.GET("/tags", s.handler.Tag.GetTags)
		api.GET("/tags/:id/questions", s.handler.Tag.GetTagQuestions)

		// User routes (public reads)
		api.GET("/users", s.handler.User.GetUsers)
		api.GET("/users/:clerkId", s.handler.User.GetUserProfile)
		api.GET("/users/:clerkId/questions", s.handler.User.GetUserQuestions)
		api.GET("/users/:clerkId/answers", s.handler.User.GetUserAnswers)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.cfg.JWTSecret))
		{
			protected.GET("/me", s.handler.User.GetMe)
			protected.PUT("/me", s.handler.User.UpdateMe)
			protected.GET("/collection", s.handler.User.GetSavedQuestions)
			protected.GET("/recommended", s.handler.Question.GetRecommended)
			protected.POST("/me/reputation/recompute", s.handler.User.RecomputeReputation)

			// Question protected routes
			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.PUT("/questions/:id", s.handler.Question.EditQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)
			protected.POST("/questions/:id/vote", s.handler.Question.VoteQuestion)
			protected.POST("/questions/:id/save", s.handler.Question.SaveQuestion)

			// Answer protected routes
			protected.POST("/questions/:id/answers", s.handler.Answer.CreateAnswer)
			protected.DELETE("/answers/:answerId", s.handler.Answer.DeleteAnswer)
			protected.POST("/answers/:answerId/vote", s.handler.Answer.VoteAnswer)
		}
	}

	return r
}

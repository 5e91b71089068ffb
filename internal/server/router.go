package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skillalchemy/skillalchemy-backend/internal/handlers"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/middleware"
)

type RouterConfig struct {
	Log                   *logger.Logger
	HealthcheckHandler    *handlers.HealthcheckHandler
	RecommendationHandler *handlers.RecommendationHandler
	AllowOrigins          []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Log))

	// Cors
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With", "X-Request-ID"},
	}))

	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.GET("/recommend/:recType/:userID", cfg.RecommendationHandler.Recommend)

	return router
}

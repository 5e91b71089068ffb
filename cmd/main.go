package main

import (
	"fmt"
	"os"

	"github.com/skillalchemy/skillalchemy-backend/internal/app"
	"github.com/skillalchemy/skillalchemy-backend/internal/db"
	"github.com/skillalchemy/skillalchemy-backend/internal/handlers"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/repos"
	"github.com/skillalchemy/skillalchemy-backend/internal/server"
	"github.com/skillalchemy/skillalchemy-backend/internal/services"
)

func main() {
	// Logger
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

	// Config
	cfg, err := app.Load(log)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	defer postgresService.Close()
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)
	interactionRepo := repos.NewInteractionRepo(thePG, log)
	userFeatureRepo := repos.NewUserFeatureRepo(thePG, log)
	modelArtifactRepo := repos.NewModelArtifactRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	classifier := services.NewStyleClassifier(log, userFeatureRepo, modelArtifactRepo)
	recommender := services.NewRecommendationService(log, courseRepo, interactionRepo, modelArtifactRepo)
	adaptive := services.NewAdaptiveLearningService(log, userRepo, courseRepo, interactionRepo, userFeatureRepo, classifier, recommender)

	// Handlers
	healthcheckHandler := handlers.NewHealthcheckHandler()
	recommendationHandler := handlers.NewRecommendationHandler(log, adaptive)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:                   log,
		HealthcheckHandler:    healthcheckHandler,
		RecommendationHandler: recommendationHandler,
	})

	log.Info("Starting HTTP server", "port", cfg.HTTPPort)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("HTTP server exited", "error", err)
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/skillalchemy/skillalchemy-backend/internal/app"
	"github.com/skillalchemy/skillalchemy-backend/internal/db"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/repos"
	"github.com/skillalchemy/skillalchemy-backend/internal/services"
)

// Trains the learning style ensemble on the current user_data table and
// stores the artifact.
func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := app.Load(log)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	postgresService, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	defer postgresService.Close()
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	classifier := services.NewStyleClassifier(
		log,
		repos.NewUserFeatureRepo(thePG, log),
		repos.NewModelArtifactRepo(thePG, log),
	)

	report, err := classifier.Train(context.Background())
	if err != nil {
		log.Fatal("Training failed", "error", err)
	}
	log.Info("Training complete",
		"accuracy", report.Accuracy,
		"precision", report.Precision,
		"recall", report.Recall,
		"f1", report.F1,
	)
}

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

// Rebuilds the user_data feature table from users, courses and interactions.
// Run before retraining either model.
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

	preprocess := services.NewPreprocessService(
		log,
		repos.NewUserRepo(thePG, log),
		repos.NewCourseRepo(thePG, log),
		repos.NewInteractionRepo(thePG, log),
		repos.NewUserFeatureRepo(thePG, log),
	)

	rows, err := preprocess.Run(context.Background())
	if err != nil {
		log.Fatal("Preprocessing failed", "rows_written", rows, "error", err)
	}
	log.Info("Preprocessing complete", "rows_written", rows)
}

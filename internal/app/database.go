package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/adamistheanswer/pokebay/config"
	"github.com/adamistheanswer/pokebay/internal/repository"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB       *repository.MongoDB
	RunsRepo *repository.RunsRepository
}

// InitializeDatabase initializes the MongoDB connection and the runs
// repository. Returns nil if the database is disabled or unreachable; the
// service runs without run history in that case.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without run history")
		return nil
	}

	log.Info().Msg("Connected to MongoDB")

	runsRepo := repository.NewRunsRepository(db)
	if err := runsRepo.EnsureIndexes(context.Background(), cfg.RunsTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to create runs indexes (may already exist)")
	}

	return &DatabaseComponents{
		DB:       db,
		RunsRepo: runsRepo,
	}
}

package main

import (
	"os"

	"github.com/pushp314/nexuschat-backend/internal/config"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/pushp314/nexuschat-backend/internal/seeds"
	"github.com/pushp314/nexuschat-backend/pkg/logger"
)

func main() {
	config.LoadConfig()
	logger.Init("development")

	database.Connect()

	tableModels := []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Channel{},
		&models.ChannelMember{},
		&models.Message{},
		&models.Reaction{},
		&models.Friendship{},
		&models.VoiceSession{},
		&models.VoiceParticipant{},
	}
	for _, m := range tableModels {
		if err := database.DB.AutoMigrate(m); err != nil {
			logger.Fatal().Err(err).Msgf("Failed to migrate table for %T", m)
		}
	}

	if err := seeds.Run(database.DB); err != nil {
		logger.Error().Err(err).Msg("Seeding failed")
		os.Exit(1)
	}
}

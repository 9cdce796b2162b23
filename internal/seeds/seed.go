package seeds

import (
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/pushp314/nexuschat-backend/pkg/logger"
	"github.com/pushp314/nexuschat-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run populates a development database with demo users, a channel and a few
// messages. Idempotent: existing emails are skipped.
func Run(db *gorm.DB) error {
	demoUsers := []struct {
		email    string
		name     string
		username string
	}{
		{"alice@example.com", "Alice Park", "alice"},
		{"bob@example.com", "Bob Tran", "bob"},
		{"carol@example.com", "Carol Mendez", "carol"},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var users []models.User
	for _, du := range demoUsers {
		var existing models.User
		if err := db.First(&existing, "email = ?", du.email).Error; err == nil {
			users = append(users, existing)
			continue
		}

		user := models.User{Email: du.email, Name: du.name, Password: string(hashed)}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		profile := models.Profile{UserID: user.ID, Username: du.username, Status: models.StatusOnline}
		if err := db.Create(&profile).Error; err != nil {
			return err
		}
		users = append(users, user)
	}

	var channelCount int64
	db.Model(&models.Channel{}).Count(&channelCount)
	if channelCount > 0 {
		logger.Info().Msg("Seed: channels already present, skipping")
		return nil
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return err
	}

	channel := models.Channel{
		Name:        "general",
		Description: "Town square",
		CreatedBy:   users[0].ID,
		InviteCode:  code,
	}
	if err := db.Create(&channel).Error; err != nil {
		return err
	}

	for i, user := range users {
		role := models.RoleMember
		if i == 0 {
			role = models.RoleAdmin
		}
		member := models.ChannelMember{ChannelID: channel.ID, UserID: user.ID, Role: role}
		if err := db.Create(&member).Error; err != nil {
			return err
		}
	}

	welcome := models.Message{
		Content:   "Welcome to #general!",
		ChannelID: &channel.ID,
		AuthorID:  users[0].ID,
	}
	if err := db.Create(&welcome).Error; err != nil {
		return err
	}

	logger.Info().Int("users", len(users)).Msg("Seed complete")
	return nil
}

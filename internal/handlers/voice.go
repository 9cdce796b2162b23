package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/pushp314/nexuschat-backend/pkg/errors"
	"gorm.io/gorm"
)

// JoinVoice puts the caller into the channel's voice session, creating and
// activating the session on first join. Joining twice is a no-op.
func JoinVoice(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	channelId := c.Param("id")

	if getMembership(channelId, userId) == nil {
		c.JSON(errors.ErrNotAMember.Code, gin.H{"error": errors.ErrNotAMember.Message})
		return
	}

	var session models.VoiceSession
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelId).First(&session).Error; err != nil {
			session = models.VoiceSession{ChannelID: channelId, IsActive: true}
			if err := tx.Create(&session).Error; err != nil {
				return err
			}
		} else if !session.IsActive {
			if err := tx.Model(&session).Update("is_active", true).Error; err != nil {
				return err
			}
		}

		var existing models.VoiceParticipant
		err := tx.Where("session_id = ? AND user_id = ?", session.ID, userId).First(&existing).Error
		if err == nil {
			return nil
		}

		participant := models.VoiceParticipant{SessionID: session.ID, UserID: userId}
		if err := tx.Create(&participant).Error; err != nil && !database.IsUniqueViolation(err) {
			return err
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join voice"})
		return
	}

	broadcastToChannel(channelId, "voice_participant_joined", gin.H{
		"channelId": channelId,
		"userId":    userId,
	})

	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID})
}

// LeaveVoice removes the caller from the session and deactivates it when
// the last participant leaves
func LeaveVoice(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	channelId := c.Param("id")

	var session models.VoiceSession
	if err := database.DB.Where("channel_id = ?", channelId).First(&session).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"left": false})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ? AND user_id = ?", session.ID, userId).
			Delete(&models.VoiceParticipant{}).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&models.VoiceParticipant{}).
			Where("session_id = ?", session.ID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Model(&session).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave voice"})
		return
	}

	broadcastToChannel(channelId, "voice_participant_left", gin.H{
		"channelId": channelId,
		"userId":    userId,
	})

	c.JSON(http.StatusOK, gin.H{"left": true})
}

// GetVoiceParticipants lists the active session's participants with
// resolved identities. Non-members get an empty list.
func GetVoiceParticipants(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	channelId := c.Param("id")

	if getMembership(channelId, userId) == nil {
		c.JSON(http.StatusOK, gin.H{"participants": []models.Identity{}})
		return
	}

	var session models.VoiceSession
	if err := database.DB.Where("channel_id = ? AND is_active = ?", channelId, true).
		First(&session).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"participants": []models.Identity{}})
		return
	}

	var participants []models.VoiceParticipant
	if err := database.DB.Where("session_id = ?", session.ID).Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants"})
		return
	}

	identities := make([]models.Identity, 0, len(participants))
	for _, p := range participants {
		identities = append(identities, resolveUserIdentity(p.UserID, models.StatusOnline))
	}

	c.JSON(http.StatusOK, gin.H{"participants": identities})
}

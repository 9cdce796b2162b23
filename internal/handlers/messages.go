package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/pushp314/nexuschat-backend/pkg/errors"
)

const (
	messagePageSize = 100
	sendRateLimit   = 30 // messages per user per minute
)

type enrichedMessage struct {
	models.Message
	Author    models.Identity                  `json:"author"`
	Reactions map[string]*models.ReactionGroup `json:"reactions"`
}

// ListMessages returns up to 100 enriched messages for a channel or a direct
// conversation. Exactly one of channelId/recipientId must be supplied.
// The window is the newest 100, served oldest-first; `before` pages further
// back in history. Channel reads by non-members degrade to an empty list.
func ListMessages(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	channelId := c.Query("channelId")
	recipientId := c.Query("recipientId")

	if (channelId == "") == (recipientId == "") {
		c.JSON(errors.ErrAmbiguousTarget.Code, gin.H{"error": errors.ErrAmbiguousTarget.Message})
		return
	}

	query := database.DB.Model(&models.Message{})

	if channelId != "" {
		if getMembership(channelId, userId) == nil {
			c.JSON(http.StatusOK, gin.H{"messages": []enrichedMessage{}})
			return
		}
		query = query.Where("channel_id = ?", channelId)
	} else {
		query = query.Where(
			"is_direct_message = ? AND ((author_id = ? AND recipient_id = ?) OR (author_id = ? AND recipient_id = ?))",
			true, userId, recipientId, recipientId, userId,
		)
	}

	// Optional cursor on top of the hard cap
	if before := c.Query("before"); before != "" {
		t, err := time.Parse(time.RFC3339, before)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid before cursor"})
			return
		}
		query = query.Where("created_at < ?", t)
	}

	var messages []models.Message
	if err := query.Order("created_at desc").Limit(messagePageSize).Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	// Fetched newest-first so the cap keeps the latest window; clients
	// render oldest-first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	c.JSON(http.StatusOK, gin.H{"messages": enrichMessages(messages)})
}

func enrichMessages(messages []models.Message) []enrichedMessage {
	enriched := make([]enrichedMessage, 0, len(messages))
	for _, msg := range messages {
		var reactions []models.Reaction
		database.DB.Where("message_id = ?", msg.ID).Find(&reactions)

		if msg.ImageStorageKey != nil && *msg.ImageStorageKey != "" {
			msg.ImageURL = ResolveStorageURL(*msg.ImageStorageKey)
		}

		enriched = append(enriched, enrichedMessage{
			Message:   msg,
			Author:    resolveUserIdentity(msg.AuthorID, models.StatusOnline),
			Reactions: models.GroupReactions(reactions),
		})
	}
	return enriched
}

type sendMessageRequest struct {
	Content         string  `json:"content" binding:"required"`
	ChannelID       *string `json:"channelId"`
	RecipientID     *string `json:"recipientId"`
	ReplyTo         *string `json:"replyTo"`
	ImageStorageKey *string `json:"imageStorageKey"`
}

// SendMessage appends a message to a channel or a direct conversation.
// Channel sends require membership; DMs require only authentication.
func SendMessage(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	hasChannel := req.ChannelID != nil && *req.ChannelID != ""
	hasRecipient := req.RecipientID != nil && *req.RecipientID != ""
	if hasChannel == hasRecipient {
		c.JSON(errors.ErrAmbiguousTarget.Code, gin.H{"error": errors.ErrAmbiguousTarget.Message})
		return
	}

	// Per-user send throttle on top of the per-IP limiter; fails open
	// when Redis is down
	if allowed, err := database.CheckRateLimit(userId, sendRateLimit, time.Minute); err == nil && !allowed {
		c.JSON(errors.ErrRateLimit.Code, gin.H{"error": errors.ErrRateLimit.Message})
		return
	}

	msg := models.Message{
		Content:         req.Content,
		AuthorID:        userId,
		ReplyToID:       req.ReplyTo,
		ImageStorageKey: req.ImageStorageKey,
	}

	if hasChannel {
		if getMembership(*req.ChannelID, userId) == nil {
			c.JSON(errors.ErrNotAMember.Code, gin.H{"error": errors.ErrNotAMember.Message})
			return
		}
		msg.ChannelID = req.ChannelID
	} else {
		var recipient models.User
		if err := database.DB.Select("id").First(&recipient, "id = ?", *req.RecipientID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
			return
		}
		msg.IsDirectMessage = true
		msg.RecipientID = req.RecipientID
	}

	if err := database.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	payload := gin.H{"message": enrichMessages([]models.Message{msg})[0]}
	if hasChannel {
		broadcastToChannel(*msg.ChannelID, "new_message", payload)
	} else {
		broadcastToUser(*msg.RecipientID, "new_message", payload)
		// Sender's other devices stay in sync
		broadcastToUser(userId, "new_message", payload)
	}

	c.JSON(http.StatusCreated, gin.H{"messageId": msg.ID})
}

type reactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// canAccessMessage applies the same authorization as reading the message:
// channel membership for channel messages, participancy for DMs
func canAccessMessage(msg *models.Message, userID string) bool {
	if msg.ChannelID != nil && *msg.ChannelID != "" {
		return getMembership(*msg.ChannelID, userID) != nil
	}
	if msg.AuthorID == userID {
		return true
	}
	return msg.RecipientID != nil && *msg.RecipientID == userID
}

// AddReaction toggles the caller's reaction on a message: an existing
// (message, user, emoji) row is deleted, otherwise one is inserted
func AddReaction(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	messageId := c.Param("id")

	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Emoji required"})
		return
	}

	var msg models.Message
	if err := database.DB.First(&msg, "id = ?", messageId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	if !canAccessMessage(&msg, userId) {
		c.JSON(errors.ErrForbidden.Code, gin.H{"error": errors.ErrForbidden.Message})
		return
	}

	var existing models.Reaction
	err := database.DB.
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageId, userId, req.Emoji).
		First(&existing).Error

	var added bool
	if err == nil {
		if err := database.DB.Delete(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove reaction"})
			return
		}
	} else {
		reaction := models.Reaction{
			MessageID: messageId,
			UserID:    userId,
			Emoji:     req.Emoji,
		}
		if err := database.DB.Create(&reaction).Error; err != nil && !database.IsUniqueViolation(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add reaction"})
			return
		}
		added = true
	}

	event := gin.H{"messageId": messageId, "userId": userId, "emoji": req.Emoji, "added": added}
	if msg.ChannelID != nil && *msg.ChannelID != "" {
		broadcastToChannel(*msg.ChannelID, "reaction_updated", event)
	} else {
		broadcastToUser(msg.AuthorID, "reaction_updated", event)
		if msg.RecipientID != nil {
			broadcastToUser(*msg.RecipientID, "reaction_updated", event)
		}
	}

	c.JSON(http.StatusOK, gin.H{"added": added})
}

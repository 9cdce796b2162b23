package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/pushp314/nexuschat-backend/pkg/errors"
	"github.com/pushp314/nexuschat-backend/pkg/utils"
	"gorm.io/gorm"
)

const inviteCodeMaxAttempts = 5

// inviteCodeSource is swapped in tests to force collisions
var inviteCodeSource = utils.GenerateInviteCode

// getMembership resolves the caller's membership row for a channel.
// A nil result means the caller has no access to channel-scoped data.
func getMembership(channelID, userID string) *models.ChannelMember {
	var membership models.ChannelMember
	err := database.DB.
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&membership).Error
	if err != nil {
		return nil
	}
	return &membership
}

// newUniqueInviteCode draws codes until one clears the unique index,
// bounded so a saturated code space fails descriptively instead of looping
func newUniqueInviteCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < inviteCodeMaxAttempts; attempt++ {
		code, err := inviteCodeSource()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.Channel{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.ErrCodeGenExhausted
}

type channelWithMeta struct {
	models.Channel
	MemberCount int64              `json:"memberCount"`
	UserRole    models.ChannelRole `json:"userRole"`
}

// ListChannels returns the channels the caller belongs to, with member
// count and the caller's role
func ListChannels(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var memberships []models.ChannelMember
	if err := database.DB.Where("user_id = ?", userId).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch channels"})
		return
	}

	channels := make([]channelWithMeta, 0, len(memberships))
	for _, membership := range memberships {
		var channel models.Channel
		if err := database.DB.First(&channel, "id = ?", membership.ChannelID).Error; err != nil {
			continue
		}

		var memberCount int64
		database.DB.Model(&models.ChannelMember{}).
			Where("channel_id = ?", channel.ID).
			Count(&memberCount)

		// Invite codes are only surfaced through the dedicated endpoint
		channel.InviteCode = ""

		channels = append(channels, channelWithMeta{
			Channel:     channel,
			MemberCount: memberCount,
			UserRole:    membership.EffectiveRole(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

type memberWithIdentity struct {
	models.ChannelMember
	Identity models.Identity `json:"identity"`
}

// GetChannelMembers lists members with resolved identities.
// Non-members get an empty list, not an error.
func GetChannelMembers(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	channelId := c.Param("id")

	if getMembership(channelId, userId) == nil {
		c.JSON(http.StatusOK, gin.H{"members": []memberWithIdentity{}})
		return
	}

	var members []models.ChannelMember
	if err := database.DB.Where("channel_id = ?", channelId).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	result := make([]memberWithIdentity, 0, len(members))
	for _, member := range members {
		member.Role = member.EffectiveRole()
		result = append(result, memberWithIdentity{
			ChannelMember: member,
			Identity:      resolveUserIdentity(member.UserID, models.StatusOnline),
		})
	}

	c.JSON(http.StatusOK, gin.H{"members": result})
}

type createChannelRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=64"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"isPrivate"`
}

// CreateChannel creates a channel and its creator's admin membership in one
// transaction
func CreateChannel(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var channel models.Channel
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		code, err := newUniqueInviteCode(tx)
		if err != nil {
			return err
		}

		channel = models.Channel{
			Name:        req.Name,
			Description: req.Description,
			IsPrivate:   req.IsPrivate,
			CreatedBy:   userId,
			InviteCode:  code,
		}
		if err := tx.Create(&channel).Error; err != nil {
			return err
		}

		membership := models.ChannelMember{
			ChannelID: channel.ID,
			UserID:    userId,
			Role:      models.RoleAdmin,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create channel"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"channelId": channel.ID, "channel": channel})
}

// JoinChannel inserts a member-role membership; joining twice is a no-op
func JoinChannel(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	channelId := c.Param("id")

	var channel models.Channel
	if err := database.DB.First(&channel, "id = ?", channelId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		return
	}

	if existing := getMembership(channelId, userId); existing != nil {
		c.JSON(http.StatusOK, gin.H{"channelId": channelId})
		return
	}

	membership := models.ChannelMember{
		ChannelID: channelId,
		UserID:    userId,
		Role:      models.RoleMember,
	}
	if err := database.DB.Create(&membership).Error; err != nil {
		// Raced with an identical join; the membership exists either way
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusOK, gin.H{"channelId": channelId})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join channel"})
		return
	}

	broadcastToChannel(channelId, "member_joined", gin.H{
		"channelId": channelId,
		"userId":    userId,
	})

	c.JSON(http.StatusOK, gin.H{"channelId": channelId})
}

type joinByInviteRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// JoinByInvite grants membership to whoever presents a valid code.
// Idempotent for existing members.
func JoinByInvite(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req joinByInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invite code required"})
		return
	}

	var channel models.Channel
	if err := database.DB.First(&channel, "invite_code = ?", req.InviteCode).Error; err != nil {
		c.JSON(errors.ErrInvalidInvite.Code, gin.H{"error": errors.ErrInvalidInvite.Message})
		return
	}

	if existing := getMembership(channel.ID, userId); existing != nil {
		c.JSON(http.StatusOK, gin.H{"channelId": channel.ID})
		return
	}

	membership := models.ChannelMember{
		ChannelID: channel.ID,
		UserID:    userId,
		Role:      models.RoleMember,
	}
	if err := database.DB.Create(&membership).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusOK, gin.H{"channelId": channel.ID})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join channel"})
		return
	}

	broadcastToChannel(channel.ID, "member_joined", gin.H{
		"channelId": channel.ID,
		"userId":    userId,
	})

	c.JSON(http.StatusOK, gin.H{"channelId": channel.ID})
}

// GetInviteCode returns the channel's code to members; non-members get null
func GetInviteCode(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	channelId := c.Param("id")

	if getMembership(channelId, userId) == nil {
		c.JSON(http.StatusOK, gin.H{"inviteCode": nil})
		return
	}

	var channel models.Channel
	if err := database.DB.First(&channel, "id = ?", channelId).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"inviteCode": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inviteCode": channel.InviteCode})
}

// RegenerateInvite rotates the invite code. Admin or moderator only; the
// old code stops working the moment the new one is stored.
func RegenerateInvite(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	channelId := c.Param("id")

	membership := getMembership(channelId, userId)
	if membership == nil || !membership.CanManageInvites() {
		c.JSON(errors.ErrForbidden.Code, gin.H{"error": errors.ErrForbidden.Message})
		return
	}

	var newCode string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		code, err := newUniqueInviteCode(tx)
		if err != nil {
			return err
		}
		newCode = code
		return tx.Model(&models.Channel{}).
			Where("id = ?", channelId).
			Update("invite_code", code).Error
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate invite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inviteCode": newCode})
}

// resolveUserIdentity loads user+profile rows and runs the shared fallback
// chain. Missing rows resolve to synthesized defaults.
func resolveUserIdentity(userID string, fallbackStatus models.PresenceStatus) models.Identity {
	var user models.User
	var userPtr *models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
		userPtr = &user
	}

	var profile models.Profile
	var profilePtr *models.Profile
	if err := database.DB.First(&profile, "user_id = ?", userID).Error; err == nil {
		profilePtr = &profile
	}

	identity := models.ResolveIdentity(userPtr, profilePtr, fallbackStatus)
	identity.UserID = userID
	return identity
}

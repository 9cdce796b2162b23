package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/pushp314/nexuschat-backend/pkg/errors"
)

const searchPageSize = 10

// GetProfile returns the merged user+profile for the given user id, or the
// caller when the param is "me". Profiles by id are readable without a
// token; "me" requires one.
func GetProfile(c *gin.Context) {
	targetId := c.Param("id")
	if targetId == "" || targetId == "me" {
		callerId, ok := c.Get("userId")
		if !ok || callerId.(string) == "" {
			c.JSON(errors.ErrUnauthorized.Code, gin.H{"error": errors.ErrUnauthorized.Message})
			return
		}
		targetId = callerId.(string)
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", targetId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var profile models.Profile
	var profilePtr *models.Profile
	if err := database.DB.First(&profile, "user_id = ?", targetId).Error; err == nil {
		profilePtr = &profile
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"profile":  profilePtr,
		"identity": models.ResolveIdentity(&user, profilePtr, models.StatusOnline),
	})
}

type updateProfileRequest struct {
	Username     *string                `json:"username"`
	DisplayName  *string                `json:"displayName"`
	Bio          *string                `json:"bio"`
	AvatarURL    *string                `json:"avatarUrl"`
	Status       *models.PresenceStatus `json:"status"`
	CustomStatus *string                `json:"customStatus"`
}

// UpdateProfile upserts the caller's profile. The profile row is created on
// the first update; a username belonging to another user is rejected.
func UpdateProfile(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Status != nil && !models.IsValidPresenceStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if req.Username != nil && *req.Username != "" {
		var existing models.Profile
		err := database.DB.First(&existing, "username = ?", *req.Username).Error
		if err == nil && existing.UserID != userId {
			c.JSON(errors.ErrUsernameTaken.Code, gin.H{"error": errors.ErrUsernameTaken.Message})
			return
		}
	}

	var profile models.Profile
	err := database.DB.First(&profile, "user_id = ?", userId).Error
	if err != nil {
		// First update creates the row, defaulting the username through the
		// same fallback chain used on reads
		profile = models.Profile{
			UserID:   userId,
			Username: resolveUserIdentity(userId, models.StatusOnline).Username,
			Status:   models.StatusOnline,
		}
	}

	if req.Username != nil && *req.Username != "" {
		profile.Username = *req.Username
	}
	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Status != nil {
		profile.Status = *req.Status
	}
	if req.CustomStatus != nil {
		profile.CustomStatus = *req.CustomStatus
	}

	if err := database.DB.Save(&profile).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(errors.ErrUsernameTaken.Code, gin.H{"error": errors.ErrUsernameTaken.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	broadcastToUser(userId, "profile_updated", gin.H{"profile": profile})

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// SearchProfiles matches exactly on username or display name, capped at 10
func SearchProfiles(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"profiles": []models.Profile{}})
		return
	}

	var profiles []models.Profile
	err := database.DB.
		Where("username = ? OR display_name = ?", query, query).
		Limit(searchPageSize).
		Find(&profiles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

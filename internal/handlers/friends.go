package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/pushp314/nexuschat-backend/pkg/errors"
)

// findFriendship looks the unordered pair up in either direction, any status
func findFriendship(userA, userB string) *models.Friendship {
	var friendship models.Friendship
	err := database.DB.
		Where("(user_id1 = ? AND user_id2 = ?) OR (user_id1 = ? AND user_id2 = ?)",
			userA, userB, userB, userA).
		First(&friendship).Error
	if err != nil {
		return nil
	}
	return &friendship
}

// ListFriends returns accepted friends with resolved identities. The
// presence fallback here is offline, matching how a friends panel reads.
func ListFriends(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var friendships []models.Friendship
	err := database.DB.
		Where("(user_id1 = ? OR user_id2 = ?) AND status = ?",
			userId, userId, models.FriendshipAccepted).
		Find(&friendships).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	friends := make([]models.Identity, 0, len(friendships))
	for _, friendship := range friendships {
		friendId := friendship.OtherUser(userId)
		identity := resolveUserIdentity(friendId, models.StatusOffline)
		// A friend with no live socket reads as offline whatever their
		// profile says
		if !IsUserOnline(friendId) {
			identity.Status = models.StatusOffline
		}
		friends = append(friends, identity)
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

type friendRequestBody struct {
	RecipientID string `json:"recipientId" binding:"required"`
}

// SendFriendRequest creates a pending friendship. Any existing row relating
// the pair, in either direction and any status, blocks a new request.
func SendFriendRequest(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var req friendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient required"})
		return
	}

	if req.RecipientID == userId {
		c.JSON(errors.ErrSelfRequest.Code, gin.H{"error": errors.ErrSelfRequest.Message})
		return
	}

	var recipient models.User
	if err := database.DB.Select("id").First(&recipient, "id = ?", req.RecipientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if existing := findFriendship(userId, req.RecipientID); existing != nil {
		c.JSON(errors.ErrDuplicateFriendship.Code, gin.H{"error": errors.ErrDuplicateFriendship.Message})
		return
	}

	friendship := models.Friendship{
		UserID1:     userId,
		UserID2:     req.RecipientID,
		Status:      models.FriendshipPending,
		RequestedBy: userId,
	}
	if err := database.DB.Create(&friendship).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(errors.ErrDuplicateFriendship.Code, gin.H{"error": errors.ErrDuplicateFriendship.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send friend request"})
		return
	}

	broadcastToUser(req.RecipientID, "friend_request", gin.H{
		"friendshipId": friendship.ID,
		"requester":    resolveUserIdentity(userId, models.StatusOnline),
	})

	c.JSON(http.StatusCreated, gin.H{"friendshipId": friendship.ID})
}

// AcceptFriendRequest transitions pending -> accepted. Recipient only.
func AcceptFriendRequest(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	friendshipId := c.Param("id")

	var friendship models.Friendship
	if err := database.DB.First(&friendship, "id = ?", friendshipId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
		return
	}

	if friendship.UserID2 != userId {
		c.JSON(errors.ErrForbidden.Code, gin.H{"error": errors.ErrForbidden.Message})
		return
	}

	if err := database.DB.Model(&friendship).
		Update("status", models.FriendshipAccepted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}

	broadcastToUser(friendship.UserID1, "friendship_updated", gin.H{
		"friendshipId": friendship.ID,
		"status":       models.FriendshipAccepted,
	})

	c.JSON(http.StatusOK, gin.H{"status": models.FriendshipAccepted})
}

// RejectFriendRequest deletes the pending row outright. Recipient only;
// no rejected terminal state is kept.
func RejectFriendRequest(c *gin.Context) {
	userId := c.MustGet("userId").(string)
	friendshipId := c.Param("id")

	var friendship models.Friendship
	if err := database.DB.First(&friendship, "id = ?", friendshipId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
		return
	}

	if friendship.UserID2 != userId {
		c.JSON(errors.ErrForbidden.Code, gin.H{"error": errors.ErrForbidden.Message})
		return
	}

	if err := database.DB.Delete(&friendship).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type pendingRequest struct {
	models.Friendship
	Requester models.Identity `json:"requester"`
}

// GetPendingRequests lists incoming pending requests with the requester's
// resolved identity
func GetPendingRequests(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var requests []models.Friendship
	err := database.DB.
		Where("user_id2 = ? AND status = ?", userId, models.FriendshipPending).
		Find(&requests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	result := make([]pendingRequest, 0, len(requests))
	for _, request := range requests {
		result = append(result, pendingRequest{
			Friendship: request,
			Requester:  resolveUserIdentity(request.RequestedBy, models.StatusOnline),
		})
	}

	c.JSON(http.StatusOK, gin.H{"requests": result})
}

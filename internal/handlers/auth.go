package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/pushp314/nexuschat-backend/pkg/errors"
	"github.com/pushp314/nexuschat-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=32"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a user plus their initial profile and returns a token
func Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashed),
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.Profile{
			UserID:   user.ID,
			Username: req.Username,
			Status:   models.StatusOnline,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			var existing models.User
			if database.DB.Select("id").First(&existing, "email = ?", req.Email).Error == nil {
				c.JSON(errors.ErrEmailAlreadyRegistered.Code, gin.H{"error": errors.ErrEmailAlreadyRegistered.Message})
				return
			}
			c.JSON(errors.ErrUsernameTaken.Code, gin.H{"error": errors.ErrUsernameTaken.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		c.JSON(errors.ErrInvalidCredentials.Code, gin.H{"error": errors.ErrInvalidCredentials.Message})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(errors.ErrInvalidCredentials.Code, gin.H{"error": errors.ErrInvalidCredentials.Message})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token via the Redis blacklist
func Logout(c *gin.Context) {
	claimsVal, exists := c.Get("claims")
	if !exists {
		c.JSON(errors.ErrUnauthorized.Code, gin.H{"error": errors.ErrUnauthorized.Message})
		return
	}

	claims := claimsVal.(*utils.Claims)
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > 0 {
		if err := database.BlacklistToken(claims.GetJTI(), ttl); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user with their merged profile
func Me(c *gin.Context) {
	userId := c.MustGet("userId").(string)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var profile models.Profile
	var profilePtr *models.Profile
	if err := database.DB.First(&profile, "user_id = ?", userId).Error; err == nil {
		profilePtr = &profile
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"identity": models.ResolveIdentity(&user, profilePtr, models.StatusOnline),
	})
}

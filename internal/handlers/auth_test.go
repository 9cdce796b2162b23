package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLogin(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	w, c := authedContext("")
	c.Request = jsonRequest("POST", "/api/auth/register", gin.H{
		"email":    "new@example.com",
		"username": "newbie",
		"password": "supersecret",
	})
	Register(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.ID)

	// Profile created alongside the user
	var profile models.Profile
	assert.NoError(t, database.DB.First(&profile, "user_id = ?", resp.User.ID).Error)
	assert.Equal(t, "newbie", profile.Username)

	// Password never serialized
	assert.NotContains(t, w.Body.String(), "supersecret")

	w2, c2 := authedContext("")
	c2.Request = jsonRequest("POST", "/api/auth/login", gin.H{
		"email":    "new@example.com",
		"password": "supersecret",
	})
	Login(c2)
	assert.Equal(t, http.StatusOK, w2.Code)

	w3, c3 := authedContext("")
	c3.Request = jsonRequest("POST", "/api/auth/login", gin.H{
		"email":    "new@example.com",
		"password": "wrongpass",
	})
	Login(c3)
	assert.Equal(t, http.StatusUnauthorized, w3.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	register := func() *gin.Context {
		w, c := authedContext("")
		c.Request = jsonRequest("POST", "/api/auth/register", gin.H{
			"email":    "dupe@example.com",
			"username": "dupe",
			"password": "supersecret",
		})
		Register(c)
		c.Set("status", w.Code)
		return c
	}

	first := register()
	assert.Equal(t, http.StatusCreated, first.MustGet("status"))

	second := register()
	assert.Equal(t, http.StatusConflict, second.MustGet("status"))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	w, c := authedContext("")
	c.Request = jsonRequest("POST", "/api/auth/register", gin.H{
		"email":    "one@example.com",
		"username": "sharedname",
		"password": "supersecret",
	})
	Register(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Fresh email but taken username: conflict names the username
	w2, c2 := authedContext("")
	c2.Request = jsonRequest("POST", "/api/auth/register", gin.H{
		"email":    "two@example.com",
		"username": "sharedname",
		"password": "supersecret",
	})
	Register(c2)
	assert.Equal(t, http.StatusConflict, w2.Code)
	assert.Contains(t, w2.Body.String(), "Username")

	// The failed registration left no half-created user behind
	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", "two@example.com").Count(&count)
	assert.Equal(t, int64(0), count)
}

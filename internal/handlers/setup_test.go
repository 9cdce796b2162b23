package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/config"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testModels = []interface{}{
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

// SetupTestDB initializes a clean in-memory SQLite DB for testing
func SetupTestDB() {
	config.AppConfig = &config.Config{
		JWTSecret:         "test-secret",
		R2AccountID:       "test-account",
		R2AccessKeyID:     "test-key",
		R2SecretAccessKey: "test-key-secret",
		R2BucketName:      "test-bucket",
	}

	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	database.DB = db
	database.DB.Migrator().DropTable(testModels...)
	database.DB.AutoMigrate(testModels...)
}

// jsonRequest builds a request carrying a JSON body
func jsonRequest(method, path string, payload interface{}) *http.Request {
	b, _ := json.Marshal(payload)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authedContext returns a recorder and a context acting as the given user
func authedContext(userID string) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", userID)
	return w, c
}

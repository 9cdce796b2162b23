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

func seedVoiceChannel(channelID string, memberIDs ...string) {
	database.DB.Create(&models.Channel{
		ID: channelID, Name: "voice", CreatedBy: memberIDs[0], InviteCode: "INV" + channelID,
	})
	for _, uid := range memberIDs {
		database.DB.Create(&models.User{ID: uid, Email: uid + "@example.com"})
		database.DB.Create(&models.ChannelMember{ChannelID: channelID, UserID: uid, Role: models.RoleMember})
	}
}

func TestJoinVoiceRequiresMembership(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	seedVoiceChannel("vc1", "vmember1")
	database.DB.Create(&models.User{ID: "voutsider1", Email: "voutsider1@example.com"})

	w, c := authedContext("voutsider1")
	c.Params = gin.Params{{Key: "id", Value: "vc1"}}
	c.Request, _ = http.NewRequest("POST", "/api/channels/vc1/voice/join", nil)

	JoinVoice(c)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var sessions int64
	database.DB.Model(&models.VoiceSession{}).Where("channel_id = ?", "vc1").Count(&sessions)
	assert.Equal(t, int64(0), sessions)
}

func TestJoinVoiceIdempotent(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	seedVoiceChannel("vc2", "vmember2")

	for i := 0; i < 2; i++ {
		w, c := authedContext("vmember2")
		c.Params = gin.Params{{Key: "id", Value: "vc2"}}
		c.Request, _ = http.NewRequest("POST", "/api/channels/vc2/voice/join", nil)
		JoinVoice(c)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	var sessions []models.VoiceSession
	database.DB.Where("channel_id = ?", "vc2").Find(&sessions)
	assert.Len(t, sessions, 1)
	assert.True(t, sessions[0].IsActive)

	var participants int64
	database.DB.Model(&models.VoiceParticipant{}).
		Where("session_id = ?", sessions[0].ID).Count(&participants)
	assert.Equal(t, int64(1), participants)
}

func TestLeaveVoiceDeactivatesEmptySession(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	seedVoiceChannel("vc3", "vmember3a", "vmember3b")

	for _, uid := range []string{"vmember3a", "vmember3b"} {
		_, c := authedContext(uid)
		c.Params = gin.Params{{Key: "id", Value: "vc3"}}
		c.Request, _ = http.NewRequest("POST", "/api/channels/vc3/voice/join", nil)
		JoinVoice(c)
	}

	w, c := authedContext("vmember3a")
	c.Params = gin.Params{{Key: "id", Value: "vc3"}}
	c.Request, _ = http.NewRequest("POST", "/api/channels/vc3/voice/leave", nil)
	LeaveVoice(c)
	assert.Equal(t, http.StatusOK, w.Code)

	// One participant remains, session stays active
	var session models.VoiceSession
	database.DB.Where("channel_id = ?", "vc3").First(&session)
	assert.True(t, session.IsActive)

	w2, c2 := authedContext("vmember3b")
	c2.Params = gin.Params{{Key: "id", Value: "vc3"}}
	c2.Request, _ = http.NewRequest("POST", "/api/channels/vc3/voice/leave", nil)
	LeaveVoice(c2)
	assert.Equal(t, http.StatusOK, w2.Code)

	database.DB.Where("channel_id = ?", "vc3").First(&session)
	assert.False(t, session.IsActive)
}

func TestGetVoiceParticipantsNonMemberEmpty(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	seedVoiceChannel("vc4", "vmember4")
	database.DB.Create(&models.User{ID: "voutsider4", Email: "voutsider4@example.com"})

	_, cj := authedContext("vmember4")
	cj.Params = gin.Params{{Key: "id", Value: "vc4"}}
	cj.Request, _ = http.NewRequest("POST", "/api/channels/vc4/voice/join", nil)
	JoinVoice(cj)

	w, c := authedContext("voutsider4")
	c.Params = gin.Params{{Key: "id", Value: "vc4"}}
	c.Request, _ = http.NewRequest("GET", "/api/channels/vc4/voice", nil)
	GetVoiceParticipants(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Participants []models.Identity `json:"participants"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Empty(t, resp.Participants)

	// A member sees the joined participant with a resolved identity
	w2, c2 := authedContext("vmember4")
	c2.Params = gin.Params{{Key: "id", Value: "vc4"}}
	c2.Request, _ = http.NewRequest("GET", "/api/channels/vc4/voice", nil)
	GetVoiceParticipants(c2)

	assert.Equal(t, http.StatusOK, w2.Code)
	var resp2 struct {
		Participants []models.Identity `json:"participants"`
	}
	json.Unmarshal(w2.Body.Bytes(), &resp2)
	assert.Len(t, resp2.Participants, 1)
	assert.Equal(t, "vmember4", resp2.Participants[0].Username)
}

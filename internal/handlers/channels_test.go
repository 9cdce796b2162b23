package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/database"
	"github.com/pushp314/nexuschat-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

var inviteCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestCreateChannelCreatorBecomesAdmin(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	creator := models.User{ID: "creator1", Email: "creator1@example.com"}
	database.DB.Create(&creator)

	w, c := authedContext("creator1")
	c.Request = jsonRequest("POST", "/api/channels", gin.H{"name": "general"})

	CreateChannel(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ChannelID string         `json:"channelId"`
		Channel   models.Channel `json:"channel"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.ChannelID)
	assert.Regexp(t, inviteCodePattern, resp.Channel.InviteCode)

	// Creator must be the only member, with role admin
	w2, c2 := authedContext("creator1")
	c2.Params = gin.Params{{Key: "id", Value: resp.ChannelID}}
	c2.Request, _ = http.NewRequest("GET", "/api/channels/"+resp.ChannelID+"/members", nil)

	GetChannelMembers(c2)

	assert.Equal(t, http.StatusOK, w2.Code)

	var membersResp struct {
		Members []struct {
			UserID string `json:"userId"`
			Role   string `json:"role"`
		} `json:"members"`
	}
	json.Unmarshal(w2.Body.Bytes(), &membersResp)
	assert.Len(t, membersResp.Members, 1)
	assert.Equal(t, "creator1", membersResp.Members[0].UserID)
	assert.Equal(t, "admin", membersResp.Members[0].Role)
}

func TestGetChannelMembersNonMemberEmpty(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "owner2", Email: "owner2@example.com"})
	database.DB.Create(&models.User{ID: "outsider2", Email: "outsider2@example.com"})
	channel := models.Channel{ID: "ch2", Name: "private", CreatedBy: "owner2", InviteCode: "AAAAA2"}
	database.DB.Create(&channel)
	database.DB.Create(&models.ChannelMember{ChannelID: "ch2", UserID: "owner2", Role: models.RoleAdmin})

	w, c := authedContext("outsider2")
	c.Params = gin.Params{{Key: "id", Value: "ch2"}}
	c.Request, _ = http.NewRequest("GET", "/api/channels/ch2/members", nil)

	GetChannelMembers(c)

	// Reads fail quiet: empty list, not an error
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Members []interface{} `json:"members"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Empty(t, resp.Members)
}

func TestJoinByInviteIdempotent(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "owner3", Email: "owner3@example.com"})
	database.DB.Create(&models.User{ID: "joiner3", Email: "joiner3@example.com"})
	channel := models.Channel{ID: "ch3", Name: "general", CreatedBy: "owner3", InviteCode: "INV333"}
	database.DB.Create(&channel)
	database.DB.Create(&models.ChannelMember{ChannelID: "ch3", UserID: "owner3", Role: models.RoleAdmin})

	for i := 0; i < 2; i++ {
		w, c := authedContext("joiner3")
		c.Request = jsonRequest("POST", "/api/channels/join", gin.H{"inviteCode": "INV333"})

		JoinByInvite(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			ChannelID string `json:"channelId"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "ch3", resp.ChannelID)
	}

	var count int64
	database.DB.Model(&models.ChannelMember{}).
		Where("channel_id = ? AND user_id = ?", "ch3", "joiner3").
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestJoinByInviteInvalidCode(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "joiner4", Email: "joiner4@example.com"})

	w, c := authedContext("joiner4")
	c.Request = jsonRequest("POST", "/api/channels/join", gin.H{"inviteCode": "NOPE99"})

	JoinByInvite(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegenerateInviteInvalidatesOldCode(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "admin5", Email: "admin5@example.com"})
	database.DB.Create(&models.User{ID: "late5", Email: "late5@example.com"})
	channel := models.Channel{ID: "ch5", Name: "general", CreatedBy: "admin5", InviteCode: "OLD555"}
	database.DB.Create(&channel)
	database.DB.Create(&models.ChannelMember{ChannelID: "ch5", UserID: "admin5", Role: models.RoleAdmin})

	w, c := authedContext("admin5")
	c.Params = gin.Params{{Key: "id", Value: "ch5"}}
	c.Request, _ = http.NewRequest("POST", "/api/channels/ch5/invite/regenerate", nil)

	RegenerateInvite(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		InviteCode string `json:"inviteCode"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Regexp(t, inviteCodePattern, resp.InviteCode)
	assert.NotEqual(t, "OLD555", resp.InviteCode)

	// Old code is dead
	w2, c2 := authedContext("late5")
	c2.Request = jsonRequest("POST", "/api/channels/join", gin.H{"inviteCode": "OLD555"})
	JoinByInvite(c2)
	assert.Equal(t, http.StatusNotFound, w2.Code)

	// New code works
	w3, c3 := authedContext("late5")
	c3.Request = jsonRequest("POST", "/api/channels/join", gin.H{"inviteCode": resp.InviteCode})
	JoinByInvite(c3)
	assert.Equal(t, http.StatusOK, w3.Code)
}

func TestRegenerateInviteRequiresElevatedRole(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "member6", Email: "member6@example.com"})
	channel := models.Channel{ID: "ch6", Name: "general", CreatedBy: "member6", InviteCode: "CODE66"}
	database.DB.Create(&channel)
	database.DB.Create(&models.ChannelMember{ChannelID: "ch6", UserID: "member6", Role: models.RoleMember})

	w, c := authedContext("member6")
	c.Params = gin.Params{{Key: "id", Value: "ch6"}}
	c.Request, _ = http.NewRequest("POST", "/api/channels/ch6/invite/regenerate", nil)

	RegenerateInvite(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateChannelInviteExhaustion(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "exh1", Email: "exh1@example.com"})
	database.DB.Create(&models.Channel{ID: "exhch", Name: "taken", CreatedBy: "exh1", InviteCode: "STUCK1"})

	orig := inviteCodeSource
	inviteCodeSource = func() (string, error) { return "STUCK1", nil }
	defer func() { inviteCodeSource = orig }()

	w, c := authedContext("exh1")
	c.Request = jsonRequest("POST", "/api/channels", gin.H{"name": "doomed"})
	CreateChannel(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "unique invite code")

	// Rolled back: no channel row survives the failed creation
	var count int64
	database.DB.Model(&models.Channel{}).Where("name = ?", "doomed").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRegenerateInviteExhaustionKeepsOldCode(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "exh2", Email: "exh2@example.com"})
	database.DB.Create(&models.Channel{ID: "exhoth", Name: "other", CreatedBy: "exh2", InviteCode: "OTHER1"})
	database.DB.Create(&models.Channel{ID: "exhmine", Name: "mine", CreatedBy: "exh2", InviteCode: "MINE01"})
	database.DB.Create(&models.ChannelMember{ChannelID: "exhmine", UserID: "exh2", Role: models.RoleAdmin})

	orig := inviteCodeSource
	inviteCodeSource = func() (string, error) { return "OTHER1", nil }
	defer func() { inviteCodeSource = orig }()

	w, c := authedContext("exh2")
	c.Params = gin.Params{{Key: "id", Value: "exhmine"}}
	c.Request, _ = http.NewRequest("POST", "/api/channels/exhmine/invite/regenerate", nil)
	RegenerateInvite(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "unique invite code")

	var channel models.Channel
	database.DB.First(&channel, "id = ?", "exhmine")
	assert.Equal(t, "MINE01", channel.InviteCode)
}

func TestGetInviteCodeNonMemberGetsNull(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "outsider7", Email: "outsider7@example.com"})
	channel := models.Channel{ID: "ch7", Name: "general", CreatedBy: "someone", InviteCode: "SEC777"}
	database.DB.Create(&channel)

	w, c := authedContext("outsider7")
	c.Params = gin.Params{{Key: "id", Value: "ch7"}}
	c.Request, _ = http.NewRequest("GET", "/api/channels/ch7/invite", nil)

	GetInviteCode(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Nil(t, resp["inviteCode"])
}

func TestListChannelsIncludesCountAndRole(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	database.DB.Create(&models.User{ID: "u8", Email: "u8@example.com"})
	database.DB.Create(&models.User{ID: "u8b", Email: "u8b@example.com"})
	channel := models.Channel{ID: "ch8", Name: "general", CreatedBy: "u8", InviteCode: "LST888"}
	database.DB.Create(&channel)
	database.DB.Create(&models.ChannelMember{ChannelID: "ch8", UserID: "u8", Role: models.RoleAdmin})
	database.DB.Create(&models.ChannelMember{ChannelID: "ch8", UserID: "u8b", Role: models.RoleMember})

	w, c := authedContext("u8")
	c.Request, _ = http.NewRequest("GET", "/api/channels", nil)

	ListChannels(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Channels []struct {
			ID          string `json:"id"`
			MemberCount int64  `json:"memberCount"`
			UserRole    string `json:"userRole"`
		} `json:"channels"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Len(t, resp.Channels, 1)
	assert.Equal(t, "ch8", resp.Channels[0].ID)
	assert.Equal(t, int64(2), resp.Channels[0].MemberCount)
	assert.Equal(t, "admin", resp.Channels[0].UserRole)
}

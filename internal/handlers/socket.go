package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/pushp314/nexuschat-backend/pkg/logger"
	"github.com/pushp314/nexuschat-backend/pkg/utils"
)

// SocketServer replaces the managed platform's reactive queries: every
// committed write that affects a watcher is pushed to their room, so a
// client observing channel messages, membership, or friendship state sees
// each write without manual refresh.
var SocketServer *socketio.Server

// Presence tracking
var (
	onlineUsers   = make(map[string]string) // userId -> socketId
	onlineUsersMu sync.RWMutex
)

const channelRoomPrefix = "channel:"

// GetOnlineUsers returns list of online user IDs
func GetOnlineUsers() []string {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()

	users := make([]string, 0, len(onlineUsers))
	for userId := range onlineUsers {
		users = append(users, userId)
	}
	return users
}

// IsUserOnline checks if a user is online
func IsUserOnline(userId string) bool {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()
	_, exists := onlineUsers[userId]
	return exists
}

// broadcastToUser pushes an event to a user's personal room
func broadcastToUser(userId, event string, data interface{}) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", userId, event, data)
	}
}

// broadcastToChannel pushes an event to everyone watching a channel
func broadcastToChannel(channelId, event string, data interface{}) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", channelRoomPrefix+channelId, event, data)
	}
}

// BroadcastPresenceUpdate broadcasts user online/offline status to all clients
func BroadcastPresenceUpdate(userId string, isOnline bool) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", "presence", "presence_update", map[string]interface{}{
			"userId":   userId,
			"isOnline": isOnline,
		})
	}
}

func InitSocketServer() *socketio.Server {
	slog := logger.With("socket")

	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		url := s.URL()

		token := url.Query().Get("token")
		if token == "" {
			slog.Warn().Str("socket_id", s.ID()).Msg("connection rejected: no token")
			return fmt.Errorf("authentication required")
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			slog.Warn().Str("socket_id", s.ID()).Msg("connection rejected: invalid token")
			return fmt.Errorf("invalid token")
		}

		userId := claims.UserID
		s.SetContext(userId)

		onlineUsersMu.Lock()
		onlineUsers[userId] = s.ID()
		onlineUsersMu.Unlock()

		// Personal room for DMs, friend requests, profile updates
		s.Join(userId)

		// Global presence room
		s.Join("presence")

		BroadcastPresenceUpdate(userId, true)
		s.Emit("online_users", GetOnlineUsers())

		return nil
	})

	// Clients subscribe to the channels they are viewing
	server.OnEvent("/", "watch_channel", func(s socketio.Conn, channelId string) {
		s.Join(channelRoomPrefix + channelId)
	})

	server.OnEvent("/", "unwatch_channel", func(s socketio.Conn, channelId string) {
		s.Leave(channelRoomPrefix + channelId)
	})

	server.OnEvent("/", "get_online_users", func(s socketio.Conn, msg string) {
		s.Emit("online_users", GetOnlineUsers())
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		onlineUsersMu.Lock()
		var disconnectedUserId string
		for userId, socketId := range onlineUsers {
			if socketId == s.ID() {
				disconnectedUserId = userId
				delete(onlineUsers, userId)
				break
			}
		}
		onlineUsersMu.Unlock()

		if disconnectedUserId != "" {
			BroadcastPresenceUpdate(disconnectedUserId, false)
		}
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		slog.Error().Err(e).Msg("socket error")
	})

	go server.Serve()
	SocketServer = server
	return server
}

// SocketHandler wraps the Socket.IO server for Gin
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}

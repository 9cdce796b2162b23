package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/handlers"
	"github.com/pushp314/nexuschat-backend/internal/middleware"
)

func RegisterChannelRoutes(r gin.IRouter) {
	channels := r.Group("/channels")
	channels.Use(middleware.AuthMiddleware())
	{
		channels.GET("", handlers.ListChannels)
		channels.POST("", handlers.CreateChannel)
		channels.POST("/join", handlers.JoinByInvite) // body: {inviteCode}

		channels.GET("/:id/members", handlers.GetChannelMembers)
		channels.POST("/:id/join", handlers.JoinChannel)
		channels.GET("/:id/invite", handlers.GetInviteCode)
		channels.POST("/:id/invite/regenerate", handlers.RegenerateInvite)

		channels.GET("/:id/voice", handlers.GetVoiceParticipants)
		channels.POST("/:id/voice/join", handlers.JoinVoice)
		channels.POST("/:id/voice/leave", handlers.LeaveVoice)
	}
}

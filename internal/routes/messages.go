package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/handlers"
	"github.com/pushp314/nexuschat-backend/internal/middleware"
)

func RegisterMessageRoutes(r gin.IRouter) {
	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.GET("", handlers.ListMessages) // ?channelId=... XOR ?recipientId=...
		messages.POST("", handlers.SendMessage)
		messages.POST("/:id/reactions", handlers.AddReaction)
	}

	uploads := r.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware())
	{
		uploads.POST("/url", handlers.GenerateUploadURL)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/handlers"
	"github.com/pushp314/nexuschat-backend/internal/middleware"
)

func RegisterFriendRoutes(r gin.IRouter) {
	friends := r.Group("/friends")
	friends.Use(middleware.AuthMiddleware())
	{
		friends.GET("", handlers.ListFriends)
		friends.GET("/requests", handlers.GetPendingRequests)
		friends.POST("/requests", handlers.SendFriendRequest)
		friends.POST("/requests/:id/accept", handlers.AcceptFriendRequest)
		friends.POST("/requests/:id/reject", handlers.RejectFriendRequest)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pushp314/nexuschat-backend/internal/handlers"
	"github.com/pushp314/nexuschat-backend/internal/middleware"
)

func RegisterProfileRoutes(r gin.IRouter) {
	profiles := r.Group("/profiles")
	{
		profiles.GET("/search", middleware.AuthMiddleware(), handlers.SearchProfiles) // ?q=...
		profiles.GET("/me", middleware.AuthMiddleware(), handlers.GetProfile)
		profiles.PUT("/me", middleware.AuthMiddleware(), handlers.UpdateProfile)

		// Display identities are public; a token only matters for "me"
		profiles.GET("/:id", middleware.OptionalAuthMiddleware(), handlers.GetProfile)
	}
}

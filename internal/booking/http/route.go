package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking routes. userMiddleware must resolve the
// caller's admin flag after authentication.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, userMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware, userMiddleware)
	{
		group.GET("", h.List)
		group.GET("/quote", h.Quote)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.POST("/check-availability", h.CheckAvailability)
		group.DELETE("/:id", h.Cancel)
	}

	// === Admin Routes ===
	group.PATCH("/:id", adminMiddleware, h.UpdateStatus)
}

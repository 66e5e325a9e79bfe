package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers boat media routes under /boats/:id/media.
func RegisterRoutes(r gin.IRouter, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := r.Group("/boats/:id/media")

	group.GET("", h.List)
	group.GET("/:media_id", h.ServeFile)
	group.GET("/:media_id/thumbnail", h.ServeThumbnail)

	admin := group.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Upload)
		admin.DELETE("/:media_id", h.Delete)
	}
}

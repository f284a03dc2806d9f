package http

import "github.com/gin-gonic/gin"

// Register attaches project and stats routes to the /api group.
func (h *Handler) Register(api *gin.RouterGroup) {
	projects := api.Group("/projects")
	projects.POST("", h.create)
	projects.GET("", h.list)
	projects.GET("/:id", h.get)
	projects.POST("/:id/approve", h.approve)
	projects.POST("/:id/regenerate", h.regenerate)
	projects.DELETE("/:id", h.remove)

	api.GET("/stats", h.stats)
}

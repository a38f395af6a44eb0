package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the decklist API under /api.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)

		api.GET("/cards/search", h.search)
		api.GET("/cards/classify", h.classify)

		api.POST("/decklists", h.createDecklist)
		api.GET("/decklists/:id", h.getDecklist)
		api.PUT("/decklists/:id", h.putDecklist)
		api.PATCH("/decklists/:id", h.patchDecklist)
		api.DELETE("/decklists/:id", h.deleteDecklist)
		api.POST("/decklists/:id/leave", h.leaveDecklist)

		api.POST("/decklists/:id/cards", h.addCard)
		api.POST("/decklists/:id/cards/increment", h.incrementCard)
		api.POST("/decklists/:id/cards/decrement", h.decrementCard)

		api.GET("/decklists/:id/tree", h.tree)
		api.GET("/decklists/:id/render", h.render)
		api.GET("/decklists/:id/export", h.export)
		api.GET("/decklists/:id/qr", h.qr)
		api.GET("/decklists/:id/image", h.shareImage)
	}
}

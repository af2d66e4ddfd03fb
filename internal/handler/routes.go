package handler

import "github.com/gin-gonic/gin"

// Register mounts the API on r. chatMiddleware guards the chat endpoints only.
func (h *Handler) Register(r *gin.Engine, chatMiddleware ...gin.HandlerFunc) {
	// Health check endpoints (outside /api group, no rate limiting)
	r.GET("/health", h.HandleHealth)
	r.GET("/ready", h.HandleReadiness)

	api := r.Group("/api")
	{
		api.GET("/careers", h.HandleGetCareers)
		api.GET("/careers/:id", h.HandleGetCareer)
		api.GET("/institution", h.HandleGetInstitution)

		chat := api.Group("/chat", chatMiddleware...)
		chat.POST("", h.HandleChat)
		chat.POST("/restart", h.HandleRestart)
		chat.GET("/ws", h.HandleChatSocket)
	}
}

package dashboard

import "github.com/gin-gonic/gin"

// NewRouter builds the dashboard API routes.
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	api := router.Group("/v1")
	api.GET("/trades", handler.GetTrades)
	api.GET("/stats", handler.GetStats)
	api.GET("/whales", handler.GetWhales)
	api.POST("/refresh", handler.PostRefresh)
	api.GET("/health", handler.GetHealth)

	return router
}

package subscription

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/subscriptions", h.List)
	protected.POST("/users/:id/subscribe", h.Subscribe)
	protected.DELETE("/users/:id/subscribe", h.Unsubscribe)
}

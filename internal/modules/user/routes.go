package user

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /users. gin matches the static /users/me before /users/:id.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/users", h.List)
		public.GET("/users/:id", h.Get)
	}
	if protected != nil {
		protected.GET("/users/me", h.Me)
		protected.PUT("/users/me/avatar", h.SetAvatar)
		protected.DELETE("/users/me/avatar", h.DeleteAvatar)
	}
}

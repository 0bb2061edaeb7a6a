package recipe

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /recipes and the /s/:code permalink. public is
// expected to run OptionalAuth so that reads can resolve viewer flags.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/recipes", h.List)
		public.GET("/recipes/:id", h.Get)
		public.GET("/recipes/:id/get-link", h.GetLink)
		public.GET("/s/:code", h.Redirect)
	}
	if protected != nil {
		protected.POST("/recipes", h.Create)
		protected.PATCH("/recipes/:id", h.Update)
		protected.DELETE("/recipes/:id", h.Delete)
		protected.POST("/recipes/:id/favorite", h.AddFavorite)
		protected.DELETE("/recipes/:id/favorite", h.RemoveFavorite)
		protected.POST("/recipes/:id/shopping_cart", h.AddToCart)
		protected.DELETE("/recipes/:id/shopping_cart", h.RemoveFromCart)
		protected.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)
	}
}

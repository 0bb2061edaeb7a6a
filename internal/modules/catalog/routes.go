package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/tags", h.ListTags)
	public.GET("/tags/:id", h.GetTag)
	public.GET("/ingredients", h.ListIngredients)
	public.GET("/ingredients/:id", h.GetIngredient)
}

package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"foodgram/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/* ---------- TAGS ---------- */

// ListTags godoc
// @Summary Список тегов
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Tag
// @Router /tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, tags)
}

// GetTag godoc
// @Summary Тег
// @Tags Catalog
// @Produce json
// @Param id path int true "ID тега"
// @Success 200 {object} domain.Tag
// @Failure 404 {object} map[string]interface{}
// @Router /tags/{id} [get]
func (h *Handler) GetTag(c *gin.Context) {
	id, ok := pathID(c, "Tag not found")
	if !ok {
		return
	}
	tag, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tag not found")
			return
		}
		internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, tag)
}

/* ---------- INGREDIENTS ---------- */

// ListIngredients godoc
// @Summary Поиск ингредиентов по началу названия
// @Tags Catalog
// @Produce json
// @Param name query string false "Начало названия"
// @Success 200 {array} domain.Ingredient
// @Router /ingredients [get]
func (h *Handler) ListIngredients(c *gin.Context) {
	items, err := h.service.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// GetIngredient godoc
// @Summary Ингредиент
// @Tags Catalog
// @Produce json
// @Param id path int true "ID ингредиента"
// @Success 200 {object} domain.Ingredient
// @Failure 404 {object} map[string]interface{}
// @Router /ingredients/{id} [get]
func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c, "Ingredient not found")
	if !ok {
		return
	}
	ing, err := h.service.GetIngredient(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrIngredientNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Ingredient not found")
			return
		}
		internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, ing)
}

func pathID(c *gin.Context, notFound string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", notFound)
		return 0, false
	}
	return id, true
}

func internal(c *gin.Context, err error) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("catalog request failed")
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

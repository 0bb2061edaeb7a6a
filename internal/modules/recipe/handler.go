package recipe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/repository"
)

type Handler struct {
	svc             *Service
	defaultPageSize int
}

func NewHandler(svc *Service, defaultPageSize int) *Handler {
	return &Handler{svc: svc, defaultPageSize: defaultPageSize}
}

// List godoc
// @Summary Список рецептов
// @Tags Recipes
// @Produce json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Param author query int false "ID автора"
// @Param tags query []string false "Слаги тегов (любой из)"
// @Param is_favorited query int false "1: только избранное, 0: кроме избранного"
// @Param is_in_shopping_cart query int false "1: только в корзине, 0: кроме корзины"
// @Success 200 {object} response.Page
// @Router /recipes [get]
func (h *Handler) List(c *gin.Context) {
	q := ListQuery{
		Params:           pagination.FromQuery(c, h.defaultPageSize),
		Tags:             c.QueryArray("tags"),
		IsFavorited:      boolQuery(c, "is_favorited"),
		IsInShoppingCart: boolQuery(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid author id")
			return
		}
		q.AuthorID = id
	}

	recipes, total, err := h.svc.List(c.Request.Context(), middleware.UserID(c), q)
	if err != nil {
		h.internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.NewPage(recipes, total, q.Page, q.Limit))
}

// Get godoc
// @Summary Рецепт
// @Tags Recipes
// @Produce json
// @Param id path int true "ID рецепта"
// @Success 200 {object} RecipeResponse
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	r, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, r)
}

// Create godoc
// @Summary Создать рецепт
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RecipeRequest true "Рецепт"
// @Success 201 {object} RecipeResponse
// @Failure 400,401 {object} map[string]interface{}
// @Router /recipes [post]
func (h *Handler) Create(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	r, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, r)
}

// Update godoc
// @Summary Изменить рецепт (только автор)
// @Tags Recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "ID рецепта"
// @Param request body RecipeRequest true "Рецепт"
// @Success 200 {object} RecipeResponse
// @Failure 400,401,403,404 {object} map[string]interface{}
// @Router /recipes/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	r, err := h.svc.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, r)
}

// Delete godoc
// @Summary Удалить рецепт (только автор)
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "ID рецепта"
// @Success 204
// @Failure 401,403,404 {object} map[string]interface{}
// @Router /recipes/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLink godoc
// @Summary Короткая ссылка на рецепт
// @Tags Recipes
// @Produce json
// @Param id path int true "ID рецепта"
// @Success 200 {object} ShortLinkResponse
// @Failure 404 {object} map[string]interface{}
// @Router /recipes/{id}/get-link [get]
func (h *Handler) GetLink(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	link, err := h.svc.ShortLink(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ShortLinkResponse{ShortLink: link})
}

// Redirect godoc
// @Summary Переход по короткой ссылке
// @Tags Recipes
// @Param code path string true "Короткий код"
// @Success 302
// @Failure 404 {object} map[string]interface{}
// @Router /s/{code} [get]
func (h *Handler) Redirect(c *gin.Context) {
	id, err := h.svc.ResolveShortCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d", id))
}

// AddFavorite godoc
// @Summary Добавить в избранное
// @Tags Recipes
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID рецепта"
// @Success 201 {object} RecipeShortResponse
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /recipes/{id}/favorite [post]
func (h *Handler) AddFavorite(c *gin.Context) {
	h.add(c, h.svc.AddFavorite)
}

// RemoveFavorite godoc
// @Summary Убрать из избранного
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "ID рецепта"
// @Success 204
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /recipes/{id}/favorite [delete]
func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.remove(c, h.svc.RemoveFavorite)
}

// AddToCart godoc
// @Summary Добавить в список покупок
// @Tags Recipes
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID рецепта"
// @Success 201 {object} RecipeShortResponse
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) AddToCart(c *gin.Context) {
	h.add(c, h.svc.AddToCart)
}

// RemoveFromCart godoc
// @Summary Убрать из списка покупок
// @Tags Recipes
// @Security BearerAuth
// @Param id path int true "ID рецепта"
// @Success 204
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /recipes/{id}/shopping_cart [delete]
func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.remove(c, h.svc.RemoveFromCart)
}

// DownloadShoppingCart godoc
// @Summary Скачать список покупок
// @Tags Recipes
// @Security BearerAuth
// @Produce plain
// @Success 200 {string} string
// @Failure 401 {object} map[string]interface{}
// @Router /recipes/download_shopping_cart [get]
func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	items, err := h.svc.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		h.internal(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ShoppingListFilename))
	c.Data(http.StatusOK, shoppingListContentType, []byte(RenderShoppingList(items)))
}

type addFunc func(ctx context.Context, userID, recipeID int64) (*RecipeShortResponse, error)

type removeFunc func(ctx context.Context, userID, recipeID int64) error

func (h *Handler) add(c *gin.Context, fn addFunc) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	r, err := fn(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, r)
}

func (h *Handler) remove(c *gin.Context, fn removeFunc) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var (
		verr *ValidationError
		rerr *repository.RelationError
	)
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recipe", verr.Fields)
	case errors.Is(err, ErrRecipeNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, ErrShortCodeConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.As(err, &rerr) && errors.Is(err, repository.ErrRelationExists):
		response.Error(c, http.StatusBadRequest, "ALREADY_EXISTS", rerr.Message)
	case errors.As(err, &rerr) && errors.Is(err, repository.ErrRelationNotFound):
		response.Error(c, http.StatusBadRequest, "RELATION_NOT_FOUND", rerr.Message)
	default:
		h.internal(c, err)
	}
}

func (h *Handler) internal(c *gin.Context, err error) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("recipes request failed")
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// recipeID parses :id and writes 404 when it is not a positive integer.
func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
		return 0, false
	}
	return id, true
}

// boolQuery reads "1"/"0" and "true"/"false". Anything else means no filter.
func boolQuery(c *gin.Context, key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

func mustUserID(c *gin.Context) int64 {
	id := middleware.UserID(c)
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	return id
}

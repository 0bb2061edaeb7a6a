package subscription

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"foodgram/internal/middleware"
	"foodgram/internal/modules/user"
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
// @Summary Мои подписки
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Param recipes_limit query int false "Сколько рецептов автора показать"
// @Success 200 {object} response.Page
// @Failure 401 {object} map[string]interface{}
// @Router /users/subscriptions [get]
func (h *Handler) List(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	p := pagination.FromQuery(c, h.defaultPageSize)
	authors, total, err := h.svc.List(c.Request.Context(), userID, p, recipesLimit(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.NewPage(authors, total, p.Page, p.Limit))
}

// Subscribe godoc
// @Summary Подписаться на автора
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param id path int true "ID автора"
// @Param recipes_limit query int false "Сколько рецептов автора показать"
// @Success 201 {object} AuthorResponse
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /users/{id}/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	authorID, ok := parseAuthorID(c)
	if !ok {
		return
	}
	author, err := h.svc.Subscribe(c.Request.Context(), userID, authorID, recipesLimit(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, author)
}

// Unsubscribe godoc
// @Summary Отписаться от автора
// @Tags Subscriptions
// @Security BearerAuth
// @Param id path int true "ID автора"
// @Success 204
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /users/{id}/subscribe [delete]
func (h *Handler) Unsubscribe(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	authorID, ok := parseAuthorID(c)
	if !ok {
		return
	}
	if err := h.svc.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var rerr *repository.RelationError
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.As(err, &rerr) && errors.Is(err, repository.ErrSelfRelation):
		response.Error(c, http.StatusBadRequest, "SELF_REFERENCE", rerr.Message)
	case errors.As(err, &rerr) && errors.Is(err, repository.ErrRelationExists):
		response.Error(c, http.StatusBadRequest, "ALREADY_EXISTS", rerr.Message)
	case errors.As(err, &rerr) && errors.Is(err, repository.ErrRelationNotFound):
		response.Error(c, http.StatusBadRequest, "RELATION_NOT_FOUND", rerr.Message)
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("subscriptions request failed")
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func parseAuthorID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return 0, false
	}
	return id, true
}

// recipesLimit reads ?recipes_limit=; missing or invalid means no limit.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func mustUserID(c *gin.Context) int64 {
	id := middleware.UserID(c)
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	return id
}

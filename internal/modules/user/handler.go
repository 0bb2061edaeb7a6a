package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
)

type Handler struct {
	svc             *Service
	defaultPageSize int
}

func NewHandler(svc *Service, defaultPageSize int) *Handler {
	return &Handler{svc: svc, defaultPageSize: defaultPageSize}
}

// List godoc
// @Summary Список пользователей
// @Tags Users
// @Produce json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} response.Page
// @Router /users [get]
func (h *Handler) List(c *gin.Context) {
	p := pagination.FromQuery(c, h.defaultPageSize)
	users, total, err := h.svc.List(c.Request.Context(), middleware.UserID(c), p)
	if err != nil {
		h.internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.NewPage(users, total, p.Page, p.Limit))
}

// Get godoc
// @Summary Профиль пользователя
// @Tags Users
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} UserResponse
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	u, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Me godoc
// @Summary Текущий пользователь
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]interface{}
// @Router /users/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	u, err := h.svc.Me(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// SetAvatar godoc
// @Summary Загрузить аватар (base64 data URI)
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AvatarRequest true "Аватар"
// @Success 200 {object} AvatarResponse
// @Failure 400,401 {object} map[string]interface{}
// @Router /users/me/avatar [put]
func (h *Handler) SetAvatar(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid avatar", errs)
		return
	}

	url, err := h.svc.SetAvatar(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, AvatarResponse{Avatar: url})
}

// DeleteAvatar godoc
// @Summary Удалить аватар
// @Tags Users
// @Security BearerAuth
// @Success 204
// @Router /users/me/avatar [delete]
func (h *Handler) DeleteAvatar(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	if err := h.svc.DeleteAvatar(c.Request.Context(), userID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", verr.Fields)
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	default:
		h.internal(c, err)
	}
}

func (h *Handler) internal(c *gin.Context, err error) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("users request failed")
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func mustUserID(c *gin.Context) int64 {
	id := middleware.UserID(c)
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	return id
}

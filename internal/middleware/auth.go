package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "user_id"

// TokenValidator is satisfied by *jwt.Service.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token.
func JWTAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided")
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// UserChecker is satisfied by *repository.UserRepository.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ActiveUser rejects a valid token whose user no longer exists.
// Must run after JWTAuth.
func ActiveUser(users UserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := UserID(c)
		if id == 0 {
			c.Next()
			return
		}

		ok, err := users.Exists(c.Request.Context(), id)
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "USER_NOT_FOUND", "User not found")
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the viewer when a token is present and lets anonymous
// requests through. A malformed token is still rejected.
func OptionalAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user id or 0 for anonymous requests.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

func bearerToken(c *gin.Context) (string, bool) {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if h == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || (!strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token")) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

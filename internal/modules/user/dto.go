package user

import "foodgram/internal/domain"

// UserResponse is the public projection of a user as seen by the viewer.
type UserResponse struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

func ToUserResponse(u *domain.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.AvatarURL,
	}
}

// AvatarRequest carries a base64 data URI.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

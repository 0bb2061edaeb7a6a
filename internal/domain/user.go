package domain

import "time"

// User mirrors the account owned by the auth provider. The recipe backend only
// reads profile fields and manages the avatar reference.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	FirstName    string    `json:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" gorm:"size:150;not null"`
	PasswordHash string    `json:"-" gorm:"not null;default:''"`
	AvatarURL    *string   `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Avatar returns the avatar reference or an empty string.
func (u *User) Avatar() string {
	if u.AvatarURL == nil {
		return ""
	}
	return *u.AvatarURL
}

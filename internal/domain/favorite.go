package domain

import "time"

// Favorite links a user to a recipe they marked as favorite.
// The (user_id, recipe_id) pair is unique in the database.
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string {
	return "favorites"
}

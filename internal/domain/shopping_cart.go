package domain

import "time"

// ShoppingCartEntry is a recipe in a user's shopping cart.
type ShoppingCartEntry struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (ShoppingCartEntry) TableName() string {
	return "shopping_cart_entries"
}

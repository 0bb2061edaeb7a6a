package domain

import "time"

const (
	MinAmount = 1
	MaxAmount = 32000

	RecipeNameMaxLen = 256
)

// Recipe is a user-authored recipe.
// ShortCode is assigned once on create and never changes.
type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Image       string    `json:"image" gorm:"not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1 AND cooking_time <= 32000"`
	ShortCode   *string   `json:"short_code,omitempty" gorm:"size:32;uniqueIndex"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author            *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags              []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	RecipeIngredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeTag is the row shape of the recipe_tags join table created by the
// many2many association above.
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey"`
	TagID    int64 `gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredient stores the amount of one ingredient in one recipe.
// The whole set is replaced on every recipe update.
type RecipeIngredient struct {
	ID           int64     `json:"-" gorm:"primaryKey"`
	RecipeID     int64     `json:"-" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64     `json:"id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	Amount       int       `json:"amount" gorm:"not null;check:chk_recipe_ingredient_amount,amount >= 1 AND amount <= 32000"`
	CreatedAt    time.Time `json:"-"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// ShoppingListItem is one shopping list line: the ingredient amount summed
// over every recipe in the cart.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}

package subscription

import (
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/user"
)

// AuthorResponse is a followed author with a preview of their recipes.
type AuthorResponse struct {
	user.UserResponse
	Recipes      []recipe.RecipeShortResponse `json:"recipes"`
	RecipesCount int64                        `json:"recipes_count"`
}

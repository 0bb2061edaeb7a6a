package recipe

import (
	"foodgram/internal/domain"
	"foodgram/internal/modules/user"
)

type IngredientAmount struct {
	ID     int64 `json:"id" validate:"gt=0"`
	Amount int   `json:"amount" validate:"min=1,max=32000"`
}

// RecipeRequest is the body of create and update. Update replaces every
// field; image may repeat the current image URL to keep it.
type RecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"dive"`
	Tags        []int64            `json:"tags"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1,max=32000"`
}

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                `json:"id"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	Author           *user.UserResponse   `json:"author"`
	Tags             []domain.Tag         `json:"tags"`
	Ingredients      []IngredientResponse `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
}

// RecipeShortResponse is returned by favorite / cart toggles and nested in
// subscription listings.
type RecipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}

// Viewer flags resolved for one recipe.
type viewerFlags struct {
	favorited    bool
	inCart       bool
	authorFollow bool
}

func ToRecipeShortResponse(r *domain.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func toRecipeResponse(r *domain.Recipe, flags viewerFlags) RecipeResponse {
	resp := RecipeResponse{
		ID:               r.ID,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		Tags:             r.Tags,
		Ingredients:      make([]IngredientResponse, 0, len(r.RecipeIngredients)),
		IsFavorited:      flags.favorited,
		IsInShoppingCart: flags.inCart,
	}
	if resp.Tags == nil {
		resp.Tags = []domain.Tag{}
	}
	if r.Author != nil {
		author := user.ToUserResponse(r.Author, flags.authorFollow)
		resp.Author = &author
	}
	for _, ri := range r.RecipeIngredients {
		item := IngredientResponse{ID: ri.IngredientID, Amount: ri.Amount}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		resp.Ingredients = append(resp.Ingredients, item)
	}
	return resp
}

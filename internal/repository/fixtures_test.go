package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/domain"
)

func createUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  username,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func createTag(t *testing.T, db *gorm.DB, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: slug, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

var recipeSeq int

// createRecipe inserts a recipe with the given ingredient amounts through the repository.
func createRecipe(t *testing.T, db *gorm.DB, author *domain.User, tags []int64, items map[int64]int) *domain.Recipe {
	t.Helper()
	recipeSeq++
	code := fmt.Sprintf("code%06d", recipeSeq)
	recipe := &domain.Recipe{
		AuthorID:    author.ID,
		Name:        fmt.Sprintf("recipe %d", recipeSeq),
		Image:       "/media/recipes/x.png",
		Text:        "mix and bake",
		CookingTime: 10,
		ShortCode:   &code,
	}
	rows := make([]domain.RecipeIngredient, 0, len(items))
	for id, amount := range items {
		rows = append(rows, domain.RecipeIngredient{IngredientID: id, Amount: amount})
	}
	require.NoError(t, NewRecipeRepository(db).Create(t.Context(), recipe, tags, rows))
	return recipe
}

package recipe

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe, tagIDs []int64, items []domain.RecipeIngredient) error
	Update(ctx context.Context, recipe *domain.Recipe, tagIDs []int64, items []domain.RecipeIngredient) error
	Delete(ctx context.Context, id int64) (*domain.Recipe, error)
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	GetAuthorID(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, f repository.RecipeFilter) ([]domain.Recipe, int64, error)
	ShortCodeExists(ctx context.Context, code string) (bool, error)
	IDByShortCode(ctx context.Context, code string) (int64, error)
	ShoppingList(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error)
}

type TagRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error)
}

type IngredientRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error)
}

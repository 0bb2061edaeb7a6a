package repository

import (
	"gorm.io/gorm"

	"foodgram/internal/domain"
)

// FavoriteRepository stores a user's favorite recipes.
type FavoriteRepository = RelationRepository[domain.Favorite]

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return NewRelationRepository(db, RelationSpec[domain.Favorite]{
		Name:          "favorite",
		SubjectColumn: "user_id",
		ObjectColumn:  "recipe_id",
		New: func(userID, recipeID int64) *domain.Favorite {
			return &domain.Favorite{UserID: userID, RecipeID: recipeID}
		},
		Target: &domain.Recipe{},
		Messages: RelationMessages{
			Exists:         "recipe is already in favorites",
			NotFound:       "recipe is not in favorites",
			TargetNotFound: "recipe not found",
		},
	})
}

// ShoppingCartRepository stores recipes in a user's shopping cart.
type ShoppingCartRepository = RelationRepository[domain.ShoppingCartEntry]

func NewShoppingCartRepository(db *gorm.DB) *ShoppingCartRepository {
	return NewRelationRepository(db, RelationSpec[domain.ShoppingCartEntry]{
		Name:          "shopping_cart",
		SubjectColumn: "user_id",
		ObjectColumn:  "recipe_id",
		New: func(userID, recipeID int64) *domain.ShoppingCartEntry {
			return &domain.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
		},
		Target: &domain.Recipe{},
		Messages: RelationMessages{
			Exists:         "recipe is already in the shopping cart",
			NotFound:       "recipe is not in the shopping cart",
			TargetNotFound: "recipe not found",
		},
	})
}

// SubscriptionRepository stores follows of authors. Following yourself is rejected.
type SubscriptionRepository = RelationRepository[domain.Subscription]

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return NewRelationRepository(db, RelationSpec[domain.Subscription]{
		Name:          "subscription",
		SubjectColumn: "user_id",
		ObjectColumn:  "author_id",
		New: func(userID, authorID int64) *domain.Subscription {
			return &domain.Subscription{UserID: userID, AuthorID: authorID}
		},
		ForbidSelf: true,
		Target:     &domain.User{},
		Messages: RelationMessages{
			Exists:         "you are already subscribed to this user",
			NotFound:       "you are not subscribed to this user",
			Self:           "you cannot subscribe to yourself",
			TargetNotFound: "user not found",
		},
	})
}

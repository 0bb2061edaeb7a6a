package domain

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartEntry{},
		&Subscription{},
	}
}

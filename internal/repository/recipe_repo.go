package repository

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/database"
	"foodgram/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrShortCodeTaken is returned by Create when the recipe insert hits the
// unique index on recipes.short_code.
var ErrShortCodeTaken = errors.New("short code already taken")

// RecipeFilter narrows List. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID int64
	// TagSlugs matches recipes carrying any of the slugs.
	TagSlugs       []string
	FavoritedBy    int64
	NotFavoritedBy int64
	InCartOf       int64
	NotInCartOf    int64
	Limit          int
	Offset         int
}

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create inserts the recipe row, its tag links and ingredient rows in one transaction.
func (r *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe, tagIDs []int64, items []domain.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrShortCodeTaken
			}
			return fmt.Errorf("insert recipe: %w", err)
		}
		if err := replaceTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return replaceIngredients(tx, recipe.ID, items)
	})
}

// Update overwrites the scalar fields and replaces the whole tag set and
// ingredient list. The short code is never touched.
func (r *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe, tagIDs []int64, items []domain.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"image":        recipe.Image,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
			})
		if res.Error != nil {
			return fmt.Errorf("update recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := replaceTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return replaceIngredients(tx, recipe.ID, items)
	})
}

func replaceTags(tx *gorm.DB, recipeID int64, tagIDs []int64) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]domain.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, domain.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("insert recipe tags: %w", err)
	}
	return nil
}

func replaceIngredients(tx *gorm.DB, recipeID int64, items []domain.RecipeIngredient) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	rows := make([]domain.RecipeIngredient, 0, len(items))
	for _, it := range items {
		rows = append(rows, domain.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: it.IngredientID,
			Amount:       it.Amount,
		})
	}
	if err := tx.Omit(clause.Associations).CreateInBatches(&rows, 100).Error; err != nil {
		return fmt.Errorf("insert recipe ingredients: %w", err)
	}
	return nil
}

// Delete removes the recipe with its join and relation rows and returns the
// deleted row so the caller can release the image and cached short code.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, id).Error; err != nil {
			return notFound(err)
		}
		for _, model := range []any{
			&domain.RecipeTag{},
			&domain.RecipeIngredient{},
			&domain.Favorite{},
			&domain.ShoppingCartEntry{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete recipe dependents: %w", err)
			}
		}
		return tx.Delete(&domain.Recipe{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// GetAuthorID is a light lookup used for authorization checks.
func (r *RecipeRepository) GetAuthorID(ctx context.Context, id int64) (int64, error) {
	var recipe domain.Recipe
	err := r.db.WithContext(ctx).Select("id", "author_id").First(&recipe, id).Error
	if err != nil {
		return 0, notFound(err)
	}
	return recipe.AuthorID, nil
}

// List returns recipes newest first with the total count before pagination.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter) ([]domain.Recipe, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	q := r.withDetails(r.filtered(ctx, f)).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var recipes []domain.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

func (r *RecipeRepository) filtered(ctx context.Context, f RecipeFilter) *gorm.DB {
	db := r.db.WithContext(ctx)
	q := db.Model(&domain.Recipe{})

	if f.AuthorID > 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", db.
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.FavoritedBy > 0 {
		q = q.Where("recipes.id IN (?)", recipeIDsOf(db, &domain.Favorite{}, f.FavoritedBy))
	}
	if f.NotFavoritedBy > 0 {
		q = q.Where("recipes.id NOT IN (?)", recipeIDsOf(db, &domain.Favorite{}, f.NotFavoritedBy))
	}
	if f.InCartOf > 0 {
		q = q.Where("recipes.id IN (?)", recipeIDsOf(db, &domain.ShoppingCartEntry{}, f.InCartOf))
	}
	if f.NotInCartOf > 0 {
		q = q.Where("recipes.id NOT IN (?)", recipeIDsOf(db, &domain.ShoppingCartEntry{}, f.NotInCartOf))
	}
	return q
}

// recipeIDsOf is a subquery selecting recipe ids of one user's relation rows.
func recipeIDsOf(db *gorm.DB, model any, userID int64) *gorm.DB {
	return db.Model(model).Select("recipe_id").Where("user_id = ?", userID)
}

func (r *RecipeRepository) withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("RecipeIngredients.Ingredient")
}

// GetByIDs loads short recipe rows (no associations), keyed by id.
func (r *RecipeRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Recipe, error) {
	out := make(map[int64]domain.Recipe, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var recipes []domain.Recipe
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}
	for _, rec := range recipes {
		out[rec.ID] = rec
	}
	return out, nil
}

// ListByAuthor returns the author's newest recipes without associations.
// limit <= 0 means no limit.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recipes []domain.Recipe
	err := q.Find(&recipes).Error
	return recipes, err
}

// CountByAuthors returns the number of recipes per author id.
func (r *RecipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *RecipeRepository) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("short_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// IDByShortCode resolves a permalink code to the recipe id.
func (r *RecipeRepository) IDByShortCode(ctx context.Context, code string) (int64, error) {
	var recipe domain.Recipe
	err := r.db.WithContext(ctx).
		Select("id").
		Where("short_code = ?", code).
		First(&recipe).Error
	if err != nil {
		return 0, notFound(err)
	}
	return recipe.ID, nil
}

// ShoppingList sums ingredient amounts over every recipe in the user's cart,
// grouped by (name, measurement unit) and ordered by name then unit.
// An empty cart yields an empty slice.
func (r *RecipeRepository) ShoppingList(ctx context.Context, userID int64) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	err := r.db.WithContext(ctx).
		Table("shopping_cart_entries").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("shopping list: %w", err)
	}
	if items == nil {
		items = []domain.ShoppingListItem{}
	}
	return items, nil
}

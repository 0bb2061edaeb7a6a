package repository

import (
	"context"
	"strings"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// List returns ingredients ordered by name. A non-empty prefix filters by
// case-insensitive name prefix.
func (r *IngredientRepository) List(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&domain.Ingredient{})

	prefix = strings.TrimSpace(prefix)
	if prefix != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []domain.Ingredient
	err := q.Order("name ASC").Order("measurement_unit ASC").Find(&ingredients).Error
	return ingredients, err
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ing, nil
}

func (r *IngredientRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	if len(ids) == 0 {
		return []domain.Ingredient{}, nil
	}
	var ingredients []domain.Ingredient
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, err
}

// Create inserts the ingredient unless the (name, unit) pair already exists.
func (r *IngredientRepository) Create(ctx context.Context, ing *domain.Ingredient) error {
	return r.db.WithContext(ctx).
		Where(domain.Ingredient{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}).
		FirstOrCreate(ing).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := r.db.WithContext(ctx).Order("id ASC").Find(&tags).Error
	return tags, err
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tag, nil
}

// GetByIDs returns the tags that exist among ids, in id order.
func (r *TagRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	var tags []domain.Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&tags).Error
	return tags, err
}

// Create inserts the tag, ignoring an existing slug. Used by the seed command.
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	return r.db.WithContext(ctx).
		Where(domain.Tag{Slug: tag.Slug}).
		Attrs(domain.Tag{Name: tag.Name}).
		FirstOrCreate(tag).Error
}

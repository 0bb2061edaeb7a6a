package catalog

import (
	"context"
	"errors"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
)

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
}

type IngredientRepository interface {
	List(ctx context.Context, prefix string) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
}

// Service serves the read-only tag and ingredient dictionaries.
type Service struct {
	tags        TagRepository
	ingredients IngredientRepository
}

func NewService(tags TagRepository, ingredients IngredientRepository) *Service {
	return &Service{tags: tags, ingredients: ingredients}
}

func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.tags.List(ctx)
}

func (s *Service) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTagNotFound
	}
	return tag, err
}

// SearchIngredients matches the beginning of the name, case-insensitively.
// An empty name returns the whole dictionary.
func (s *Service) SearchIngredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	return s.ingredients.List(ctx, strings.TrimSpace(name))
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing, err := s.ingredients.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrIngredientNotFound
	}
	return ing, err
}

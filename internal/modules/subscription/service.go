package subscription

import (
	"context"
	"errors"

	"foodgram/internal/domain"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/user"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
}

type RecipeRepository interface {
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}

type Service struct {
	subscriptions repository.Relation[domain.Subscription]
	users         UserRepository
	recipes       RecipeRepository
}

func NewService(subscriptions repository.Relation[domain.Subscription], users UserRepository, recipes RecipeRepository) *Service {
	return &Service{subscriptions: subscriptions, users: users, recipes: recipes}
}

// Subscribe makes userID follow authorID and returns the author projection.
// recipesLimit <= 0 includes every recipe.
func (s *Service) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*AuthorResponse, error) {
	if _, err := s.subscriptions.Add(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrTargetNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	out, err := s.project(ctx, []domain.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return user.ErrUserNotFound
		}
		return err
	}
	return s.subscriptions.Remove(ctx, userID, authorID)
}

// List returns the authors userID follows, most recently followed first.
func (s *Service) List(ctx context.Context, userID int64, p pagination.Params, recipesLimit int) ([]AuthorResponse, int64, error) {
	rows, total, err := s.subscriptions.ListBySubject(ctx, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.AuthorID)
	}
	authors, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.project(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// project assumes the viewer follows every author in the slice.
func (s *Service) project(ctx context.Context, authors []domain.User, recipesLimit int) ([]AuthorResponse, error) {
	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, authors[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		short := make([]recipe.RecipeShortResponse, 0, len(recipes))
		for j := range recipes {
			short = append(short, recipe.ToRecipeShortResponse(&recipes[j]))
		}
		out = append(out, AuthorResponse{
			UserResponse: user.ToUserResponse(&authors[i], true),
			Recipes:      short,
			RecipesCount: counts[authors[i].ID],
		})
	}
	return out, nil
}

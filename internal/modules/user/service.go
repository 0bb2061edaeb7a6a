package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"
	"foodgram/internal/storage"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	SetAvatar(ctx context.Context, id int64, avatarURL *string) error
}

type Service struct {
	users         UserRepository
	subscriptions repository.Relation[domain.Subscription]
	images        storage.Store
}

func NewService(users UserRepository, subscriptions repository.Relation[domain.Subscription], images storage.Store) *Service {
	return &Service{users: users, subscriptions: subscriptions, images: images}
}

// List returns one page of users with is_subscribed resolved for the viewer.
func (s *Service) List(ctx context.Context, viewerID int64, p pagination.Params) ([]UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	out, err := s.Project(ctx, viewerID, users)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, viewerID, id int64) (*UserResponse, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	subscribed, err := s.subscriptions.Exists(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u, subscribed)
	return &resp, nil
}

// Me is Get with the viewer as target; a user is never subscribed to themselves.
func (s *Service) Me(ctx context.Context, userID int64) (*UserResponse, error) {
	return s.Get(ctx, userID, userID)
}

// Project builds projections for users, resolving is_subscribed in one query.
func (s *Service) Project(ctx context.Context, viewerID int64, users []domain.User) ([]UserResponse, error) {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.subscriptions.ExistingObjects(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i], subscribed[users[i].ID]))
	}
	return out, nil
}

// SetAvatar stores the decoded image and replaces the previous avatar.
func (s *Service) SetAvatar(ctx context.Context, userID int64, req AvatarRequest) (string, error) {
	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	url, err := storage.SaveDataURI(ctx, s.images, "avatars", req.Avatar)
	if err != nil {
		if isImageError(err) {
			return "", &ValidationError{Fields: map[string]string{"avatar": err.Error()}}
		}
		return "", fmt.Errorf("save avatar: %w", err)
	}

	if err := s.users.SetAvatar(ctx, userID, &url); err != nil {
		_ = s.images.Delete(ctx, url)
		return "", err
	}
	s.dropImage(ctx, current.Avatar())
	return url, nil
}

func (s *Service) DeleteAvatar(ctx context.Context, userID int64) error {
	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.users.SetAvatar(ctx, userID, nil); err != nil {
		return err
	}
	s.dropImage(ctx, current.Avatar())
	return nil
}

func (s *Service) dropImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("url", url).Msg("failed to delete old avatar")
	}
}

func isImageError(err error) bool {
	return errors.Is(err, storage.ErrInvalidImage) ||
		errors.Is(err, storage.ErrEmptyImage) ||
		errors.Is(err, storage.ErrImageTooLarge) ||
		errors.Is(err, storage.ErrImageType)
}

package subscription

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/database/dbtest"
	"foodgram/internal/domain"
	"foodgram/internal/modules/user"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	svc := NewService(
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
		repository.NewRecipeRepository(db),
	)
	return svc, db
}

func createUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	u := &domain.User{Email: name + "@example.com", Username: name, FirstName: name, LastName: "Test"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createRecipes(t *testing.T, db *gorm.DB, author *domain.User, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		code := fmt.Sprintf("%s-%d", author.Username, i)
		require.NoError(t, db.Create(&domain.Recipe{
			AuthorID:    author.ID,
			Name:        fmt.Sprintf("%s recipe %d", author.Username, i),
			Image:       "/media/recipes/x.png",
			Text:        "text",
			CookingTime: 10,
			ShortCode:   &code,
		}).Error)
	}
}

func TestSubscribe(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	createRecipes(t, db, alice, 3)

	got, err := svc.Subscribe(ctx, bob.ID, alice.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.True(t, got.IsSubscribed)
	assert.Len(t, got.Recipes, 2)
	assert.EqualValues(t, 3, got.RecipesCount)

	_, err = svc.Subscribe(ctx, bob.ID, alice.ID, 0)
	assert.ErrorIs(t, err, repository.ErrRelationExists)

	var count int64
	require.NoError(t, db.Model(&domain.Subscription{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubscribe_Self(t *testing.T) {
	svc, db := newService(t)
	alice := createUser(t, db, "alice")

	_, err := svc.Subscribe(context.Background(), alice.ID, alice.ID, 0)
	assert.ErrorIs(t, err, repository.ErrSelfRelation)

	var count int64
	require.NoError(t, db.Model(&domain.Subscription{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubscribe_UnknownAuthor(t *testing.T) {
	svc, db := newService(t)
	bob := createUser(t, db, "bob")

	_, err := svc.Subscribe(context.Background(), bob.ID, 404, 0)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, svc.Unsubscribe(context.Background(), bob.ID, 404), user.ErrUserNotFound)
}

func TestUnsubscribe(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.Subscribe(ctx, bob.ID, alice.ID, 0)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(ctx, bob.ID, alice.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, bob.ID, alice.ID), repository.ErrRelationNotFound)
}

func TestList(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	carol := createUser(t, db, "carol")
	bob := createUser(t, db, "bob")
	createRecipes(t, db, alice, 4)
	createRecipes(t, db, carol, 1)

	_, err := svc.Subscribe(ctx, bob.ID, alice.ID, 0)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, bob.ID, carol.ID, 0)
	require.NoError(t, err)

	authors, total, err := svc.List(ctx, bob.ID, pagination.Params{Page: 1, Limit: 10}, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, authors, 2)

	byID := map[int64]AuthorResponse{}
	for _, a := range authors {
		byID[a.ID] = a
	}
	assert.Len(t, byID[alice.ID].Recipes, 1)
	assert.EqualValues(t, 4, byID[alice.ID].RecipesCount)
	assert.EqualValues(t, 1, byID[carol.ID].RecipesCount)

	authors, total, err = svc.List(ctx, alice.ID, pagination.Params{Page: 1, Limit: 10}, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, authors)
}

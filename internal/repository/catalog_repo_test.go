package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/database/dbtest"
	"foodgram/internal/domain"
)

func TestIngredientRepository_ListByPrefix(t *testing.T) {
	db := dbtest.New(t)
	repo := NewIngredientRepository(db)
	ctx := t.Context()

	createIngredient(t, db, "Sugar", "g")
	createIngredient(t, db, "salt", "g")
	createIngredient(t, db, "flour", "g")
	createIngredient(t, db, "50%_cream", "ml")

	got, err := repo.List(ctx, "s")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Sugar", got[0].Name)
	assert.Equal(t, "salt", got[1].Name)

	got, err = repo.List(ctx, "SU")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repo.List(ctx, "50%_")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repo.List(ctx, "5_")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestIngredientRepository_CreateIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	repo := NewIngredientRepository(db)

	first := &domain.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, repo.Create(t.Context(), first))
	second := &domain.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, repo.Create(t.Context(), second))
	assert.Equal(t, first.ID, second.ID)

	_, err := repo.GetByID(t.Context(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTagRepository(t *testing.T) {
	db := dbtest.New(t)
	repo := NewTagRepository(db)
	ctx := t.Context()

	require.NoError(t, repo.Create(ctx, &domain.Tag{Name: "Breakfast", Slug: "breakfast"}))
	require.NoError(t, repo.Create(ctx, &domain.Tag{Name: "Breakfast again", Slug: "breakfast"}))
	require.NoError(t, repo.Create(ctx, &domain.Tag{Name: "Dinner", Slug: "dinner"}))

	tags, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)

	some, err := repo.GetByIDs(ctx, []int64{tags[1].ID, 777})
	require.NoError(t, err)
	require.Len(t, some, 1)

	_, err = repo.GetByID(ctx, 777)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	db := dbtest.New(t)
	repo := NewUserRepository(db)
	ctx := t.Context()

	u := &domain.User{Email: " Alice@Example.com ", Username: "alice", FirstName: "A", LastName: "L"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "alice@example.com", u.Email)

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	bob := createUser(t, db, "bob")

	ordered, err := repo.ListByIDs(ctx, []int64{bob.ID, 999, u.ID})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, bob.ID, ordered[0].ID)

	users, total, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 1)
	assert.Equal(t, bob.ID, users[0].ID)

	avatar := "/media/avatars/a.png"
	require.NoError(t, repo.SetAvatar(ctx, u.ID, &avatar))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, avatar, got.Avatar())

	require.NoError(t, repo.SetAvatar(ctx, u.ID, nil))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Avatar())

	assert.ErrorIs(t, repo.SetAvatar(ctx, 999, nil), ErrNotFound)
}

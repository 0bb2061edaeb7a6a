package repository

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/database/dbtest"
	"foodgram/internal/domain"
)

func TestFavorite_AddTwiceKeepsOneRow(t *testing.T) {
	db := dbtest.New(t)
	repo := NewFavoriteRepository(db)
	ctx := t.Context()

	user := createUser(t, db, "alice")
	recipe := createRecipe(t, db, user, nil, nil)

	fav, err := repo.Add(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, fav.RecipeID)

	_, err = repo.Add(ctx, user.ID, recipe.ID)
	require.ErrorIs(t, err, ErrRelationExists)
	assert.Equal(t, "recipe is already in favorites", err.Error())

	var count int64
	require.NoError(t, db.Model(&domain.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestShoppingCart_AddRemoveRemove(t *testing.T) {
	db := dbtest.New(t)
	repo := NewShoppingCartRepository(db)
	ctx := t.Context()

	user := createUser(t, db, "bob")
	recipe := createRecipe(t, db, user, nil, nil)

	_, err := repo.Add(ctx, user.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Remove(ctx, user.ID, recipe.ID))

	err = repo.Remove(ctx, user.ID, recipe.ID)
	require.ErrorIs(t, err, ErrRelationNotFound)

	var relErr *RelationError
	require.True(t, errors.As(err, &relErr))
	assert.Equal(t, "recipe is not in the shopping cart", relErr.Message)

	exists, err := repo.Exists(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSubscription_SelfRejectedWithoutRow(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSubscriptionRepository(db)

	user := createUser(t, db, "carol")

	_, err := repo.Add(t.Context(), user.ID, user.ID)
	require.ErrorIs(t, err, ErrSelfRelation)

	var count int64
	require.NoError(t, db.Model(&domain.Subscription{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubscription_SelfRejectedEvenForUnknownUser(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSubscriptionRepository(db)

	_, err := repo.Add(t.Context(), 999, 999)
	assert.ErrorIs(t, err, ErrSelfRelation)
}

func TestRelation_AddUnknownTarget(t *testing.T) {
	db := dbtest.New(t)
	user := createUser(t, db, "dave")

	_, err := NewFavoriteRepository(db).Add(t.Context(), user.ID, 12345)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = NewSubscriptionRepository(db).Add(t.Context(), user.ID, 12345)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestRelation_ConcurrentAddsOneWinner(t *testing.T) {
	db := dbtest.New(t)
	repo := NewFavoriteRepository(db)

	user := createUser(t, db, "erin")
	recipe := createRecipe(t, db, user, nil, nil)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Add(t.Context(), user.ID, recipe.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrRelationExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestRelation_UniqueIndexDecidesLostRace(t *testing.T) {
	db := dbtest.New(t)
	repo := NewFavoriteRepository(db.Session(&gorm.Session{SkipDefaultTransaction: true}))

	user := createUser(t, db, "ivan")
	recipe := createRecipe(t, db, user, nil, nil)

	// Another writer commits the same pair between the existence check and the insert.
	injected := false
	err := db.Callback().Create().Before("gorm:create").Register("test:concurrent_favorite", func(tx *gorm.DB) {
		if injected || tx.Statement.Table != "favorites" {
			return
		}
		injected = true
		tx.AddError(tx.Session(&gorm.Session{NewDB: true}).
			Exec("INSERT INTO favorites (user_id, recipe_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)", user.ID, recipe.ID).Error)
	})
	require.NoError(t, err)

	_, err = repo.Add(t.Context(), user.ID, recipe.ID)
	require.True(t, injected)
	require.ErrorIs(t, err, ErrRelationExists)
	assert.Equal(t, "recipe is already in favorites", err.Error())

	var count int64
	require.NoError(t, db.Model(&domain.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRelation_ObjectIDsAndExistingObjects(t *testing.T) {
	db := dbtest.New(t)
	repo := NewFavoriteRepository(db)
	ctx := t.Context()

	user := createUser(t, db, "frank")
	other := createUser(t, db, "grace")
	r1 := createRecipe(t, db, other, nil, nil)
	r2 := createRecipe(t, db, other, nil, nil)
	r3 := createRecipe(t, db, other, nil, nil)

	_, err := repo.Add(ctx, user.ID, r1.ID)
	require.NoError(t, err)
	_, err = repo.Add(ctx, user.ID, r3.ID)
	require.NoError(t, err)

	ids, err := repo.ObjectIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{r1.ID, r3.ID}, ids)

	found, err := repo.ExistingObjects(ctx, user.ID, []int64{r1.ID, r2.ID, r3.ID})
	require.NoError(t, err)
	assert.True(t, found[r1.ID])
	assert.False(t, found[r2.ID])
	assert.True(t, found[r3.ID])

	anon, err := repo.ExistingObjects(ctx, 0, []int64{r1.ID})
	require.NoError(t, err)
	assert.Empty(t, anon)

	rows, total, err := repo.ListBySubject(ctx, user.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 1)
}

func TestRelation_CascadeOnRecipeDelete(t *testing.T) {
	db := dbtest.New(t)
	favs := NewFavoriteRepository(db)
	recipes := NewRecipeRepository(db)
	ctx := t.Context()

	user := createUser(t, db, "heidi")
	recipe := createRecipe(t, db, user, nil, nil)
	_, err := favs.Add(ctx, user.ID, recipe.ID)
	require.NoError(t, err)

	_, err = recipes.Delete(ctx, recipe.ID)
	require.NoError(t, err)

	exists, err := favs.Exists(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
	"inkwell/internal/stats"
)

func findGroup(t *testing.T, snap *models.StatsSnapshot, id uuid.UUID) models.CategoryGroup {
	t.Helper()
	for _, g := range snap.ArticleGroupInfo {
		if g.Category.ID == id {
			return g
		}
	}
	t.Fatalf("category %s missing from snapshot", id)
	return models.CategoryGroup{}
}

func findTag(t *testing.T, snap *models.StatsSnapshot, id uuid.UUID) models.TagGroup {
	t.Helper()
	for _, g := range snap.TagGroupInfo {
		if g.ID == id {
			return g
		}
	}
	t.Fatalf("tag %s missing from snapshot", id)
	return models.TagGroup{}
}

func TestStatsStoreSnapshot(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	favs := NewFavoriteStore(db)

	author := testUser(t, db)
	tech := testCategory(t, db, "Tech")
	empty := testCategory(t, db, "Empty")
	popular := testTag(t, db, "popular")
	unused := testTag(t, db, "unused")

	a1 := testArticle(t, db, author, tech, 5, popular.ID)
	a2 := testArticle(t, db, author, tech, 10, popular.ID)
	other := testCategory(t, db, "Other")
	testArticle(t, db, author, other, 1, popular.ID)

	for _, pair := range []struct {
		article uuid.UUID
		user    *models.User
	}{
		{a1.ID, testUser(t, db)},
		{a1.ID, testUser(t, db)},
		{a2.ID, testUser(t, db)},
	} {
		_, err := favs.Add(ctx, pair.article, pair.user.ID)
		require.NoError(t, err)
	}

	snap, err := stats.New(NewStatsStore(db)).Compute(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, int64(len(snap.ArticleGroupInfo)), snap.CategoryCount)
	assert.Equal(t, int64(len(snap.TagGroupInfo)), snap.TagCount)

	g := findGroup(t, snap, tech.ID)
	assert.Equal(t, tech.Name, g.Category.Name)
	assert.Equal(t, int64(2), g.ArticleCount)
	assert.Equal(t, int64(3), g.TotalFavorites)
	assert.Equal(t, int64(15), g.TotalViews)

	e := findGroup(t, snap, empty.ID)
	assert.Zero(t, e.ArticleCount)
	assert.Zero(t, e.TotalFavorites)
	assert.Zero(t, e.TotalViews)

	assert.Equal(t, int64(3), findTag(t, snap, popular.ID).ArticleCount)
	assert.Zero(t, findTag(t, snap, unused.ID).ArticleCount)
}

func TestStatsStoreCanceledContext(t *testing.T) {
	db := testDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap, err := stats.New(NewStatsStore(db)).Compute(ctx)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, stats.ErrStoreUnavailable)
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

// newCategory creates a category through the handler and removes it on
// cleanup after its articles.
func (e *testEnv) newCategory(t *testing.T, admin *models.User) models.Category {
	t.Helper()
	name := "Cat " + uuid.NewString()[:8]
	rr := call(t, http.MethodPost, "/categories", "/categories", e.Content.CreateCategory, map[string]string{"name": name}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	c := decode[models.Category](t, rr)
	t.Cleanup(func() {
		e.DB.Exec("DELETE FROM articles WHERE category_id = $1", c.ID)
		e.DB.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

func TestCategoryHandlers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.newUser(t, models.RoleAdmin)

	c := env.newCategory(t, admin)
	assert.NotEmpty(t, c.Slug)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rr := call(t, http.MethodPost, "/categories", "/categories", env.Content.CreateCategory,
			map[string]string{"name": c.Name, "slug": "other-" + uuid.NewString()[:8]}, admin)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown field is malformed", func(t *testing.T) {
		rr := call(t, http.MethodPost, "/categories", "/categories", env.Content.CreateCategory,
			map[string]string{"name": "x", "colour": "red"}, admin)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty name is invalid", func(t *testing.T) {
		rr := call(t, http.MethodPost, "/categories", "/categories", env.Content.CreateCategory,
			map[string]string{"name": " "}, admin)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("update", func(t *testing.T) {
		rr := call(t, http.MethodPut, "/categories/{id}", "/categories/"+c.ID.String(), env.Content.UpdateCategory,
			map[string]string{"name": c.Name, "description": "changed"}, admin)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "changed", decode[models.Category](t, rr).Description)
	})

	t.Run("update missing", func(t *testing.T) {
		rr := call(t, http.MethodPut, "/categories/{id}", "/categories/"+uuid.NewString(), env.Content.UpdateCategory,
			map[string]string{"name": "Nope " + uuid.NewString()[:8]}, admin)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeleteCategoryInUse(t *testing.T) {
	env := newTestEnv(t)
	admin := env.newUser(t, models.RoleAdmin)
	c := env.newCategory(t, admin)

	rr := call(t, http.MethodPost, "/articles", "/articles", env.Content.CreateArticle,
		map[string]any{"title": "Pinned", "category_id": c.ID}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = call(t, http.MethodDelete, "/categories/{id}", "/categories/"+c.ID.String(), env.Content.DeleteCategory, nil, admin)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestArticleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	author := env.newUser(t, models.RoleAuthor)
	other := env.newUser(t, models.RoleAuthor)
	reader := env.newUser(t, models.RoleReader)
	admin := env.newUser(t, models.RoleAdmin)
	c := env.newCategory(t, admin)
	title := "Hello World " + uuid.NewString()[:8]

	rr := call(t, http.MethodPost, "/articles", "/articles", env.Content.CreateArticle,
		map[string]any{"title": title, "body": "# Hi\n\nFirst **post**.", "category_id": c.ID}, author)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	first := decode[models.Article](t, rr)
	assert.Equal(t, author.ID, first.AuthorID)

	// Same title again gets a suffixed slug.
	rr = call(t, http.MethodPost, "/articles", "/articles", env.Content.CreateArticle,
		map[string]any{"title": title, "category_id": c.ID}, author)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	second := decode[models.Article](t, rr)
	assert.Equal(t, first.Slug+"-2", second.Slug)

	t.Run("show counts views and renders", func(t *testing.T) {
		for want := int64(1); want <= 2; want++ {
			rr := call(t, http.MethodGet, "/articles/{slug}", "/articles/"+first.Slug, env.Content.ShowArticle, nil, nil)
			require.Equal(t, http.StatusOK, rr.Code)
			view := decode[struct {
				Views int64  `json:"views"`
				HTML  string `json:"html"`
			}](t, rr)
			assert.Equal(t, want, view.Views)
			assert.Contains(t, view.HTML, "<strong>post</strong>")
		}
	})

	t.Run("list by category with excerpts", func(t *testing.T) {
		rr := call(t, http.MethodGet, "/articles", "/articles?category="+c.ID.String(), env.Content.ListArticles, nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		items := decode[[]articleSummary](t, rr)
		require.Len(t, items, 2)
		for _, it := range items {
			if it.ID == first.ID {
				assert.Equal(t, "Hi First post.", it.Excerpt)
			}
		}
	})

	t.Run("bad filter", func(t *testing.T) {
		rr := call(t, http.MethodGet, "/articles", "/articles?tag=nope", env.Content.ListArticles, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("other author cannot edit", func(t *testing.T) {
		rr := call(t, http.MethodPut, "/articles/{id}", "/articles/"+first.ID.String(), env.Content.UpdateArticle,
			map[string]any{"title": "Hijack", "category_id": c.ID}, other)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("author edits", func(t *testing.T) {
		rr := call(t, http.MethodPut, "/articles/{id}", "/articles/"+first.ID.String(), env.Content.UpdateArticle,
			map[string]any{"title": "Edited", "body": "changed", "category_id": c.ID}, author)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "Edited", decode[models.Article](t, rr).Title)

		rr = call(t, http.MethodGet, "/articles/{slug}", "/articles/"+first.Slug, env.Content.ShowArticle, nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), "<strong>post</strong>", "edited body must not come from the cache")
	})

	t.Run("favorites", func(t *testing.T) {
		target := "/articles/" + first.ID.String() + "/favorite"
		rr := call(t, http.MethodPost, "/articles/{id}/favorite", target, env.Content.AddFavorite, nil, reader)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		rr = call(t, http.MethodPost, "/articles/{id}/favorite", target, env.Content.AddFavorite, nil, reader)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(1), decode[favoriteResponse](t, rr).Favorites)

		rr = call(t, http.MethodDelete, "/articles/{id}/favorite", target, env.Content.RemoveFavorite, nil, reader)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Zero(t, decode[favoriteResponse](t, rr).Favorites)

		rr = call(t, http.MethodPost, "/articles/{id}/favorite", "/articles/"+uuid.NewString()+"/favorite", env.Content.AddFavorite, nil, reader)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("admin deletes", func(t *testing.T) {
		rr := call(t, http.MethodDelete, "/articles/{id}", "/articles/"+second.ID.String(), env.Content.DeleteArticle, nil, admin)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = call(t, http.MethodDelete, "/articles/{id}", "/articles/"+second.ID.String(), env.Content.DeleteArticle, nil, admin)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestArticleUnknownTag(t *testing.T) {
	env := newTestEnv(t)
	author := env.newUser(t, models.RoleAuthor)
	admin := env.newUser(t, models.RoleAdmin)
	c := env.newCategory(t, admin)

	rr := call(t, http.MethodPost, "/articles", "/articles", env.Content.CreateArticle,
		map[string]any{"title": "Tagged", "category_id": c.ID, "tag_ids": []uuid.UUID{uuid.New()}}, author)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestTagHandlers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.newUser(t, models.RoleAdmin)

	rr := call(t, http.MethodPost, "/tags", "/tags", env.Content.CreateTag, map[string]string{"name": "tag " + uuid.NewString()[:8]}, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	tag := decode[models.Tag](t, rr)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM tags WHERE id = $1", tag.ID) })
	assert.False(t, tag.Builtin)

	_, err := env.DB.Exec("UPDATE tags SET builtin = TRUE WHERE id = $1", tag.ID)
	require.NoError(t, err)

	rr = call(t, http.MethodDelete, "/tags/{id}", "/tags/"+tag.ID.String(), env.Content.DeleteTag, nil, admin)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = call(t, http.MethodGet, "/tags", "/tags", env.Content.ListTags, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), tag.ID.String())
}

func TestDashboardStatsIntegration(t *testing.T) {
	env := newTestEnv(t)
	admin := env.newUser(t, models.RoleAdmin)
	c := env.newCategory(t, admin)

	for _, title := range []string{"One", "Two"} {
		rr := call(t, http.MethodPost, "/articles", "/articles", env.Content.CreateArticle,
			map[string]any{"title": title + " " + uuid.NewString()[:8], "category_id": c.ID}, admin)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr := call(t, http.MethodGet, "/dashboard/stats", "/dashboard/stats", env.Dashboard.Stats, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	snap := decode[models.StatsSnapshot](t, rr)
	assert.Equal(t, int64(len(snap.ArticleGroupInfo)), snap.CategoryCount)
	for _, g := range snap.ArticleGroupInfo {
		if g.Category.ID == c.ID {
			assert.Equal(t, int64(2), g.ArticleCount)
			assert.Zero(t, g.TotalViews)
			return
		}
	}
	t.Fatal("new category missing from snapshot")
}

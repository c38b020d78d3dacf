package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"inkwell/internal/middleware"
)

type favoriteResponse struct {
	ArticleID uuid.UUID `json:"article_id"`
	Favorited bool      `json:"favorited"`
	Favorites int64     `json:"favorites"`
}

// AddFavorite handles POST /articles/{id}/favorite. Favoriting twice is a
// no-op answered with 200 instead of 201.
func (h *Content) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	created, err := h.favorites.Add(r.Context(), id, sess.UserID)
	if err != nil {
		writeStoreError(w, "add favorite", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.writeFavorite(w, r, status, id, true)
}

// RemoveFavorite handles DELETE /articles/{id}/favorite. Idempotent.
func (h *Content) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	if _, err := h.favorites.Remove(r.Context(), id, sess.UserID); err != nil {
		writeStoreError(w, "remove favorite", err)
		return
	}
	h.writeFavorite(w, r, http.StatusOK, id, false)
}

func (h *Content) writeFavorite(w http.ResponseWriter, r *http.Request, status int, id uuid.UUID, favorited bool) {
	n, err := h.favorites.CountForArticle(r.Context(), id)
	if err != nil {
		writeStoreError(w, "count favorites", err)
		return
	}
	writeJSON(w, status, favoriteResponse{ArticleID: id, Favorited: favorited, Favorites: n})
}

// ListFavorites handles GET /favorites: the caller's favorites, newest first.
func (h *Content) ListFavorites(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	items, err := h.favorites.ListByUser(r.Context(), sess.UserID)
	if err != nil {
		writeStoreError(w, "list favorites", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

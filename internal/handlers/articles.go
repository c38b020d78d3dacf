// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

const (
	// maxSlugAttempts bounds the -2, -3, ... suffixes tried for a derived slug.
	maxSlugAttempts = 5

	excerptLen = 200
)

type articleRequest struct {
	Title      string      `json:"title"`
	Slug       string      `json:"slug"`
	Body       string      `json:"body"`
	CategoryID uuid.UUID   `json:"category_id"`
	TagIDs     []uuid.UUID `json:"tag_ids"`
}

func (req *articleRequest) validate() string {
	if msg := validateArticle(req.Title, req.Slug, req.Body); msg != "" {
		return msg
	}
	if req.CategoryID == uuid.Nil {
		return "Category is required."
	}
	return ""
}

// articleSummary is a list entry: the article without its body.
type articleSummary struct {
	ID         uuid.UUID   `json:"id"`
	Title      string      `json:"title"`
	Slug       string      `json:"slug"`
	Excerpt    string      `json:"excerpt"`
	CategoryID uuid.UUID   `json:"category_id"`
	AuthorID   uuid.UUID   `json:"author_id"`
	Views      int64       `json:"views"`
	TagIDs     []uuid.UUID `json:"tag_ids"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// articleView is a single article with its body rendered.
type articleView struct {
	*models.Article
	HTML string `json:"html"`
}

// ListArticles handles GET /articles with optional ?category= and ?tag=
// filters, both category/tag ids.
func (h *Content) ListArticles(w http.ResponseWriter, r *http.Request) {
	var f models.ArticleFilter
	q := r.URL.Query()
	for name, dst := range map[string]**uuid.UUID{"category": &f.CategoryID, "tag": &f.TagID} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+name+" id")
			return
		}
		*dst = &id
	}

	items, err := h.articles.List(r.Context(), f)
	if err != nil {
		writeStoreError(w, "list articles", err)
		return
	}

	out := make([]articleSummary, 0, len(items))
	for _, a := range items {
		out = append(out, articleSummary{
			ID:         a.ID,
			Title:      a.Title,
			Slug:       a.Slug,
			Excerpt:    markdown.Excerpt(a.Body, excerptLen),
			CategoryID: a.CategoryID,
			AuthorID:   a.AuthorID,
			Views:      a.Views,
			TagIDs:     a.TagIDs,
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ShowArticle handles GET /articles/{slug}. Each read counts as a view.
func (h *Content) ShowArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a, err := h.articles.FindBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeStoreError(w, "find article", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	views, err := h.articles.IncrementViews(ctx, a.ID)
	if err != nil {
		writeStoreError(w, "count article view", err)
		return
	}
	a.Views = views

	html, err := h.renderBody(ctx, a)
	if err != nil {
		slog.Error("render article failed", "id", a.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, articleView{Article: a, HTML: html})
}

func (h *Content) renderBody(ctx context.Context, a *models.Article) (string, error) {
	render := func() (string, error) { return markdown.ToHTML(a.Body) }
	if h.htmlCache == nil {
		return render()
	}
	return h.htmlCache.Render(ctx, a.ID, a.UpdatedAt, render)
}

// CreateArticle handles POST /articles. The caller becomes the author.
// Without an explicit slug one is derived from the title, suffixed -2, -3,
// ... on collision.
func (h *Content) CreateArticle(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req articleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	a := &models.Article{
		Title:      strings.TrimSpace(req.Title),
		Body:       req.Body,
		CategoryID: req.CategoryID,
		AuthorID:   sess.UserID,
		TagIDs:     req.TagIDs,
	}

	created, err := h.createWithSlug(r.Context(), a, req.Slug)
	if err != nil {
		writeStoreError(w, "create article", err)
		return
	}
	slog.Info("article created", "id", created.ID, "slug", created.Slug, "author", sess.UserID)
	writeJSON(w, http.StatusCreated, created)
}

func (h *Content) createWithSlug(ctx context.Context, a *models.Article, explicit string) (*models.Article, error) {
	if explicit != "" {
		a.Slug = explicit
		return h.articles.Create(ctx, a)
	}

	base := slug.Generate(a.Title)
	if base == "" {
		base = "article"
	}
	var err error
	for n := 1; n <= maxSlugAttempts; n++ {
		a.Slug = slug.WithSuffix(base, n)
		var created *models.Article
		created, err = h.articles.Create(ctx, a)
		if !errors.Is(err, store.ErrDuplicate) {
			return created, err
		}
	}
	return nil, err
}

// UpdateArticle handles PUT /articles/{id}. Only the author or an admin may
// edit; the tag set in the request replaces the stored one.
func (h *Content) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.ownedArticle(w, r)
	if !ok {
		return
	}

	var req articleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	existing.Title = strings.TrimSpace(req.Title)
	existing.Body = req.Body
	existing.CategoryID = req.CategoryID
	existing.TagIDs = req.TagIDs
	if req.Slug != "" {
		existing.Slug = req.Slug
	}

	ctx := r.Context()
	if err := h.articles.Update(ctx, existing); err != nil {
		writeStoreError(w, "update article", err)
		return
	}
	if h.htmlCache != nil {
		h.htmlCache.Invalidate(ctx, existing.ID)
	}

	updated, err := h.articles.FindByID(ctx, existing.ID)
	if err != nil {
		writeStoreError(w, "reload article", err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteArticle handles DELETE /articles/{id}. Its favorites and tag links
// are removed with it.
func (h *Content) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	a, ok := h.ownedArticle(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.articles.Delete(ctx, a.ID); err != nil {
		writeStoreError(w, "delete article", err)
		return
	}
	if h.htmlCache != nil {
		h.htmlCache.Invalidate(ctx, a.ID)
	}
	slog.Info("article deleted", "id", a.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ownedArticle loads the {id} article and checks the caller may modify it.
// Writes the error response and returns false otherwise.
func (h *Content) ownedArticle(w http.ResponseWriter, r *http.Request) (*models.Article, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}

	a, err := h.articles.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, "find article", err)
		return nil, false
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "not found")
		return nil, false
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || (!sess.IsAdmin() && sess.UserID != a.AuthorID) {
		writeError(w, http.StatusForbidden, "only the author or an admin may change this article")
		return nil, false
	}
	return a, true
}

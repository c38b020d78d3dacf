package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// toModel validates the request and builds the category. The slug defaults
// to one derived from the name.
func (req *categoryRequest) toModel() (*models.Category, string) {
	if msg := validateCategory(req.Name, req.Slug, req.Description); msg != "" {
		return nil, msg
	}
	c := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        req.Slug,
		Description: strings.TrimSpace(req.Description),
	}
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	if c.Slug == "" {
		return nil, "Name must contain at least one letter or digit."
	}
	return c, ""
}

// ListCategories handles GET /categories.
func (h *Content) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List(r.Context())
	if err != nil {
		writeStoreError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateCategory handles POST /categories.
func (h *Content) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, msg := req.toModel()
	if msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	created, err := h.categories.Create(r.Context(), c)
	if err != nil {
		writeStoreError(w, "create category", err)
		return
	}
	slog.Info("category created", "id", created.ID, "name", created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory handles PUT /categories/{id}.
func (h *Content) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, msg := req.toModel()
	if msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	c.ID = id

	if err := h.categories.Update(r.Context(), c); err != nil {
		writeStoreError(w, "update category", err)
		return
	}
	updated, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, "reload category", err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory handles DELETE /categories/{id}. A category that still
// has articles is kept and 409 is returned.
func (h *Content) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeStoreError(w, "delete category", err)
		return
	}
	slog.Info("category deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

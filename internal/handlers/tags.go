package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

type tagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (req *tagRequest) toModel() (*models.Tag, string) {
	if msg := validateTag(req.Name, req.Slug); msg != "" {
		return nil, msg
	}
	t := &models.Tag{Name: strings.TrimSpace(req.Name), Slug: req.Slug}
	if t.Slug == "" {
		t.Slug = slug.Generate(t.Name)
	}
	if t.Slug == "" {
		return nil, "Name must contain at least one letter or digit."
	}
	return t, ""
}

// ListTags handles GET /tags.
func (h *Content) ListTags(w http.ResponseWriter, r *http.Request) {
	items, err := h.tags.List(r.Context())
	if err != nil {
		writeStoreError(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateTag handles POST /tags.
func (h *Content) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, msg := req.toModel()
	if msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	created, err := h.tags.Create(r.Context(), t)
	if err != nil {
		writeStoreError(w, "create tag", err)
		return
	}
	slog.Info("tag created", "id", created.ID, "name", created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTag handles PUT /tags/{id}. Builtin tags answer 403.
func (h *Content) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req tagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, msg := req.toModel()
	if msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	t.ID = id

	if err := h.tags.Update(r.Context(), t); err != nil {
		writeStoreError(w, "update tag", err)
		return
	}
	updated, err := h.tags.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, "reload tag", err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTag handles DELETE /tags/{id}. Its article links go with it.
func (h *Content) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.tags.Delete(r.Context(), id); err != nil {
		writeStoreError(w, "delete tag", err)
		return
	}
	slog.Info("tag deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

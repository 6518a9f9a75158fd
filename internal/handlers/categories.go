// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// Categories groups the category API handlers. readCache may be nil when
// Valkey is not configured; every code path works without it.
type Categories struct {
	store     *store.CategoryStore
	readCache *cache.ReadCache
}

// NewCategories creates the category handler group.
func NewCategories(s *store.CategoryStore, rc *cache.ReadCache) *Categories {
	return &Categories{store: s, readCache: rc}
}

// List returns all categories ordered by name ascending.
// GET /api/categories
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.readCache != nil {
		if body, ok := h.readCache.Get(ctx, cache.CategoriesKey()); ok {
			writeCached(w, http.StatusOK, body)
			return
		}
	}

	items, err := h.store.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, codeInternal, "could not list categories")
		return
	}
	if items == nil {
		items = []models.Category{}
	}

	respondCacheable(w, r, h.readCache, cache.CategoriesKey(), http.StatusOK, items)
}

// Create adds a new category. The slug is derived from the name.
// POST /api/categories
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	if fields := checkConstraints(categoryConstraints, map[string]string{"name": in.Name}); fields != nil {
		respondValidation(w, fields)
		return
	}

	created, err := h.store.Create(in.Name, slug.Generate(in.Name))
	if err != nil {
		if store.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, codeConflict, "a category with that name already exists")
			return
		}
		slog.Error("create category failed", "error", err)
		respondError(w, http.StatusInternalServerError, codeInternal, "could not create category")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusCreated, created)
}

// Delete removes a category. Link rows go with it via cascade; deleting an
// id that does not exist is still a success.
// DELETE /api/categories/{id}
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(id); err != nil {
		slog.Error("delete category failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, codeInternal, "could not delete category")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Categories) invalidate(r *http.Request) {
	if h.readCache != nil {
		h.readCache.Invalidate(r.Context())
	}
}

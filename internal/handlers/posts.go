// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// Posts groups the post API handlers. readCache may be nil when Valkey is
// not configured.
type Posts struct {
	store     *store.PostStore
	readCache *cache.ReadCache
}

// NewPosts creates the post handler group.
func NewPosts(s *store.PostStore, rc *cache.ReadCache) *Posts {
	return &Posts{store: s, readCache: rc}
}

// postInput is the shared request body for create and update.
type postInput struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	CategoryIDs []int64 `json:"category_ids"`
}

// validate checks the declarative constraint table and reports field-level
// messages for the offending inputs.
func (in *postInput) validate() map[string]string {
	return checkConstraints(postConstraints, map[string]string{
		"title":   in.Title,
		"content": in.Content,
	})
}

// List returns posts newest first, each with its categories. An optional
// ?category=<id> filter restricts the listing to posts linked to that
// category; a category with no posts yields an empty list.
// GET /api/posts
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var categoryID *int64
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondValidation(w, map[string]string{"category": "category must be an integer"})
			return
		}
		categoryID = &id
	}

	key := cache.ListKey(categoryID)
	if h.readCache != nil {
		if body, ok := h.readCache.Get(ctx, key); ok {
			writeCached(w, http.StatusOK, body)
			return
		}
	}

	items, err := h.store.List(categoryID)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		respondError(w, http.StatusInternalServerError, codeInternal, "could not list posts")
		return
	}
	if items == nil {
		items = []models.Post{}
	}

	respondCacheable(w, r, h.readCache, key, http.StatusOK, items)
}

// Get returns a single post by slug with its categories and the rendered
// HTML body, or a 404 marker when no post matches.
// GET /api/posts/{slug}
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postSlug := chi.URLParam(r, "slug")

	key := cache.PostKey(postSlug)
	if h.readCache != nil {
		if body, ok := h.readCache.Get(ctx, key); ok {
			writeCached(w, http.StatusOK, body)
			return
		}
	}

	post, err := h.store.FindBySlug(postSlug)
	if err != nil {
		slog.Error("find post failed", "slug", postSlug, "error", err)
		respondError(w, http.StatusInternalServerError, codeInternal, "could not fetch post")
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, codeNotFound, "no post with that slug")
		return
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Warn("markdown render failed", "slug", postSlug, "error", err)
	} else {
		post.HTML = html
	}

	respondCacheable(w, r, h.readCache, key, http.StatusOK, post)
}

// Create validates the input, derives the slug from the title and creation
// time, and inserts the post together with its link rows in one
// transaction. The response is the bare post row without associations.
// POST /api/posts
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in postInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if fields := in.validate(); fields != nil {
		respondValidation(w, fields)
		return
	}

	postSlug := slug.ForTitle(in.Title, time.Now())
	created, err := h.store.Create(in.Title, postSlug, in.Content, in.CategoryIDs)
	if err != nil {
		switch {
		case store.IsForeignKeyViolation(err):
			respondValidation(w, map[string]string{"category_ids": "references a category that does not exist"})
		case store.IsUniqueViolation(err):
			respondError(w, http.StatusConflict, codeConflict, "a post with that slug already exists")
		default:
			slog.Error("create post failed", "error", err)
			respondError(w, http.StatusInternalServerError, codeInternal, "could not create post")
		}
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusCreated, created)
}

// Update validates the input, then atomically rewrites the post's title,
// content, and updated_at and replaces its entire category link set. The
// slug is left alone. Updating an id with no row is acknowledged as
// success, matching the unconditional storage semantics.
// PUT /api/posts/{id}
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in postInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if fields := in.validate(); fields != nil {
		respondValidation(w, fields)
		return
	}

	if err := h.store.Update(id, in.Title, in.Content, in.CategoryIDs); err != nil {
		if store.IsForeignKeyViolation(err) {
			respondValidation(w, map[string]string{"category_ids": "references a category that does not exist"})
			return
		}
		slog.Error("update post failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, codeInternal, "could not update post")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, successResponse{Success: true, UpdatedID: id})
}

// Delete removes a post; its link rows cascade away. Deleting an id that
// does not exist is still a success.
// DELETE /api/posts/{id}
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(id); err != nil {
		slog.Error("delete post failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, codeInternal, "could not delete post")
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Posts) invalidate(r *http.Request) {
	if h.readCache != nil {
		h.readCache.Invalidate(r.Context())
	}
}

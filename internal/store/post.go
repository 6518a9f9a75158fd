// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations, including the
// posts_to_categories join. Every mutation that touches both the post row
// and its link rows runs in a single transaction, so readers never observe
// a post with a partially written link set.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, content, created_at, updated_at`

// List returns posts ordered by creation date descending, each with its
// associated categories. When categoryID is non-nil, only posts linked to
// that category are returned; a category with no linked posts short-circuits
// to an empty list without a second query.
func (s *PostStore) List(categoryID *int64) ([]models.Post, error) {
	if categoryID != nil {
		ids, err := s.postIDsInCategory(*categoryID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.Post{}, nil
		}
		return s.listByIDs(ids)
	}

	rows, err := s.db.Query(`
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}
	return s.attachCategories(posts)
}

// postIDsInCategory resolves the distinct set of post ids linked to a category.
func (s *PostStore) postIDsInCategory(categoryID int64) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT post_id
		FROM posts_to_categories
		WHERE category_id = $1
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list post ids in category: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan post id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// listByIDs returns the full post records for the given ids, newest first.
func (s *PostStore) listByIDs(ids []int64) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE id = ANY($1)
		ORDER BY created_at DESC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list posts by ids: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}
	return s.attachCategories(posts)
}

// FindBySlug retrieves a post with its categories. Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	p := models.Post{}
	err := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts WHERE slug = $1
	`, slug).Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	posts, err := s.attachCategories([]models.Post{p})
	if err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// Create inserts a post and one link row per category id in a single
// transaction. If any link insert fails (e.g. a category id that does not
// exist), the whole transaction rolls back and no post row is left behind.
// The returned post carries no category associations; callers re-fetch if
// they need them.
func (s *PostStore) Create(title, slug, content string, categoryIDs []int64) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create post begin tx: %w", err)
	}
	defer tx.Rollback()

	p := &models.Post{}
	err = tx.QueryRow(`
		INSERT INTO posts (title, slug, content)
		VALUES ($1, $2, $3)
		RETURNING `+postColumns,
		title, slug, content,
	).Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := insertLinks(tx, p.ID, categoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create post commit: %w", err)
	}
	return p, nil
}

// Update modifies a post's title, content, and updated_at, then replaces its
// entire link set with the given category ids, all in one transaction. This
// is full-replace semantics: omitting a previously linked category removes
// that link. The slug is never touched. Updating an id that does not exist
// affects zero rows and is not an error; the link rewrite is skipped so the
// absent post id never trips the join table's foreign key.
func (s *PostStore) Update(id int64, title, content string, categoryIDs []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("update post begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE posts SET title = $1, content = $2, updated_at = NOW()
		WHERE id = $3
	`, title, content, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update post rows affected: %w", err)
	} else if n == 0 {
		return nil
	}

	if _, err := tx.Exec(`
		DELETE FROM posts_to_categories WHERE post_id = $1
	`, id); err != nil {
		return fmt.Errorf("update post clear links: %w", err)
	}

	if err := insertLinks(tx, id, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update post commit: %w", err)
	}
	return nil
}

// Delete removes a post by id. Its link rows go with it via ON DELETE
// CASCADE. Deleting an id that does not exist is a no-op.
func (s *PostStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// insertLinks adds one join row per category id inside the given transaction.
func insertLinks(tx *sql.Tx, postID int64, categoryIDs []int64) error {
	for _, categoryID := range categoryIDs {
		if _, err := tx.Exec(`
			INSERT INTO posts_to_categories (post_id, category_id)
			VALUES ($1, $2)
		`, postID, categoryID); err != nil {
			return fmt.Errorf("link post %d to category %d: %w", postID, categoryID, err)
		}
	}
	return nil
}

// scanPosts reads post rows into a slice.
func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// attachCategories populates Categories for each post with a single query
// over the join table.
func (s *PostStore) attachCategories(posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	rows, err := s.db.Query(`
		SELECT pc.post_id, c.id, c.name, c.slug
		FROM posts_to_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = ANY($1)
		ORDER BY c.name ASC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("attach categories: %w", err)
	}
	defer rows.Close()

	byPost := make(map[int64][]models.Category, len(posts))
	for rows.Next() {
		var postID int64
		var c models.Category
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan post category: %w", err)
		}
		byPost[postID] = append(byPost[postID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].Categories = byPost[posts[i].ID]
	}
	return posts, nil
}

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/slug"
)

// Seed populates the database with initial development data: a few starter
// categories and a welcome post linked to the first of them. It is a no-op
// when any categories already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	names := []string{"General", "Engineering", "Releases"}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		var id int64
		err := db.QueryRow(`
			INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id
		`, name, slug.Generate(name)).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", name, err)
		}
		ids = append(ids, id)
	}

	title := "Welcome to your new blog"
	content := "This is a seeded starter post. Edit or delete it from the " +
		"dashboard, then write something of your own. Posts can belong to " +
		"any number of categories, and visitors can filter the listing by " +
		"category."

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var postID int64
	err = tx.QueryRow(`
		INSERT INTO posts (title, slug, content) VALUES ($1, $2, $3) RETURNING id
	`, title, slug.ForTitle(title, time.Now()), content).Scan(&postID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO posts_to_categories (post_id, category_id) VALUES ($1, $2)
	`, postID, ids[0]); err != nil {
		return fmt.Errorf("seed link post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with starter content",
		"categories", len(ids),
		"post_id", postID,
	)

	return nil
}

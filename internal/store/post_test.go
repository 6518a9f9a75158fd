package store

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/slug"
)

// testContent is long enough to satisfy the content length constraint
// enforced at the API boundary.
var testContent = strings.Repeat("store test content ", 5)

// newCategory inserts a category with a unique name and returns its id.
func newCategory(t *testing.T, s *CategoryStore, prefix string) int64 {
	t.Helper()
	name := prefix + " " + uuid.NewString()[:8]
	c, err := s.Create(name, slug.Generate(name))
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c.ID
}

func TestPostStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	categories := NewCategoryStore(db)

	catID := newCategory(t, categories, "Find Cat")
	title := "Create test " + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanPosts(t, db, title)
		db.Exec("DELETE FROM categories WHERE id = $1", catID)
	})

	created, err := posts.Create(title, slug.ForTitle(title, time.Now()), testContent, []int64{catID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == 0 {
		t.Error("expected generated id")
	}
	if created.UpdatedAt != nil {
		t.Error("expected nil updated_at on a fresh post")
	}
	// The create path returns the bare row, without associations.
	if len(created.Categories) != 0 {
		t.Errorf("create should not return categories, got %d", len(created.Categories))
	}

	found, err := posts.FindBySlug(created.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("expected post, got nil")
	}
	if found.Title != title {
		t.Errorf("title: got %q, want %q", found.Title, title)
	}
	if len(found.Categories) != 1 || found.Categories[0].ID != catID {
		t.Errorf("expected exactly category %d, got %+v", catID, found.Categories)
	}
}

func TestPostStoreFindBySlugNotFound(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	found, err := posts.FindBySlug("no-such-slug-" + uuid.NewString())
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for missing slug, got %+v", found)
	}
}

// TestPostStoreSameTitleDistinctSlugs verifies that two posts created with
// identical titles never collide on slug.
func TestPostStoreSameTitleDistinctSlugs(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	title := "Identical title " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, title) })

	a, err := posts.Create(title, slug.ForTitle(title, time.Now()), testContent, nil)
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}
	b, err := posts.Create(title, slug.ForTitle(title, time.Now()), testContent, nil)
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	if a.Slug == b.Slug {
		t.Errorf("expected distinct slugs, both were %q", a.Slug)
	}
}

// TestPostStoreUpdateReplacesLinks verifies full-replace semantics: a post
// linked to {A, B} updated with [C] ends up linked to exactly {C}.
func TestPostStoreUpdateReplacesLinks(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	categories := NewCategoryStore(db)

	catA := newCategory(t, categories, "Replace A")
	catB := newCategory(t, categories, "Replace B")
	catC := newCategory(t, categories, "Replace C")
	title := "Replace links " + uuid.NewString()[:8]
	newTitle := title + " edited"
	t.Cleanup(func() {
		cleanPosts(t, db, title, newTitle)
		db.Exec("DELETE FROM categories WHERE id IN ($1, $2, $3)", catA, catB, catC)
	})

	created, err := posts.Create(title, slug.ForTitle(title, time.Now()), testContent, []int64{catA, catB})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := linkCount(t, db, created.ID); got != 2 {
		t.Fatalf("link count after create: got %d, want 2", got)
	}

	if err := posts.Update(created.ID, newTitle, testContent+" updated", []int64{catC}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := posts.FindBySlug(created.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("post disappeared after update")
	}

	if found.Title != newTitle {
		t.Errorf("title: got %q, want %q", found.Title, newTitle)
	}
	// The slug is never regenerated from the new title.
	if found.Slug != created.Slug {
		t.Errorf("slug changed on update: got %q, want %q", found.Slug, created.Slug)
	}
	if found.UpdatedAt == nil {
		t.Error("expected updated_at to be set after update")
	}
	if len(found.Categories) != 1 || found.Categories[0].ID != catC {
		t.Errorf("expected exactly category %d after replace, got %+v", catC, found.Categories)
	}
}

// TestPostStoreUpdateClearsLinks verifies that an update with no category
// ids removes every existing link.
func TestPostStoreUpdateClearsLinks(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	categories := NewCategoryStore(db)

	catID := newCategory(t, categories, "Clear Cat")
	title := "Clear links " + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanPosts(t, db, title)
		db.Exec("DELETE FROM categories WHERE id = $1", catID)
	})

	created, err := posts.Create(title, slug.ForTitle(title, time.Now()), testContent, []int64{catID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := posts.Update(created.ID, title, testContent, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := linkCount(t, db, created.ID); got != 0 {
		t.Errorf("link count after empty update: got %d, want 0", got)
	}
}

// TestPostStoreListFilterShortCircuits verifies that filtering by a category
// with no linked posts returns an empty list, not an error.
func TestPostStoreListFilterShortCircuits(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	categories := NewCategoryStore(db)

	catID := newCategory(t, categories, "Empty Cat")
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", catID) })

	items, err := posts.List(&catID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty list, got %d posts", len(items))
	}
}

func TestPostStoreListFilter(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	categories := NewCategoryStore(db)

	catID := newCategory(t, categories, "Filter Cat")
	inTitle := "Filtered in " + uuid.NewString()[:8]
	outTitle := "Filtered out " + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanPosts(t, db, inTitle, outTitle)
		db.Exec("DELETE FROM categories WHERE id = $1", catID)
	})

	linked, err := posts.Create(inTitle, slug.ForTitle(inTitle, time.Now()), testContent, []int64{catID})
	if err != nil {
		t.Fatalf("Create linked: %v", err)
	}
	if _, err := posts.Create(outTitle, slug.ForTitle(outTitle, time.Now()), testContent, nil); err != nil {
		t.Fatalf("Create unlinked: %v", err)
	}

	items, err := posts.List(&catID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 post in category, got %d", len(items))
	}
	if items[0].ID != linked.ID {
		t.Errorf("got post %d, want %d", items[0].ID, linked.ID)
	}
	if !items[0].HasCategory(catID) {
		t.Error("filtered post should carry its category association")
	}
}

func TestPostStoreListNewestFirst(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	older := "Order older " + uuid.NewString()[:8]
	newer := "Order newer " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, older, newer) })

	a, err := posts.Create(older, slug.ForTitle(older, time.Now()), testContent, nil)
	if err != nil {
		t.Fatalf("Create older: %v", err)
	}
	b, err := posts.Create(newer, slug.ForTitle(newer, time.Now()), testContent, nil)
	if err != nil {
		t.Fatalf("Create newer: %v", err)
	}

	items, err := posts.List(nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	posOlder, posNewer := -1, -1
	for i, p := range items {
		switch p.ID {
		case a.ID:
			posOlder = i
		case b.ID:
			posNewer = i
		}
	}
	if posOlder == -1 || posNewer == -1 {
		t.Fatal("created posts missing from List")
	}
	if posNewer > posOlder {
		t.Errorf("expected newest first: newer at %d, older at %d", posNewer, posOlder)
	}
}

// TestPostStoreCreateAtomicity verifies that a failing link insert rolls
// back the post row too; no post-without-links half state survives.
func TestPostStoreCreateAtomicity(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	title := "Atomic test " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, title) })

	var before int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&before); err != nil {
		t.Fatalf("count posts: %v", err)
	}

	// -1 is not a valid category id, so the link insert must fail.
	_, err := posts.Create(title, slug.ForTitle(title, time.Now()), testContent, []int64{-1})
	if err == nil {
		t.Fatal("expected error for invalid category id")
	}
	if !IsForeignKeyViolation(err) {
		t.Errorf("expected foreign key violation, got: %v", err)
	}

	var after int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&after); err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if after != before {
		t.Errorf("post count changed by failed create: before %d, after %d", before, after)
	}
}

// TestPostStoreDeleteCascade verifies that deleting a post removes its link
// rows and leaves unrelated rows alone.
func TestPostStoreDeleteCascade(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	categories := NewCategoryStore(db)

	catID := newCategory(t, categories, "Post Cascade")
	title := "Delete cascade " + uuid.NewString()[:8]
	otherTitle := "Delete bystander " + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanPosts(t, db, title, otherTitle)
		db.Exec("DELETE FROM categories WHERE id = $1", catID)
	})

	doomed, err := posts.Create(title, slug.ForTitle(title, time.Now()), testContent, []int64{catID})
	if err != nil {
		t.Fatalf("Create doomed: %v", err)
	}
	bystander, err := posts.Create(otherTitle, slug.ForTitle(otherTitle, time.Now()), testContent, []int64{catID})
	if err != nil {
		t.Fatalf("Create bystander: %v", err)
	}

	if err := posts.Delete(doomed.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got := linkCount(t, db, doomed.ID); got != 0 {
		t.Errorf("deleted post still has %d link rows", got)
	}
	if got := linkCount(t, db, bystander.ID); got != 1 {
		t.Errorf("bystander links affected: got %d, want 1", got)
	}

	// The category survives.
	var exists bool
	if err := db.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)", catID,
	).Scan(&exists); err != nil {
		t.Fatalf("check category: %v", err)
	}
	if !exists {
		t.Error("category should survive post deletion")
	}
}

// TestPostStoreUpdateNonExistentWithCategories verifies that updating an
// absent id succeeds even when category ids are supplied: the link rewrite
// is skipped entirely, so no join rows appear and no foreign key trips on
// the missing post.
func TestPostStoreUpdateNonExistentWithCategories(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	categories := NewCategoryStore(db)

	catID := newCategory(t, categories, "Ghost Cat")
	t.Cleanup(func() {
		db.Exec("DELETE FROM categories WHERE id = $1", catID)
	})

	const ghostID = -98765
	if err := posts.Update(ghostID, "Valid enough title", testContent, []int64{catID}); err != nil {
		t.Fatalf("Update of non-existent id should succeed, got: %v", err)
	}
	if got := linkCount(t, db, ghostID); got != 0 {
		t.Errorf("expected no link rows for absent post, got %d", got)
	}
}

func TestPostStoreDeleteNonExistent(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)

	if err := posts.Delete(-12345); err != nil {
		t.Errorf("Delete of non-existent id should succeed, got: %v", err)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Post is a blog entry. The slug is derived from the title once, at
// creation time, and never regenerated; editing the title later leaves
// existing URLs intact. UpdatedAt stays nil until the first update.
//
// Categories is populated by list and get-by-slug reads. The create path
// returns the bare row without associations; callers that need them
// re-fetch. HTML carries the rendered Markdown body on detail reads only.
type Post struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	HTML       string     `json:"html,omitempty"`
}

// HasCategory reports whether the post is linked to the given category.
func (p *Post) HasCategory(categoryID int64) bool {
	for _, c := range p.Categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

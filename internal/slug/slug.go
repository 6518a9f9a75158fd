// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// nonAlphanumericRun matches runs of anything that isn't a lowercase
// letter or digit. Each run becomes a single hyphen, so punctuation
// separates words rather than disappearing into them.
var nonAlphanumericRun = regexp.MustCompile(`[^a-z0-9]+`)

// maxTitlePrefix bounds the title-derived portion of a post slug so the
// timestamp suffix stays the distinguishing part for long titles.
const maxTitlePrefix = 50

// Generate creates a URL-friendly slug from the given string. Every run
// of non-alphanumeric characters collapses to a single hyphen.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumericRun.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// ForTitle creates a post slug from a title and its creation time. The
// title portion is truncated to 50 bytes and a nanosecond timestamp is
// appended, so two posts with identical titles never share a slug.
// The slug is fixed at creation; later title edits do not touch it.
func ForTitle(title string, createdAt time.Time) string {
	s := Generate(title)
	if len(s) > maxTitlePrefix {
		s = strings.TrimRight(s[:maxTitlePrefix], "-")
	}
	return fmt.Sprintf("%s-%d", s, createdAt.UnixNano())
}

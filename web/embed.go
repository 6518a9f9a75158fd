// Package web provides the embedded static dashboard asset. The dashboard
// is a single page that drives the JSON API; it is compiled into the
// binary so no files are needed at runtime.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS

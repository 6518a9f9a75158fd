package handlers

import (
	"unicode/utf8"
)

// constraint declares the minimum length of a named input field. Validation
// rules are data, not code: the boundary walks this table before any
// storage mutation, independent of the store layer.
type constraint struct {
	field   string
	min     int
	message string
}

var postConstraints = []constraint{
	{field: "title", min: 5, message: "Title must be at least 5 characters."},
	{field: "content", min: 50, message: "Content must be at least 50 characters."},
}

var categoryConstraints = []constraint{
	{field: "name", min: 2, message: "Category name must be at least 2 characters."},
}

// checkConstraints validates values against the given table and returns
// field-level messages for every failing field, or nil when all pass.
// Lengths are counted in runes, not bytes.
func checkConstraints(rules []constraint, values map[string]string) map[string]string {
	var fields map[string]string
	for _, rule := range rules {
		if utf8.RuneCountInString(values[rule.field]) < rule.min {
			if fields == nil {
				fields = make(map[string]string)
			}
			fields[rule.field] = rule.message
		}
	}
	return fields
}

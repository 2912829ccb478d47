// Package search filters a catalog snapshot by a debounced free-text query.
package search

import (
	"strings"

	"inventory-catalog/internal/models"
)

// Filter returns the items whose display name contains query. A blank query
// returns a copy of every item. Matching ignores case unless caseSensitive.
func Filter[T models.Entity](items []T, query string, caseSensitive bool) []T {
	q := strings.TrimSpace(query)
	if q == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	if !caseSensitive {
		q = strings.ToLower(q)
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		name := it.DisplayName()
		if !caseSensitive {
			name = strings.ToLower(name)
		}
		if strings.Contains(name, q) {
			out = append(out, it)
		}
	}
	return out
}

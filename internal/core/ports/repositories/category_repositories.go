package repositories

import "context"

// Category is the minimal shape the enrichment service needs; full category
// management lives outside this core.
type Category struct {
	CategoryID string
	Name       string
}

// CategoryReader defines read operations for categories
type CategoryReader interface {
	// ListCategories retrieves the system categories plus the user's own.
	ListCategories(ctx context.Context, userID string) ([]Category, error)
}

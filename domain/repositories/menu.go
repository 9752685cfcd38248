package repositories

import (
	"context"

	"github.com/savoria/tavola/domain/entities"
)

// MenuRepository defines data access for the restaurant menu.
// Implementations must preserve insertion order in List: the price-lookup
// rule scans items in store order.
type MenuRepository interface {
	// List returns every menu item in store order.
	List(ctx context.Context) ([]entities.MenuItem, error)
	// Seed initializes the store with the given items at process start.
	Seed(ctx context.Context, items []entities.MenuItem) error
}

package usecase

import (
	"strings"

	"github.com/savoria/tavola/domain/entities"
)

// SelectContext re-derives which menu subset should ground the model
// fallback. This is a second, deliberately narrower classification pass
// over the same text: price-lookup and expensive-filter queries are not
// special-cased and ground with the full listing instead. The result is
// always non-empty so the model always receives some context.
func SelectContext(query string, menu []entities.MenuItem, today string) string {
	normalized := normalizeQuery(query)

	switch {
	case strings.Contains(normalized, "low cost") || strings.Contains(normalized, "cheap"):
		if context := handleCheapFilter(normalized, menu, today); context != "" {
			return context
		}
		return "No low-cost dishes available."

	case strings.Contains(normalized, "today's special") || strings.Contains(normalized, "daily special"):
		if context := handleTodaysSpecial(normalized, menu, today); context != "" {
			return context
		}
		return "No specials available."

	case matchesCategory(normalized):
		for _, category := range matchableCategories {
			lower := strings.ToLower(category)
			if strings.Contains(normalized, lower) {
				if context := handleCategoryFilter(normalized, menu, today); context != "" {
					return context
				}
				return "No " + lower + "s available."
			}
		}
	}

	if len(menu) == 0 {
		return "No menu data available."
	}
	return handleFullListing(normalized, menu, today)
}

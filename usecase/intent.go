package usecase

import (
	"strings"

	"github.com/savoria/tavola/domain/entities"
)

// Numeric thresholds and the fallback count are fixed, not configurable
// per call.
const (
	cheapThreshold     = 10.0
	expensiveThreshold = 20.0
	priceFallbackLimit = 5
)

// Canned responses. Each of these is a match: the caller must not fall
// back to the language model when one of them is returned.
const (
	msgMenuUnavailable = "Sorry, the menu is currently unavailable."
	msgItemNotFound    = "Sorry, I couldn't find that item on the menu."
	msgNoCheapDishes   = "Sorry, no low-cost dishes are available."
	msgNoPremiumDishes = "Sorry, no high-cost dishes are available."
	msgNoSpecials      = "There are no specials available today."
)

// matchableCategories are the only categories the category rule can fire
// on. Drink and Side exist in the data but are never matchable here;
// queries about them go to the model fallback instead.
var matchableCategories = []string{"Appetizer", "Main Course", "Dessert"}

// intentRule pairs a trigger predicate with the handler producing the
// response text. Handlers always return non-empty text once the
// predicate fires.
type intentRule struct {
	name    string
	matches func(query string) bool
	handle  func(query string, menu []entities.MenuItem, today string) string
}

// intentRules is the priority-ordered rule list. Order is a contract:
// the first rule whose predicate fires wins, even if a later rule would
// also match.
var intentRules = []intentRule{
	{
		name:    "full_listing",
		matches: containsAny("menu", "items", "what do you have"),
		handle:  handleFullListing,
	},
	{
		name:    "price_lookup",
		matches: containsAny("price of", "cost of"),
		handle:  handlePriceLookup,
	},
	{
		name:    "cheap_filter",
		matches: containsAny("low cost", "cheap", "affordable"),
		handle:  handleCheapFilter,
	},
	{
		name:    "expensive_filter",
		matches: containsAny("high cost", "expensive", "premium"),
		handle:  handleExpensiveFilter,
	},
	{
		name:    "todays_special",
		matches: containsAny("today's special", "todays special", "today special", "daily special"),
		handle:  handleTodaysSpecial,
	},
	{
		name:    "category_filter",
		matches: matchesCategory,
		handle:  handleCategoryFilter,
	},
}

// MatchIntent classifies a free-text query against the menu using the
// priority-ordered rule list. The boolean result is the only no-match
// signal; matched text is never empty.
func MatchIntent(query string, menu []entities.MenuItem, today string) (string, bool) {
	normalized := normalizeQuery(query)
	for _, rule := range intentRules {
		if rule.matches(normalized) {
			return rule.handle(normalized, menu, today), true
		}
	}
	return "", false
}

func normalizeQuery(query string) string {
	return strings.TrimSpace(strings.ToLower(query))
}

func containsAny(triggers ...string) func(string) bool {
	return func(query string) bool {
		for _, trigger := range triggers {
			if strings.Contains(query, trigger) {
				return true
			}
		}
		return false
	}
}

func matchesCategory(query string) bool {
	for _, category := range matchableCategories {
		if strings.Contains(query, strings.ToLower(category)) {
			return true
		}
	}
	return false
}

func handleFullListing(_ string, menu []entities.MenuItem, _ string) string {
	if len(menu) == 0 {
		return msgMenuUnavailable
	}
	return "Here is our menu:\n" + entities.FormatItems(entities.SortByName(menu))
}

// handlePriceLookup scans items in store order and answers with the
// first whose name appears in the query.
func handlePriceLookup(query string, menu []entities.MenuItem, _ string) string {
	for _, item := range menu {
		if strings.Contains(query, strings.ToLower(item.Name)) {
			return item.Name + " costs $" + entities.FormatPrice(item.Price)
		}
	}
	return msgItemNotFound
}

func handleCheapFilter(_ string, menu []entities.MenuItem, _ string) string {
	var items []entities.MenuItem
	for _, item := range menu {
		if item.Price <= cheapThreshold {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		items = limitItems(entities.SortByPrice(menu, false), priceFallbackLimit)
		if len(items) == 0 {
			return msgNoCheapDishes
		}
	}
	return "Here are some affordable dishes:\n" + entities.FormatItems(entities.SortByPrice(items, false))
}

func handleExpensiveFilter(_ string, menu []entities.MenuItem, _ string) string {
	var items []entities.MenuItem
	for _, item := range menu {
		if item.Price >= expensiveThreshold {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		items = limitItems(entities.SortByPrice(menu, true), priceFallbackLimit)
		if len(items) == 0 {
			return msgNoPremiumDishes
		}
	}
	return "Here are some premium dishes:\n" + entities.FormatItems(entities.SortByPrice(items, true))
}

func handleTodaysSpecial(_ string, menu []entities.MenuItem, today string) string {
	var items []entities.MenuItem
	for _, item := range menu {
		if item.IsSpecial && item.SpecialDate == today {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return msgNoSpecials
	}
	return "Today's specials:\n" + entities.FormatItems(entities.SortByName(items))
}

func handleCategoryFilter(query string, menu []entities.MenuItem, _ string) string {
	for _, category := range matchableCategories {
		lower := strings.ToLower(category)
		if !strings.Contains(query, lower) {
			continue
		}
		var items []entities.MenuItem
		for _, item := range menu {
			if strings.EqualFold(item.Category, category) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return "Sorry, no " + lower + " items are available."
		}
		return "Here are our " + lower + "s:\n" + entities.FormatItems(entities.SortByName(items))
	}
	// Unreachable when matchesCategory gated this handler.
	return msgItemNotFound
}

func limitItems(items []entities.MenuItem, limit int) []entities.MenuItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

package entities

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for daily specials.
const DateLayout = "2006-01-02"

// MenuItem represents a single dish on the restaurant menu.
// Items are immutable after seeding; the store only ever rewrites
// the whole menu.
type MenuItem struct {
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Category    string  `json:"category" bson:"category"`
	IsSpecial   bool    `json:"is_special" bson:"is_special"`
	SpecialDate string  `json:"special_date" bson:"special_date"` // YYYY-MM-DD, empty unless IsSpecial
}

// Validate checks the invariants a menu item must hold before seeding.
func (m *MenuItem) Validate() error {
	if m.Name == "" {
		return errors.New("name is required")
	}
	if m.Price < 0 {
		return errors.New("price must be non-negative")
	}
	if m.IsSpecial && m.SpecialDate == "" {
		return errors.New("special_date is required for specials")
	}
	return nil
}

// FormatLine renders an item as "<name>: <description> ($<price>)".
func (m *MenuItem) FormatLine() string {
	return m.Name + ": " + m.Description + " ($" + FormatPrice(m.Price) + ")"
}

// FormatPrice renders a price with two decimals, without currency sign.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// FormatItems joins the per-item lines with newlines, in the order given.
func FormatItems(items []MenuItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.FormatLine())
	}
	return strings.Join(lines, "\n")
}

// SortByName returns a copy of items sorted ascending by name.
func SortByName(items []MenuItem) []MenuItem {
	sorted := append([]MenuItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// SortByPrice returns a copy of items sorted by price,
// ascending or descending.
func SortByPrice(items []MenuItem, descending bool) []MenuItem {
	sorted := append([]MenuItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Price > sorted[j].Price
		}
		return sorted[i].Price < sorted[j].Price
	})
	return sorted
}

// SampleMenu returns the built-in menu used to seed an empty store.
// The two specials carry today's date so they show up as daily
// specials on the day the process first seeds.
func SampleMenu(now time.Time) []MenuItem {
	today := now.Format(DateLayout)
	return []MenuItem{
		{
			Name:        "Bruschetta",
			Description: "Toasted bread topped with tomatoes, garlic, and basil",
			Price:       5.99,
			Category:    "Appetizer",
		},
		{
			Name:        "Mozzarella Sticks",
			Description: "Crispy breaded mozzarella with marinara sauce",
			Price:       6.49,
			Category:    "Appetizer",
			IsSpecial:   true,
			SpecialDate: today,
		},
		{
			Name:        "Chicken Alfredo",
			Description: "Creamy Alfredo pasta with grilled chicken",
			Price:       14.99,
			Category:    "Main Course",
		},
		{
			Name:        "Vegan Buddha Bowl",
			Description: "Quinoa, roasted veggies, chickpeas, and tahini dressing",
			Price:       11.50,
			Category:    "Main Course",
		},
		{
			Name:        "BBQ Ribs",
			Description: "Slow-cooked ribs with BBQ sauce and sides",
			Price:       24.00,
			Category:    "Main Course",
			IsSpecial:   true,
			SpecialDate: today,
		},
		{
			Name:        "Cheesecake",
			Description: "Creamy cheesecake with a graham cracker crust",
			Price:       6.99,
			Category:    "Dessert",
		},
		{
			Name:        "Ice Cream Sundae",
			Description: "Vanilla ice cream with chocolate sauce and nuts",
			Price:       4.99,
			Category:    "Dessert",
		},
		{
			Name:        "Iced Tea",
			Description: "Freshly brewed iced tea with lemon",
			Price:       2.49,
			Category:    "Drink",
		},
		{
			Name:        "Craft Beer",
			Description: "Local craft IPA on tap",
			Price:       5.99,
			Category:    "Drink",
		},
		{
			Name:        "French Fries",
			Description: "Crispy golden fries with ketchup",
			Price:       3.99,
			Category:    "Side",
		},
		{
			Name:        "Garlic Bread",
			Description: "Buttery garlic breadsticks",
			Price:       3.49,
			Category:    "Side",
		},
	}
}

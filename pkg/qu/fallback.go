package qu

import (
	"strings"

	"DriveThruGolang/internal/entity"
)

// Built-in Jack in the Box menu used whenever the catalog backend is
// unreachable. Slices keep result order stable across calls.
var fallbackItems = []entity.CatalogItem{
	{ItemPathKey: "sourdough-jack-combo", Name: "Sourdough Jack Combo", Category: "burgers", Price: 8.99, Description: "Sourdough burger with bacon"},
	{ItemPathKey: "double-jack-combo", Name: "Double Jack Combo", Category: "burgers", Price: 9.49, Description: "Double patty burger"},
	{ItemPathKey: "jumbo-jack-combo", Name: "Jumbo Jack Combo", Category: "burgers", Price: 7.99, Description: "Classic Jumbo Jack"},
	{ItemPathKey: "ultimate-cheeseburger-combo", Name: "Ultimate Cheeseburger Combo", Category: "burgers", Price: 9.99, Description: "Two beef patties with cheese"},

	{ItemPathKey: "homestyle-chicken-combo", Name: "Homestyle Chicken Combo", Category: "chicken", Price: 8.49, Description: "Crispy chicken sandwich"},
	{ItemPathKey: "spicy-chicken-combo", Name: "Spicy Chicken Combo", Category: "chicken", Price: 8.49, Description: "Spicy crispy chicken"},
	{ItemPathKey: "chicken-nuggets-8pc-combo", Name: "8 Piece Chicken Nuggets Combo", Category: "chicken", Price: 7.99, Description: "8 piece nuggets"},

	{ItemPathKey: "supreme-croissant-combo", Name: "Supreme Croissant Combo", Category: "breakfast", Price: 6.99, Description: "Egg, sausage, bacon on croissant"},
	{ItemPathKey: "loaded-breakfast-sandwich-combo", Name: "Loaded Breakfast Sandwich Combo", Category: "breakfast", Price: 5.99, Description: "Loaded breakfast sandwich"},

	{ItemPathKey: "curly-fries-small", Name: "Curly Fries (Small)", Category: "sides", Price: 2.49},
	{ItemPathKey: "curly-fries-medium", Name: "Curly Fries (Medium)", Category: "sides", Price: 2.99},
	{ItemPathKey: "curly-fries-large", Name: "Curly Fries (Large)", Category: "sides", Price: 3.49},
	{ItemPathKey: "regular-fries-small", Name: "Regular Fries (Small)", Category: "sides", Price: 2.29},
	{ItemPathKey: "onion-rings", Name: "Onion Rings", Category: "sides", Price: 3.29},

	{ItemPathKey: "coke", Name: "Coca-Cola", Category: "drinks", Price: 2.29},
	{ItemPathKey: "sprite", Name: "Sprite", Category: "drinks", Price: 2.29},
	{ItemPathKey: "fanta-orange", Name: "Fanta Orange", Category: "drinks", Price: 2.29},
	{ItemPathKey: "iced-coffee", Name: "Iced Coffee", Category: "drinks", Price: 2.99},
	{ItemPathKey: "orange-juice", Name: "Orange Juice", Category: "drinks", Price: 2.49},

	{ItemPathKey: "chocolate-shake", Name: "Chocolate Shake", Category: "desserts", Price: 3.99},
	{ItemPathKey: "oreo-shake", Name: "Oreo Shake", Category: "desserts", Price: 4.49},
}

var fallbackModifiers = []entity.CatalogModifier{
	{ItemPathKey: "curly-fries-side", Name: "Curly Fries", ModifierType: "side", Price: 0.0},
	{ItemPathKey: "regular-fries-side", Name: "Regular Fries", ModifierType: "side", Price: 0.0},
	{ItemPathKey: "onion-rings-side", Name: "Onion Rings", ModifierType: "side", Price: 0.50},
	{ItemPathKey: "coke-drink", Name: "Coca-Cola", ModifierType: "drink", Price: 0.0},
	{ItemPathKey: "sprite-drink", Name: "Sprite", ModifierType: "drink", Price: 0.0},
	{ItemPathKey: "fanta-drink", Name: "Fanta Orange", ModifierType: "drink", Price: 0.0},
	{ItemPathKey: "no-pickles", Name: "No Pickles", ModifierType: "customization", Price: 0.0},
	{ItemPathKey: "extra-cheese", Name: "Extra Cheese", ModifierType: "customization", Price: 0.75},
}

var defaultCategories = []string{
	"Breakfast",
	"Lunch/Dinner",
	"Snacks, Sides & Extras",
	"Drinks",
	"Kid's Meals",
	"Late Night & LTOs",
	"Extras",
}

// FindFallbackItem resolves an item path against the built-in menu.
func FindFallbackItem(itemPathKey string) (entity.CatalogItem, bool) {
	for _, item := range fallbackItems {
		if item.ItemPathKey == itemPathKey {
			return item, true
		}
	}
	return entity.CatalogItem{}, false
}

// FindFallbackModifier resolves a modifier path against the built-in table.
func FindFallbackModifier(itemPathKey string) (entity.CatalogModifier, bool) {
	for _, mod := range fallbackModifiers {
		if mod.ItemPathKey == itemPathKey {
			return mod, true
		}
	}
	return entity.CatalogModifier{}, false
}

// matchFallback returns entries whose name contains any whitespace
// separated word of the query, capped at limit.
func matchFallbackItems(query string, limit int) []entity.CatalogItem {
	matches := make([]entity.CatalogItem, 0)
	for _, item := range fallbackItems {
		if nameMatchesQuery(item.Name, query) {
			matches = append(matches, item)
		}
	}
	return matches[:min(limit, len(matches))]
}

func matchFallbackModifiers(query string, limit int) []entity.CatalogModifier {
	matches := make([]entity.CatalogModifier, 0)
	for _, mod := range fallbackModifiers {
		if nameMatchesQuery(mod.Name, query) {
			matches = append(matches, mod)
		}
	}
	return matches[:min(limit, len(matches))]
}

func nameMatchesQuery(name, query string) bool {
	nameLower := strings.ToLower(name)
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(nameLower, word) {
			return true
		}
	}
	return false
}

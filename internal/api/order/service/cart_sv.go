package orderService

import (
	"DriveThruGolang/internal/api/order"
	"DriveThruGolang/internal/entity"
	contextPkg "DriveThruGolang/pkg/context"
	"DriveThruGolang/pkg/qu"
	"fmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"strings"
)

var (
	sideKeywords  = []string{"fries", "side"}
	drinkKeywords = []string{"drink", "beverage", "coke", "sprite", "juice"}
)

func (s *orderService) AddItem(ctx context.Context, session *entity.OrderSession, req order.AddItemRequest) order.AddItemResponse {
	requestID := contextPkg.GetRequestID(ctx)

	item := s.resolveItem(req.ItemPathKey)
	item.ItemID = s.utils.NewItemID()
	session.Cart = append(session.Cart, item)

	s.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"item_path_key": req.ItemPathKey,
		"item_id":       item.ItemID,
		"price":         item.Price,
	}).Debug("Added item to order")

	return order.AddItemResponse{
		Success:     true,
		ItemID:      item.ItemID,
		ItemPathKey: req.ItemPathKey,
		ItemName:    item.Name,
		Price:       item.Price,
		Message:     fmt.Sprintf("Added %s to order", item.Name),
	}
}

func (s *orderService) DeleteItem(ctx context.Context, session *entity.OrderSession, req order.DeleteItemRequest) (order.DeleteItemResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	for i, item := range session.Cart {
		if item.ItemID != req.ItemID {
			continue
		}
		session.Cart = append(session.Cart[:i], session.Cart[i+1:]...)

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"item_id":    req.ItemID,
		}).Debug("Removed item from order")

		return order.DeleteItemResponse{
			Success: true,
			ItemID:  req.ItemID,
			Message: "Item removed from order",
		}, nil
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"item_id":    req.ItemID,
	}).Warn("Item not found in order")

	return order.DeleteItemResponse{}, order.ErrItemNotFound
}

func (s *orderService) AddModifier(ctx context.Context, session *entity.OrderSession, req order.AddModifierRequest) (order.AddModifierResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	item := session.FindItem(req.ItemID)
	if item == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"item_id":    req.ItemID,
		}).Warn("Item not found in order")
		return order.AddModifierResponse{}, order.ErrItemNotFound
	}

	modifier := s.resolveModifier(ctx, session, item, req.ItemPathKey)

	if removed, replaced := replaceSameCategory(item, modifier.Category); replaced {
		item.Price -= removed.Price

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"item_id":    req.ItemID,
			"removed":    removed.Name,
			"added":      modifier.Name,
			"category":   modifier.Category.String(),
		}).Debug("Replaced modifier of same category")
	}

	item.Modifiers = append(item.Modifiers, modifier)
	item.Price += modifier.Price

	s.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"item_id":       req.ItemID,
		"item_path_key": req.ItemPathKey,
		"price":         modifier.Price,
	}).Debug("Added modifier to item")

	return order.AddModifierResponse{
		Success:       true,
		ItemID:        req.ItemID,
		ItemPathKey:   req.ItemPathKey,
		ModifierName:  modifier.Name,
		ModifierPrice: modifier.Price,
		Message:       fmt.Sprintf("Added %s to %s", modifier.Name, item.Name),
	}, nil
}

// resolveItem builds a cart entry for a path key, trying the built-in
// menu first, then the preloaded Qu menu, then a generic placeholder
// priced from the Qu price table.
func (s *orderService) resolveItem(itemPathKey string) *entity.CartItem {
	if fallback, ok := qu.FindFallbackItem(itemPathKey); ok {
		return &entity.CartItem{
			ItemPathKey: itemPathKey,
			Name:        fallback.Name,
			Category:    fallback.Category,
			Description: fallback.Description,
			Price:       fallback.Price,
			Modifiers:   []entity.Modifier{},
		}
	}

	name, ok := s.qu.LookupItemName(itemPathKey)
	if !ok {
		name = fmt.Sprintf("Item %s", itemPathKey)
	}

	return &entity.CartItem{
		ItemPathKey: itemPathKey,
		Name:        name,
		Price:       s.qu.PriceByPathKey(itemPathKey, name),
		Modifiers:   []entity.Modifier{},
	}
}

// resolveModifier looks the modifier up in the static table, then the
// session's cached query results, then the catalog backend. Entries
// whose path is a child of the target item's path are combo-bundled and
// cost nothing regardless of their standalone price.
func (s *orderService) resolveModifier(ctx context.Context, session *entity.OrderSession, item *entity.CartItem, itemPathKey string) entity.Modifier {
	modifier := s.lookupModifier(ctx, session, item, itemPathKey)

	if isComboChild(item.ItemPathKey, itemPathKey) {
		modifier.Price = 0
	}

	if modifier.Category == entity.ModifierCategoryUnknown {
		modifier.Category = deriveCategory(modifier.Name, itemPathKey)
	}

	return modifier
}

func (s *orderService) lookupModifier(ctx context.Context, session *entity.OrderSession, item *entity.CartItem, itemPathKey string) entity.Modifier {
	if fallback, ok := qu.FindFallbackModifier(itemPathKey); ok {
		return entity.Modifier{
			ItemPathKey: itemPathKey,
			Name:        fallback.Name,
			Price:       fallback.Price,
			Category:    categoryFromType(fallback.ModifierType),
		}
	}

	// The query cache only contributes the display name; the charged
	// price always comes from the Qu price table.
	if cached, ok := session.CachedModifiers[itemPathKey]; ok {
		return entity.Modifier{
			ItemPathKey: itemPathKey,
			Name:        cached.Name,
			Price:       s.qu.PriceByPathKey(itemPathKey, cached.Name),
		}
	}

	name, ok := s.qu.FindModifierName(ctx, item.ItemPathKey, itemPathKey)
	if !ok {
		name = "Modifier"
	}

	return entity.Modifier{
		ItemPathKey: itemPathKey,
		Name:        name,
		Price:       s.qu.PriceByPathKey(itemPathKey, name),
	}
}

// replaceSameCategory removes the first existing side when a side is
// added and the first existing drink when a drink is added, so a combo
// carries at most one of each. Customizations stack.
func replaceSameCategory(item *entity.CartItem, category entity.ModifierCategory) (entity.Modifier, bool) {
	if !category.Replaceable() {
		return entity.Modifier{}, false
	}

	for i, existing := range item.Modifiers {
		if existing.Category != category {
			continue
		}
		item.Modifiers = append(item.Modifiers[:i], item.Modifiers[i+1:]...)
		return existing, true
	}

	return entity.Modifier{}, false
}

func isComboChild(parentPathKey, itemPathKey string) bool {
	return parentPathKey != "" && strings.HasPrefix(itemPathKey, parentPathKey+"-")
}

func categoryFromType(modifierType string) entity.ModifierCategory {
	switch modifierType {
	case "side":
		return entity.ModifierCategorySide
	case "drink":
		return entity.ModifierCategoryDrink
	case "customization":
		return entity.ModifierCategoryCustomization
	default:
		return entity.ModifierCategoryUnknown
	}
}

// deriveCategory classifies a modifier by the same name and path
// keywords the ordering flow has always matched on. There is no
// structural signal in the catalog for side vs drink.
func deriveCategory(name, itemPathKey string) entity.ModifierCategory {
	for _, candidate := range []string{strings.ToLower(name), strings.ToLower(itemPathKey)} {
		if containsAny(candidate, sideKeywords) {
			return entity.ModifierCategorySide
		}
		if containsAny(candidate, drinkKeywords) {
			return entity.ModifierCategoryDrink
		}
	}
	return entity.ModifierCategoryUnknown
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

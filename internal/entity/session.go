package entity

import "time"

// OrderSession is the per-connection state object: one cart, one
// modifier cache, one order id. It is owned by a single relay session
// and mutated only from that session's dispatch path, so it carries no
// locking of its own.
type OrderSession struct {
	ID              string
	CreatedAt       time.Time
	Cart            []*CartItem
	CachedModifiers map[string]CachedModifier
	QuOrderID       string
}

// CachedModifier holds the name/price pairs captured from the most
// recent modifier query, keyed by itemPathKey, for later AddModifier
// resolution.
type CachedModifier struct {
	Name  string
	Price float64
}

func NewOrderSession(id string) *OrderSession {
	return &OrderSession{
		ID:              id,
		CreatedAt:       time.Now(),
		CachedModifiers: make(map[string]CachedModifier),
	}
}

func (s *OrderSession) FindItem(itemID string) *CartItem {
	for _, item := range s.Cart {
		if item.ItemID == itemID {
			return item
		}
	}
	return nil
}

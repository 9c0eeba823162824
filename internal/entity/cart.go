package entity

type Modifier struct {
	ItemPathKey string           `json:"itemPathKey"`
	Name        string           `json:"name"`
	Price       float64          `json:"price"`
	Category    ModifierCategory `json:"category,omitempty"`
}

type CartItem struct {
	ItemID      string     `json:"itemId"`
	ItemPathKey string     `json:"itemPathKey"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Modifiers   []Modifier `json:"modifiers"`
}

// Total over the whole cart. Modifier charges are already folded into
// each item's price when the modifier is applied.
func CartTotal(items []*CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total
}

type ModifierCategory uint8

const (
	ModifierCategoryUnknown       ModifierCategory = 0
	ModifierCategorySide          ModifierCategory = 1
	ModifierCategoryDrink         ModifierCategory = 2
	ModifierCategoryCustomization ModifierCategory = 3
)

var ModifierCategoryMap = map[ModifierCategory]string{
	ModifierCategoryUnknown:       "unknown",
	ModifierCategorySide:          "side",
	ModifierCategoryDrink:         "drink",
	ModifierCategoryCustomization: "customization",
}

func (c ModifierCategory) String() string {
	return ModifierCategoryMap[c]
}

func (c ModifierCategory) Value() uint8 {
	return uint8(c)
}

func (c ModifierCategory) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// Combos replace an existing side with a new side and an existing drink
// with a new drink; customizations stack.
func (c ModifierCategory) Replaceable() bool {
	return c == ModifierCategorySide || c == ModifierCategoryDrink
}

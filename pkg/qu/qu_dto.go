package qu

type queryRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
	Parent string `json:"parent,omitempty"`
}

// The catalog backend serializes camelCase but older builds emitted
// snake_case, so both spellings are accepted on the way in.
type backendItem struct {
	Title            string           `json:"title"`
	Name             string           `json:"name"`
	ItemPathKey      string           `json:"itemPathKey"`
	ItemPathKeyAlt   string           `json:"item_path_key"`
	Category         string           `json:"category"`
	Price            float64          `json:"price"`
	Description      string           `json:"description"`
	ModifierType     string           `json:"modifierType"`
	ModifierTypeAlt  string           `json:"modifier_type"`
	DisplayAttribute displayAttribute `json:"displayAttribute"`
	Children         []backendItem    `json:"children"`
}

type displayAttribute struct {
	Description string `json:"description"`
}

func (b *backendItem) pathKey() string {
	if b.ItemPathKey != "" {
		return b.ItemPathKey
	}
	return b.ItemPathKeyAlt
}

func (b *backendItem) displayName() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Name
}

func (b *backendItem) describe() string {
	if b.Description != "" {
		return b.Description
	}
	return b.DisplayAttribute.Description
}

func (b *backendItem) modifierKind() string {
	if b.ModifierType != "" {
		return b.ModifierType
	}
	return b.ModifierTypeAlt
}

type queryResponse struct {
	Items []backendItem `json:"items"`
}

type menuResponse struct {
	Value menuValue `json:"value"`
}

type menuValue struct {
	SnapshotID string        `json:"snapshotId"`
	Categories []backendItem `json:"categories"`
}

type priceFile struct {
	Prices map[string]float64 `json:"prices"`
}

type orderRequest struct {
	OrderType string          `json:"orderType"`
	Items     []orderLineItem `json:"items"`
}

type orderLineItem struct {
	ItemPathKey string   `json:"itemPathKey"`
	Quantity    int      `json:"quantity"`
	Modifiers   []string `json:"modifiers"`
}

type orderResponse struct {
	OrderID string `json:"orderId"`
	ID      string `json:"id"`
}

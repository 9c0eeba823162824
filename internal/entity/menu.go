package entity

import "time"

type MenuItem struct {
	Name        string  `json:"name"`
	ItemPathKey string  `json:"itemPathKey"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// MenuSnapshot is loaded once at process start and treated as immutable
// for the process lifetime. Categories keeps the backend's order.
type MenuSnapshot struct {
	Categories []string              `json:"categories"`
	Items      map[string][]MenuItem `json:"items"`
	Cached     bool                  `json:"cached"`
	LoadedAt   time.Time             `json:"loaded_at"`
}

func (s *MenuSnapshot) Empty() bool {
	return s == nil || len(s.Categories) == 0
}

type CatalogItem struct {
	ItemPathKey string  `json:"itemPathKey"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type CatalogModifier struct {
	ItemPathKey  string  `json:"itemPathKey"`
	Name         string  `json:"name"`
	ModifierType string  `json:"modifierType"`
	Price        float64 `json:"price"`
}

type ItemSearchResult struct {
	Results  []CatalogItem
	Degraded bool
}

type ModifierSearchResult struct {
	Parent   string
	Results  []CatalogModifier
	Degraded bool
}

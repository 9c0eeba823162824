package menu

import "DriveThruGolang/internal/entity"

type QueryItemsRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit"`
}

type QueryModifiersRequest struct {
	Query  string `json:"query" validate:"required"`
	Parent string `json:"parent" validate:"required"`
	Limit  int    `json:"limit"`
}

type CategoryItemsRequest struct {
	Category string `json:"category" validate:"required"`
}

// Count is a pointer because the no-match shape from the live backend
// carries no count key at all, while a degraded zero-match result still
// reports count 0.
type QueryItemsResponse struct {
	Results []entity.CatalogItem `json:"results"`
	Count   *int                 `json:"count,omitempty"`
	Message string               `json:"message,omitempty"`
	Warning string               `json:"warning,omitempty"`
}

type QueryModifiersResponse struct {
	Parent  string                   `json:"parent"`
	Results []entity.CatalogModifier `json:"results"`
	Count   int                      `json:"count"`
	Warning string                   `json:"warning,omitempty"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Cached     bool     `json:"cached"`
}

type CategoryItemsResponse struct {
	Success  bool              `json:"success"`
	Category string            `json:"category"`
	Items    []entity.MenuItem `json:"items"`
	Count    int               `json:"count,omitempty"`
	Message  string            `json:"message,omitempty"`
	Cached   bool              `json:"cached"`
}

package menu

import (
	"net/http"

	"DriveThruGolang/pkg/response"
)

var (
	ErrCategoryNotFound = response.NewError(http.StatusNotFound, "category not found")
	ErrMalformedCatalog = response.NewError(http.StatusBadGateway, "catalog backend returned a malformed response")
)

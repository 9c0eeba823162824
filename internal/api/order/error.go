package order

import (
	"net/http"

	"DriveThruGolang/pkg/response"
)

var (
	ErrItemNotFound = response.NewError(http.StatusNotFound, "item not found in order")
	ErrEmptyOrder   = response.NewError(http.StatusBadRequest, "cannot submit an empty order")
)

package order

import (
	"fmt"

	"DriveThruGolang/internal/entity"
)

type AddItemRequest struct {
	ItemPathKey string `json:"itemPathKey" validate:"required"`
}

type DeleteItemRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

type AddModifierRequest struct {
	ItemPathKey string `json:"itemPathKey" validate:"required"`
	ItemID      string `json:"itemId" validate:"required"`
}

type AddItemResponse struct {
	Success     bool    `json:"success"`
	ItemID      string  `json:"itemId"`
	ItemPathKey string  `json:"itemPathKey"`
	ItemName    string  `json:"itemName"`
	Price       float64 `json:"price"`
	Message     string  `json:"message"`
}

type DeleteItemResponse struct {
	Success bool   `json:"success"`
	ItemID  string `json:"itemId"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type AddModifierResponse struct {
	Success       bool    `json:"success"`
	ItemID        string  `json:"itemId"`
	ItemPathKey   string  `json:"itemPathKey"`
	ModifierName  string  `json:"modifier_name"`
	ModifierPrice float64 `json:"modifier_price"`
	Message       string  `json:"message"`
}

type SubmitResponse struct {
	Success       bool    `json:"success"`
	OrderID       string  `json:"order_id"`
	Total         float64 `json:"total"`
	ItemCount     int     `json:"item_count,omitempty"`
	Message       string  `json:"message"`
	SubmittedToQu bool    `json:"submitted_to_qu"`
	Note          string  `json:"note,omitempty"`
}

type OrderSnapshotResponse struct {
	OrderID       *string            `json:"order_id"`
	Items         []*entity.CartItem `json:"items"`
	ItemCount     int                `json:"item_count,omitempty"`
	Total         float64            `json:"total"`
	Message       string             `json:"message,omitempty"`
	SubmittedToQu *bool              `json:"submitted_to_qu,omitempty"`
}

type SubmitFailureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// EmptySubmitFailure is the refusal returned when the agent submits
// with nothing in the cart.
func EmptySubmitFailure() SubmitFailureResponse {
	return SubmitFailureResponse{Message: "Cannot submit empty order"}
}

// ItemNotFoundMessage is the wording the voice agent was trained
// against, so it has to stay stable across the dispatch surface.
func ItemNotFoundMessage(itemID string) string {
	return fmt.Sprintf("Item with ID '%s' not found in order", itemID)
}

// DeleteItemFailure is the result returned to the agent when the item id
// does not match anything in the cart.
func DeleteItemFailure(itemID string) DeleteItemResponse {
	return DeleteItemResponse{
		ItemID: itemID,
		Error:  ItemNotFoundMessage(itemID),
	}
}

package order

import "time"

type Order struct {
	ID         int64 `json:"id"`
	BuyerID    int64 `json:"buyer_id"`
	MenuItemID int64 `json:"menu_item_id"`
	CookID     int64 `json:"cook_id"`
	Quantity   int   `json:"quantity"`
	// We store total_price as a string to avoid rounding errors (NUMERIC in Postgres)
	TotalPrice          string    `json:"total_price"`
	Status              Status    `json:"status"`
	SpecialInstructions *string   `json:"special_instructions"`
	BatchID             *int64    `json:"batch_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// OrderWithOwner augments an order with the cook-side owning user id.
type OrderWithOwner struct {
	Order
	CookUserID int64 `json:"-"`
}

type BatchOrder struct {
	ID         int64     `json:"id"`
	BuyerID    int64     `json:"buyer_id"`
	TotalPrice string    `json:"total_price"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateRequest payload for placing a single order.
// swagger:model CreateOrderRequest
type CreateRequest struct {
	MenuItemID          int64   `json:"menu_item_id" binding:"required" example:"1"`
	Quantity            int     `json:"quantity" example:"3"`
	SpecialInstructions *string `json:"special_instructions"`
}

// BatchLine is one line of a batch order.
// swagger:model BatchOrderLine
type BatchLine struct {
	MenuItemID          int64   `json:"menu_item_id" binding:"required"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"special_instructions"`
}

// BatchCreateRequest payload for placing a batch order.
// swagger:model CreateBatchOrderRequest
type BatchCreateRequest struct {
	Items []BatchLine `json:"items" binding:"required"`
}

// BatchResponse returns the batch and its member orders.
// swagger:model BatchOrderResponse
type BatchResponse struct {
	Batch  BatchOrder `json:"batch"`
	Orders []Order    `json:"orders"`
}

// UpdateRequest payload for order mutation; nil means "no change".
// swagger:model UpdateOrderRequest
type UpdateRequest struct {
	Status              *string `json:"status"`
	SpecialInstructions *string `json:"special_instructions"`
}

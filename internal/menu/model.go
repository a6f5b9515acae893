package menu

import "time"

type MenuItem struct {
	ID     int64  `json:"id"`
	CookID int64  `json:"cook_id"`
	Title  string `json:"title"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price       string    `json:"price"`
	Description string    `json:"description"`
	PhotoURL    *string   `json:"photo_url"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemWithOwner augments an item with the owning cook's user id, for
// ownership and self-order checks.
type ItemWithOwner struct {
	MenuItem
	CookUserID int64 `json:"-"`
}

// CreateRequest payload of creation.
// swagger:model CreateMenuItemRequest
type CreateRequest struct {
	Title       string  `json:"title" binding:"required" example:"Tamales"`
	Description string  `json:"description" binding:"required" example:"Dozen, pork"`
	Price       string  `json:"price" binding:"required" example:"10.00"`
	PhotoURL    *string `json:"photo_url"`
	IsAvailable *bool   `json:"is_available"`
}

// UpdateRequest payload of partial update; nil means "no change".
// swagger:model UpdateMenuItemRequest
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	PhotoURL    *string `json:"photo_url"`
	IsAvailable *bool   `json:"is_available"`
}

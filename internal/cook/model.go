package cook

import "time"

type CookProfile struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Bio            *string   `json:"bio"`
	PhotoURL       *string   `json:"photo_url"`
	DeliveryRadius float64   `json:"delivery_radius"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateRequest payload for profile creation.
// swagger:model CreateCookProfileRequest
type CreateRequest struct {
	Name           string   `json:"name" binding:"required" example:"Maria's Kitchen"`
	Bio            *string  `json:"bio"`
	PhotoURL       *string  `json:"photo_url"`
	DeliveryRadius *float64 `json:"delivery_radius" example:"5.0"`
}

// UpdateRequest payload for partial update; nil means "no change".
// swagger:model UpdateCookProfileRequest
type UpdateRequest struct {
	Name           *string  `json:"name"`
	Bio            *string  `json:"bio"`
	PhotoURL       *string  `json:"photo_url"`
	DeliveryRadius *float64 `json:"delivery_radius"`
}

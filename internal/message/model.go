package message

import "time"

type Message struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest payload for posting a message on an order.
// swagger:model CreateMessageRequest
type CreateRequest struct {
	OrderID int64  `json:"order_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

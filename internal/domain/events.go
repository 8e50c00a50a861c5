package domain

import "time"

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusUpdated = "OrderStatusUpdated"
)

type OrderCreatedEvent struct {
	Order     *Order    `json:"order"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderStatusUpdatedEvent struct {
	Order     *Order    `json:"order"`
	Timestamp time.Time `json:"timestamp"`
}

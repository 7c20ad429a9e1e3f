package model

import (
	"errors"
	"time"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrAssemblyIncomplete = errors.New("assembly must contain a frame")
	ErrRequestInFlight    = errors.New("request of this kind is already in flight")
	ErrTransport          = errors.New("order service is unreachable")
	ErrRejected           = errors.New("request rejected by server")
	ErrUnauthorized       = errors.New("authentication required")
)

type OrderStatus string

const (
	Created OrderStatus = "created"
	Pending OrderStatus = "pending"
	Done    OrderStatus = "done"
)

type Order struct {
	ID          string      `json:"id"`
	Number      int         `json:"number"`
	Name        string      `json:"name"`
	Status      OrderStatus `json:"status"`
	Ingredients []string    `json:"ingredients"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func FindByNumber(orders []Order, number int) (Order, bool) {
	for _, order := range orders {
		if order.Number == number {
			return order, true
		}
	}
	return Order{}, false
}

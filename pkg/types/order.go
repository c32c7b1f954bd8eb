package types

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusFailed   OrderStatus = "failed"
	OrderStatusRefunded OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed, OrderStatusRefunded:
		return true
	}
	return false
}

// Order is a payment transaction tied to exactly one Application. The
// ApplicationID is a weak reference used for lookup only.
type Order struct {
	ID               string      `json:"id"`
	ApplicationID    string      `json:"applicationId"`
	UserID           string      `json:"userId"`
	ServiceName      string      `json:"serviceName"`
	Amount           float64     `json:"amount"`
	Currency         string      `json:"currency"`
	Status           OrderStatus `json:"status"`
	PaymentMethod    string      `json:"paymentMethod"`
	PaymentReference string      `json:"paymentReference,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	DueDate          time.Time   `json:"dueDate"`
}

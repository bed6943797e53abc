package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

type OrderProduct struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

type Order struct {
	ID          string          `json:"_id"`
	User        string          `json:"user,omitempty"`
	Products    []OrderProduct  `json:"products"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"orderStatus"`
	PaymentID   string          `json:"paymentId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DisplayStatus falls back to confirmed when the backend leaves the status empty.
func (o Order) DisplayStatus() OrderStatus {
	if o.Status == "" {
		return OrderStatusConfirmed
	}
	return o.Status
}

func (o Order) IsConfirmed() bool {
	return o.DisplayStatus() == OrderStatusConfirmed
}

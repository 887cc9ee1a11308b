package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is written once by checkout and never updated afterwards.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `json:"items,omitempty"`
}

// OrderItem keeps the price paid, independent of later catalog changes.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`

	// ProductName is filled on reads for display only.
	ProductName string `json:"product_name,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (o *Order) ItemCount() int {
	var n int
	for _, item := range o.Items {
		n += item.Quantity
	}

	return n
}

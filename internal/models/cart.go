package models

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the units of one product a cart may hold.
const MaxLineQuantity = 1000

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrQuantityLimit   = errors.New("quantity exceeds the per product limit")
)

// Cart maps a product id to the wanted quantity. It lives in the session and
// is never persisted as an entity of its own.
type Cart struct {
	Items map[int64]int `json:"items"`
}

func NewCart() *Cart {
	return &Cart{Items: make(map[int64]int)}
}

// Add increments the quantity for productID, inserting the line if absent.
// Stock is not consulted here; checkout validates it.
func (c *Cart) Add(productID int64, qty int) error {

	if qty <= 0 {
		return ErrInvalidQuantity
	}

	if qty > MaxLineQuantity-c.Items[productID] {
		return ErrQuantityLimit
	}

	if c.Items == nil {
		c.Items = make(map[int64]int)
	}

	c.Items[productID] += qty

	return nil
}

func (c *Cart) Quantity(productID int64) int {
	return c.Items[productID]
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	var n int
	for _, qty := range c.Items {
		n += qty
	}

	return n
}

// ProductIDs returns the cart's product ids in ascending order.
func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

func (c *Cart) Clear() {
	c.Items = make(map[int64]int)
}

type CartLine struct {
	Product   *Product        `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

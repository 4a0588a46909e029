package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a persisted customer order. It is created exactly once per
// checkout and never mutated afterwards.
type Order struct {
	ID              string
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
	Items           []LineItem
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	CreatedAt       time.Time
}

// LineItem is one priced, quantified entry within an order. Title and Price
// are captured at checkout time; later catalog changes do not reprice
// existing orders.
type LineItem struct {
	ProductID string
	Title     string
	Price     decimal.Decimal
	Quantity  int
}

// CartItem references a catalog product with a requested quantity.
// Request-scoped; never persisted on its own.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Repository defines persistence operations for orders. Create returns the
// store-assigned order identifier.
type Repository interface {
	Create(ctx context.Context, o *Order) (string, error)
}

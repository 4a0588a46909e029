package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors surfaced by catalog repositories.
var (
	// ErrInvalidID is returned when a product identifier cannot be parsed
	// into the store's native key format. Callers should treat it as bad
	// client input, not a server failure.
	ErrInvalidID = errors.New("invalid product id")
)

// DefaultCategory is assigned to stored products that omit a category.
const DefaultCategory = "General"

// Product is a catalog item as exposed to clients. Optional stored fields
// are already defaulted: Category is never empty and InStock defaults to
// true. The storage layer fills defaults exactly once on read, so consumers
// never need to re-check.
type Product struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	InStock     bool
}

// Repository defines catalog persistence operations. List returns products
// in store-native order; no sort is defined or promised.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	// GetByIDs resolves the given identifiers in a single bulk lookup.
	// Identifiers that do not match any document are simply absent from the
	// result. A syntactically invalid identifier fails the whole call with
	// ErrInvalidID.
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, products []Product) ([]string, error)
}

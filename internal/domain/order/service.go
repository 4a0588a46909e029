package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopfront/internal/domain/product"
)

// TaxRate is the flat sales tax applied to every order subtotal.
var TaxRate = decimal.RequireFromString("0.08")

// UnknownTitle is recorded on line items whose product no longer resolves.
const UnknownTitle = "Unknown"

// CheckoutRequest holds the input for a checkout: customer details plus the
// ordered sequence of cart items. Field presence and quantity ranges are
// validated at the HTTP boundary before this type reaches the service.
type CheckoutRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
	Items           []CartItem
}

// Summary is the result of a successful checkout.
type Summary struct {
	OrderID  string
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Service computes checkout totals and persists the resulting order.
type Service struct {
	products product.Repository
	orders   Repository
}

// NewService creates a checkout Service with the required dependencies.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{
		products: products,
		orders:   orders,
	}
}

// Checkout resolves current catalog prices for the requested items, computes
// line totals, subtotal, tax and total, and persists the order in a single
// write after the full computation.
//
// Items referencing a product absent from the catalog are priced at zero and
// titled "Unknown" rather than rejected: carts are built from the live
// catalog, so a miss means the product disappeared mid-session and the rest
// of the order still stands. Syntactically invalid identifiers do fail the
// whole request (product.ErrInvalidID).
//
// An empty item sequence is a valid zero-total order and is still persisted.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*Summary, error) {
	// Distinct IDs, preserving first-seen order for the bulk lookup.
	seen := make(map[string]struct{}, len(req.Items))
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	byID := make(map[string]product.Product, len(ids))
	if len(ids) > 0 {
		fetched, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, errors.Wrap(err, "resolve products")
		}
		for _, p := range fetched {
			byID[p.ID] = p
		}
	}

	// Line items in request order. Prices reflect the catalog at this
	// moment; the persisted order never gets repriced.
	items := make([]LineItem, len(req.Items))
	subtotal := decimal.Zero
	for i, item := range req.Items {
		price := decimal.Zero
		title := UnknownTitle
		if p, ok := byID[item.ProductID]; ok {
			price = p.Price
			title = p.Title
		}
		items[i] = LineItem{
			ProductID: item.ProductID,
			Title:     title,
			Price:     price,
			Quantity:  item.Quantity,
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(tax).Round(2)

	o := &Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           total,
	}
	id, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	o.ID = id

	return &Summary{
		OrderID:  id,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}, nil
}

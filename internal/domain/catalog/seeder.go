// Package catalog provides sample-data seeding for the product catalog.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopfront/internal/domain/product"
)

// sampleProducts is the fixed catalog inserted into an empty store.
var sampleProducts = []product.Product{
	{
		Title:       "Classic Tee",
		Description: "Soft cotton t-shirt",
		Price:       decimal.RequireFromString("19.99"),
		Category:    "Apparel",
		Image:       "https://images.unsplash.com/photo-1520975916090-3105956dac38?w=800",
		InStock:     true,
	},
	{
		Title:       "Premium Hoodie",
		Description: "Cozy fleece hoodie",
		Price:       decimal.RequireFromString("49.00"),
		Category:    "Apparel",
		Image:       "https://images.unsplash.com/photo-1520975893454-9d06fbe92d08?w=800",
		InStock:     true,
	},
	{
		Title:       "Travel Mug",
		Description: "Insulated stainless steel",
		Price:       decimal.RequireFromString("24.50"),
		Category:    "Accessories",
		Image:       "https://images.unsplash.com/photo-1509460913899-d6f0e55cf84b?w=800",
		InStock:     true,
	},
	{
		Title:       "Leather Journal",
		Description: "Handmade, dotted pages",
		Price:       decimal.RequireFromString("29.95"),
		Category:    "Stationery",
		Image:       "https://images.unsplash.com/photo-1519681393784-d120267933ba?w=800",
		InStock:     true,
	},
}

// Result reports what seeding did.
type Result struct {
	Message string
	Count   int64
}

// Seeder populates the catalog with sample products when it is empty.
type Seeder struct {
	products product.Repository
}

// NewSeeder creates a Seeder backed by the given catalog repository.
func NewSeeder(products product.Repository) *Seeder {
	return &Seeder{products: products}
}

// SeedIfEmpty inserts the sample catalog unless the store already holds at
// least one product, in which case it reports the current count and inserts
// nothing. The check and the insert are two separate store calls; concurrent
// first requests on a fresh deployment can race and double-seed. That window
// is accepted for a sample-data utility.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (*Result, error) {
	count, err := s.products.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count products")
	}
	if count > 0 {
		return &Result{Message: "Products already seeded", Count: count}, nil
	}

	inserted, err := s.products.InsertMany(ctx, sampleProducts)
	if err != nil {
		return nil, errors.Wrap(err, "insert sample products")
	}

	return &Result{Message: "Seeded products", Count: int64(len(inserted))}, nil
}

package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopfront/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID    map[string]product.Product
	lastIDs []string
	getErr  error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	m.lastIDs = ids
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

func (m *mockProductRepo) InsertMany(_ context.Context, _ []product.Product) ([]string, error) {
	return nil, nil
}

type mockOrderRepo struct {
	lastOrder *Order
	id        string
	err       error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) (string, error) {
	m.lastOrder = o
	if m.err != nil {
		return "", m.err
	}
	if m.id == "" {
		return "65f1a2b3c4d5e6f708192a3b", nil
	}
	return m.id, nil
}

// --- Helpers ---

func newTestProduct(id, title, price string) product.Product {
	return product.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Category: "test",
		InStock:  true,
	}
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &mockProductRepo{byID: byID}
}

func testRequest(items ...CartItem) CheckoutRequest {
	return CheckoutRequest{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		CustomerAddress: "1 Main St",
		Items:           items,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

// --- Tests ---

func TestCheckout_SingleProduct(t *testing.T) {
	p := newTestProduct("p1", "Classic Tee", "19.99")
	orders := &mockOrderRepo{}
	svc := NewService(newProductRepo(p), orders)

	summary, err := svc.Checkout(context.Background(), testRequest(
		CartItem{ProductID: "p1", Quantity: 2},
	))

	require.NoError(t, err)
	assertDecimal(t, "39.98", summary.Subtotal)
	assertDecimal(t, "3.20", summary.Tax)
	assertDecimal(t, "43.18", summary.Total)
	assert.Equal(t, "65f1a2b3c4d5e6f708192a3b", summary.OrderID)

	require.NotNil(t, orders.lastOrder)
	require.Len(t, orders.lastOrder.Items, 1)
	item := orders.lastOrder.Items[0]
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "Classic Tee", item.Title)
	assertDecimal(t, "19.99", item.Price)
	assert.Equal(t, 2, item.Quantity)
}

func TestCheckout_MultipleProductsKeepRequestOrder(t *testing.T) {
	p1 := newTestProduct("p1", "Classic Tee", "19.99")
	p2 := newTestProduct("p2", "Travel Mug", "24.50")
	orders := &mockOrderRepo{}
	svc := NewService(newProductRepo(p1, p2), orders)

	summary, err := svc.Checkout(context.Background(), testRequest(
		CartItem{ProductID: "p2", Quantity: 1},
		CartItem{ProductID: "p1", Quantity: 3},
	))

	require.NoError(t, err)
	// 24.50 + 3*19.99 = 84.47
	assertDecimal(t, "84.47", summary.Subtotal)
	assertDecimal(t, "6.76", summary.Tax)
	assertDecimal(t, "91.23", summary.Total)

	require.Len(t, orders.lastOrder.Items, 2)
	assert.Equal(t, "p2", orders.lastOrder.Items[0].ProductID)
	assert.Equal(t, "p1", orders.lastOrder.Items[1].ProductID)
}

func TestCheckout_DuplicateItemsLookedUpOnce(t *testing.T) {
	p := newTestProduct("p1", "Classic Tee", "10.00")
	repo := newProductRepo(p)
	svc := NewService(repo, &mockOrderRepo{})

	summary, err := svc.Checkout(context.Background(), testRequest(
		CartItem{ProductID: "p1", Quantity: 1},
		CartItem{ProductID: "p1", Quantity: 2},
	))

	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, repo.lastIDs)
	assertDecimal(t, "30.00", summary.Subtotal)
}

func TestCheckout_UnknownProductPricedAtZero(t *testing.T) {
	p := newTestProduct("p1", "Classic Tee", "19.99")
	orders := &mockOrderRepo{}
	svc := NewService(newProductRepo(p), orders)

	summary, err := svc.Checkout(context.Background(), testRequest(
		CartItem{ProductID: "p1", Quantity: 1},
		CartItem{ProductID: "gone", Quantity: 5},
	))

	require.NoError(t, err)
	assertDecimal(t, "19.99", summary.Subtotal)

	require.Len(t, orders.lastOrder.Items, 2)
	missing := orders.lastOrder.Items[1]
	assert.Equal(t, "gone", missing.ProductID)
	assert.Equal(t, UnknownTitle, missing.Title)
	assertDecimal(t, "0", missing.Price)
	assert.Equal(t, 5, missing.Quantity)
}

func TestCheckout_EmptyItemsStillCreatesOrder(t *testing.T) {
	orders := &mockOrderRepo{}
	svc := NewService(newProductRepo(), orders)

	summary, err := svc.Checkout(context.Background(), testRequest())

	require.NoError(t, err)
	assertDecimal(t, "0", summary.Subtotal)
	assertDecimal(t, "0", summary.Tax)
	assertDecimal(t, "0", summary.Total)

	require.NotNil(t, orders.lastOrder, "zero-total order must still be persisted")
	assert.Empty(t, orders.lastOrder.Items)
	assert.Equal(t, "Jane Doe", orders.lastOrder.CustomerName)
}

func TestCheckout_TaxRounding(t *testing.T) {
	tests := []struct {
		price    string
		quantity int
		subtotal string
		tax      string
		total    string
	}{
		{"19.99", 1, "19.99", "1.60", "21.59"}, // 1.5992 rounds up
		{"19.99", 2, "39.98", "3.20", "43.18"},
		{"0.01", 1, "0.01", "0.00", "0.01"}, // 0.0008 rounds down
		{"12.50", 1, "12.50", "1.00", "13.50"},
		{"49.00", 3, "147.00", "11.76", "158.76"},
	}

	for _, tt := range tests {
		p := newTestProduct("p1", "Widget", tt.price)
		orders := &mockOrderRepo{}
		svc := NewService(newProductRepo(p), orders)

		summary, err := svc.Checkout(context.Background(), testRequest(
			CartItem{ProductID: "p1", Quantity: tt.quantity},
		))

		require.NoError(t, err)
		assertDecimal(t, tt.subtotal, summary.Subtotal)
		assertDecimal(t, tt.tax, summary.Tax)
		assertDecimal(t, tt.total, summary.Total)
		assertDecimal(t, tt.subtotal, orders.lastOrder.Subtotal)
	}
}

func TestCheckout_InvalidProductID(t *testing.T) {
	repo := newProductRepo()
	repo.getErr = errors.Wrap(product.ErrInvalidID, "not-hex")
	orders := &mockOrderRepo{}
	svc := NewService(repo, orders)

	_, err := svc.Checkout(context.Background(), testRequest(
		CartItem{ProductID: "not-hex", Quantity: 1},
	))

	require.Error(t, err)
	assert.ErrorIs(t, err, product.ErrInvalidID)
	assert.Nil(t, orders.lastOrder, "no order may be written when resolution fails")
}

func TestCheckout_OrderCreateError(t *testing.T) {
	p := newTestProduct("p1", "Widget", "10.00")
	svc := NewService(newProductRepo(p), &mockOrderRepo{err: errors.New("write failed")})

	_, err := svc.Checkout(context.Background(), testRequest(
		CartItem{ProductID: "p1", Quantity: 1},
	))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopfront/internal/domain/catalog"
	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/domain/product"
	"github.com/xenking/shopfront/internal/storage/mongodb"
)

// --- Mocks ---

type mockProductRepo struct {
	products []product.Product
	listErr  error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return m.products, m.listErr
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	for _, id := range ids {
		if !isHexLike(id) {
			return nil, errors.Wrapf(product.ErrInvalidID, "%q", id)
		}
	}
	var out []product.Product
	for _, id := range ids {
		for _, p := range m.products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *mockProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

func (m *mockProductRepo) InsertMany(_ context.Context, products []product.Product) ([]string, error) {
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = "inserted"
	}
	return ids, nil
}

func isHexLike(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

type mockOrderRepo struct{}

func (m *mockOrderRepo) Create(_ context.Context, _ *order.Order) (string, error) {
	return "65f1a2b3c4d5e6f708192a3b", nil
}

type mockDiag struct {
	report mongodb.Report
}

func (m *mockDiag) Check(_ context.Context) mongodb.Report {
	return m.report
}

// --- Helpers ---

const testProductID = "65f1a2b3c4d5e6f708192a00"

func newTestHandler(repo *mockProductRepo) *Handler {
	return New(
		repo,
		order.NewService(repo, &mockOrderRepo{}),
		catalog.NewSeeder(repo),
		&mockDiag{report: mongodb.Report{Backend: "running", ConnectionStatus: "connected"}},
	)
}

func serve(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.Routes(mux)

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// --- Tests ---

func TestRoot(t *testing.T) {
	w := serve(newTestHandler(&mockProductRepo{}), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decodeBody[map[string]string](t, w)
	assert.Equal(t, "Shopping API is running", body["message"])
}

func TestDiagnostics(t *testing.T) {
	w := serve(newTestHandler(&mockProductRepo{}), http.MethodGet, "/test", "")

	require.Equal(t, http.StatusOK, w.Code)
	report := decodeBody[mongodb.Report](t, w)
	assert.Equal(t, "running", report.Backend)
	assert.Equal(t, "connected", report.ConnectionStatus)
}

func TestDiagnostics_Unconfigured(t *testing.T) {
	w := serve(New(nil, nil, nil, nil), http.MethodGet, "/test", "")

	require.Equal(t, http.StatusOK, w.Code)
	report := decodeBody[mongodb.Report](t, w)
	assert.Equal(t, "not configured", report.Database)
	assert.Equal(t, "not connected", report.ConnectionStatus)
}

func TestListProducts(t *testing.T) {
	repo := &mockProductRepo{products: []product.Product{
		{
			ID:       testProductID,
			Title:    "Classic Tee",
			Price:    decimal.RequireFromString("19.99"),
			Category: "Apparel",
			InStock:  true,
		},
	}}
	w := serve(newTestHandler(repo), http.MethodGet, "/products", "")

	require.Equal(t, http.StatusOK, w.Code)
	out := decodeBody[[]productResponse](t, w)
	require.Len(t, out, 1)
	assert.Equal(t, testProductID, out[0].ID)
	assert.Equal(t, "Classic Tee", out[0].Title)
	assert.InDelta(t, 19.99, out[0].Price, 0.0001)
	assert.True(t, out[0].InStock)
}

func TestListProducts_StableAcrossReads(t *testing.T) {
	repo := &mockProductRepo{products: []product.Product{
		{ID: testProductID, Title: "Classic Tee", Price: decimal.RequireFromString("19.99")},
		{ID: "65f1a2b3c4d5e6f708192a01", Title: "Travel Mug", Price: decimal.RequireFromString("24.50")},
	}}
	h := newTestHandler(repo)

	first := serve(h, http.MethodGet, "/products", "")
	second := serve(h, http.MethodGet, "/products", "")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestListProducts_Empty(t *testing.T) {
	w := serve(newTestHandler(&mockProductRepo{}), http.MethodGet, "/products", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[[]productResponse](t, w))
}

func TestListProducts_StoreError(t *testing.T) {
	repo := &mockProductRepo{listErr: errors.New("store down")}
	w := serve(newTestHandler(repo), http.MethodGet, "/products", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody[errorResponse](t, w)
	assert.Equal(t, "internal server error", body.Message)
}

func TestListProducts_Unconfigured(t *testing.T) {
	w := serve(New(nil, nil, nil, nil), http.MethodGet, "/products", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody[errorResponse](t, w)
	assert.Equal(t, "database not configured", body.Message)
}

func TestCheckout(t *testing.T) {
	repo := &mockProductRepo{products: []product.Product{
		{ID: testProductID, Title: "Classic Tee", Price: decimal.RequireFromString("19.99")},
	}}
	body := `{
		"customer_name": "Jane Doe",
		"customer_email": "jane@example.com",
		"customer_address": "1 Main St",
		"items": [{"product_id": "` + testProductID + `", "quantity": 2}]
	}`
	w := serve(newTestHandler(repo), http.MethodPost, "/checkout", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeBody[checkoutResponse](t, w)
	assert.Equal(t, "65f1a2b3c4d5e6f708192a3b", out.OrderID)
	assert.InDelta(t, 39.98, out.Subtotal, 0.0001)
	assert.InDelta(t, 3.20, out.Tax, 0.0001)
	assert.InDelta(t, 43.18, out.Total, 0.0001)
}

func TestCheckout_EmptyItems(t *testing.T) {
	body := `{
		"customer_name": "Jane Doe",
		"customer_email": "jane@example.com",
		"customer_address": "1 Main St",
		"items": []
	}`
	w := serve(newTestHandler(&mockProductRepo{}), http.MethodPost, "/checkout", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decodeBody[checkoutResponse](t, w)
	assert.NotEmpty(t, out.OrderID)
	assert.Zero(t, out.Subtotal)
	assert.Zero(t, out.Tax)
	assert.Zero(t, out.Total)
}

func TestCheckout_MalformedBody(t *testing.T) {
	w := serve(newTestHandler(&mockProductRepo{}), http.MethodPost, "/checkout", "{not json")

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[errorResponse](t, w)
	assert.Equal(t, "invalid request body", body.Message)
}

func TestCheckout_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing email",
			body: `{"customer_name": "Jane", "customer_address": "1 Main St", "items": []}`,
			want: "customer_email: required",
		},
		{
			name: "bad email",
			body: `{"customer_name": "Jane", "customer_email": "nope", "customer_address": "1 Main St", "items": []}`,
			want: "customer_email: email",
		},
		{
			name: "zero quantity",
			body: `{"customer_name": "Jane", "customer_email": "jane@example.com", "customer_address": "1 Main St",
				"items": [{"product_id": "` + testProductID + `", "quantity": 0}]}`,
			want: "quantity: min",
		},
		{
			name: "missing product id",
			body: `{"customer_name": "Jane", "customer_email": "jane@example.com", "customer_address": "1 Main St",
				"items": [{"quantity": 1}]}`,
			want: "product_id: required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newTestHandler(&mockProductRepo{}), http.MethodPost, "/checkout", tt.body)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			body := decodeBody[errorResponse](t, w)
			assert.Equal(t, tt.want, body.Message)
		})
	}
}

func TestCheckout_InvalidProductID(t *testing.T) {
	body := `{
		"customer_name": "Jane Doe",
		"customer_email": "jane@example.com",
		"customer_address": "1 Main St",
		"items": [{"product_id": "not-an-object-id", "quantity": 1}]
	}`
	w := serve(newTestHandler(&mockProductRepo{}), http.MethodPost, "/checkout", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody[errorResponse](t, w)
	assert.Contains(t, resp.Message, "invalid product id")
}

func TestCheckout_Unconfigured(t *testing.T) {
	body := `{
		"customer_name": "Jane Doe",
		"customer_email": "jane@example.com",
		"customer_address": "1 Main St",
		"items": []
	}`
	w := serve(New(nil, nil, nil, nil), http.MethodPost, "/checkout", body)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeBody[errorResponse](t, w)
	assert.Equal(t, "database not configured", resp.Message)
}

func TestSeed(t *testing.T) {
	w := serve(newTestHandler(&mockProductRepo{}), http.MethodPost, "/seed", "")

	require.Equal(t, http.StatusOK, w.Code)
	out := decodeBody[seedResponse](t, w)
	assert.Equal(t, "Seeded products", out.Message)
	assert.Equal(t, int64(4), out.Count)
}

func TestSeed_AlreadySeeded(t *testing.T) {
	repo := &mockProductRepo{products: []product.Product{
		{ID: testProductID, Title: "Classic Tee"},
	}}
	w := serve(newTestHandler(repo), http.MethodPost, "/seed", "")

	require.Equal(t, http.StatusOK, w.Code)
	out := decodeBody[seedResponse](t, w)
	assert.Equal(t, "Products already seeded", out.Message)
	assert.Equal(t, int64(1), out.Count)
}

func TestSeed_Unconfigured(t *testing.T) {
	w := serve(New(nil, nil, nil, nil), http.MethodPost, "/seed", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeBody[errorResponse](t, w)
	assert.Equal(t, "database not configured", resp.Message)
}

func TestSchema(t *testing.T) {
	w := serve(New(nil, nil, nil, nil), http.MethodGet, "/schema", "")

	require.Equal(t, http.StatusOK, w.Code)
	out := decodeBody[map[string]map[string]any](t, w)
	for _, name := range []string{"user", "product", "order", "orderitem"} {
		assert.Contains(t, out, name)
	}
	assert.Equal(t, "object", out["product"]["type"])
}

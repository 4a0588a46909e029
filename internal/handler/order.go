package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/xenking/shopfront/internal/domain/order"
	"github.com/xenking/shopfront/internal/domain/product"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkoutRequest is the wire shape of a checkout call. Customer fields are
// required; an empty items list is a valid zero-total order.
type checkoutRequest struct {
	CustomerName    string            `json:"customer_name" validate:"required"`
	CustomerEmail   string            `json:"customer_email" validate:"required,email"`
	CustomerAddress string            `json:"customer_address" validate:"required"`
	Items           []cartItemRequest `json:"items" validate:"dive"`
}

type cartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type checkoutResponse struct {
	OrderID  string  `json:"order_id"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Checkout validates the request shape, delegates to the checkout service,
// and maps domain errors to status codes.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.checkout == nil {
		writeStoreUnconfigured(w)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	items := make([]order.CartItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	summary, err := h.checkout.Checkout(r.Context(), order.CheckoutRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
	})
	if err != nil {
		if errors.Is(err, product.ErrInvalidID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{
		OrderID:  summary.OrderID,
		Subtotal: summary.Subtotal.InexactFloat64(),
		Tax:      summary.Tax.InexactFloat64(),
		Total:    summary.Total.InexactFloat64(),
	})
}

// validationMessage flattens validator output into a single client-readable
// line, e.g. "customer_email: required".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	return jsonFieldName(fe) + ": " + fe.Tag()
}

// jsonFieldName maps a validator field reference back to its wire name.
func jsonFieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "CustomerName":
		return "customer_name"
	case "CustomerEmail":
		return "customer_email"
	case "CustomerAddress":
		return "customer_address"
	case "ProductID":
		return "product_id"
	case "Quantity":
		return "quantity"
	default:
		return fe.Field()
	}
}

package httpapi

import (
	"context"
	"net/http"

	"github.com/nikolayk812/marketplace/internal/service"
)

type CheckoutAPI interface {
	Checkout(ctx context.Context, ownerID string) (service.CheckoutResult, error)
}

type CheckoutHandler struct {
	checkout CheckoutAPI
}

func NewCheckoutHandler(checkout CheckoutAPI) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type checkoutResponse struct {
	OrderID string `json:"order_id"`
	Total   string `json:"total"`
	// false means the purchase succeeded but the cart still holds stale
	// rows; the client may issue a cart clear to tidy up
	CartCleared bool `json:"cart_cleared"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ownerID := userID(r)
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	result, err := h.checkout.Checkout(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, checkoutResponse{
		OrderID:     result.OrderID.String(),
		Total:       result.Total.String(),
		CartCleared: result.CartCleared,
	})
}

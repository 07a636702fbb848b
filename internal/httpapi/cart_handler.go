package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
)

// CartAPI is what the handlers need from the cart service.
type CartAPI interface {
	AddToCart(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) error
	RemoveFromCart(ctx context.Context, ownerID string, productID uuid.UUID) error
	ListCart(ctx context.Context, ownerID string) (domain.Cart, error)
}

type CartHandler struct {
	cart CartAPI
}

func NewCartHandler(cart CartAPI) *CartHandler {
	return &CartHandler{cart: cart}
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type cartItemResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int32  `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Total string             `json:"total,omitempty"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ownerID := userID(r)
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a UUID")
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	if err := h.cart.AddToCart(r.Context(), ownerID, productID, quantity); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, nil)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ownerID := userID(r)
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a UUID")
		return
	}

	if err := h.cart.RemoveFromCart(r.Context(), ownerID, productID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ownerID := userID(r)
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	cart, err := h.cart.ListCart(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := cartResponse{Items: make([]cartItemResponse, 0, len(cart.Items))}
	for _, item := range cart.Items {
		resp.Items = append(resp.Items, cartItemResponse{
			ProductID: item.Product.ID.String(),
			Title:     item.Product.Title,
			Price:     item.Product.Price.String(),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal().String(),
		})
	}

	if len(cart.Items) > 0 {
		total, err := cart.Total()
		if err != nil {
			respondServiceError(w, err)
			return
		}
		resp.Total = total.String()
	}

	respondJSON(w, http.StatusOK, resp)
}

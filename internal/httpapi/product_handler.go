package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type ProductHandler struct {
	products port.ProductRepository
}

func NewProductHandler(products port.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

type createProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	ImageURL    string `json:"image_url"`
}

type productResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	SellerID    string `json:"seller_id"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, product := range products {
		resp = append(resp, toProductResponse(product))
	}

	respondJSON(w, http.StatusOK, resp)
}

// Create lists an item for sale; the seller is the calling user.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID := userID(r)
	if sellerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	amount, err := decimal.NewFromString(req.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be a decimal number")
		return
	}

	unit := currency.USD
	if req.Currency != "" {
		unit, err = currency.ParseISO(req.Currency)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_currency", "currency must be an ISO code")
			return
		}
	}

	product := domain.Product{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Price:       domain.Money{Amount: amount, Currency: unit},
		ImageURL:    req.ImageURL,
		SellerID:    sellerID,
	}

	if err := h.products.CreateProduct(r.Context(), product); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		ID:          product.ID.String(),
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price.String(),
		ImageURL:    product.ImageURL,
		SellerID:    product.SellerID,
	}
}

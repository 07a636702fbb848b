package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/httpapi"
	"github.com/nikolayk812/marketplace/internal/repository"
	"github.com/nikolayk812/marketplace/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

type cartAPIMock struct {
	addErr  error
	cart    domain.Cart
	listErr error
}

func (m *cartAPIMock) AddToCart(context.Context, string, uuid.UUID, int32) error { return m.addErr }
func (m *cartAPIMock) RemoveFromCart(context.Context, string, uuid.UUID) error  { return nil }
func (m *cartAPIMock) ListCart(context.Context, string) (domain.Cart, error) {
	return m.cart, m.listErr
}

type checkoutAPIMock struct {
	result service.CheckoutResult
	err    error
}

func (m *checkoutAPIMock) Checkout(context.Context, string) (service.CheckoutResult, error) {
	return m.result, m.err
}

type productsMock struct{}

func (productsMock) GetProduct(context.Context, uuid.UUID) (domain.Product, error) {
	return domain.Product{}, repository.ErrProductNotFound
}
func (productsMock) CreateProduct(context.Context, domain.Product) error    { return nil }
func (productsMock) CreateProducts(context.Context, []domain.Product) error { return nil }
func (productsMock) ListProducts(context.Context) ([]domain.Product, error) { return nil, nil }

func newServer(cart *cartAPIMock, checkout *checkoutAPIMock) *httptest.Server {
	return httptest.NewServer(httpapi.NewRouter(cart, checkout, productsMock{}))
}

func do(t *testing.T, method, url, user, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAddItem_StatusMapping(t *testing.T) {
	productID := uuid.New().String()

	tests := []struct {
		name       string
		user       string
		body       string
		addErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "created",
			user:       "buyer-1",
			body:       `{"product_id":"` + productID + `","quantity":1}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate maps to conflict",
			user:       "buyer-1",
			body:       `{"product_id":"` + productID + `"}`,
			addErr:     repository.ErrDuplicateEntry,
			wantStatus: http.StatusConflict,
			wantCode:   "duplicate_entry",
		},
		{
			name:       "missing identity",
			user:       "",
			body:       `{"product_id":"` + productID + `"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bad product id",
			user:       "buyer-1",
			body:       `{"product_id":"not-a-uuid"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage failure maps to 503",
			user:       "buyer-1",
			body:       `{"product_id":"` + productID + `"}`,
			addErr:     service.ErrStorageUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "negative quantity",
			user:       "buyer-1",
			body:       `{"product_id":"` + productID + `","quantity":-2}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_quantity",
		},
		{
			name:       "unclassified error maps to 500",
			user:       "buyer-1",
			body:       `{"product_id":"` + productID + `"}`,
			addErr:     errors.New("pool exhausted: dsn=postgres://app:hunter2@db"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(&cartAPIMock{addErr: tt.addErr}, &checkoutAPIMock{})
			defer srv.Close()

			resp := do(t, http.MethodPost, srv.URL+"/cart/items", tt.user, tt.body)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantCode != "" {
				var body httpapi.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantCode, body.Code)

				if tt.wantStatus == http.StatusInternalServerError {
					assert.Equal(t, "internal error", body.Error,
						"internal fault details must not reach the client")
				}
			}
		})
	}
}

func TestCheckout(t *testing.T) {
	orderID := uuid.New()
	checkout := &checkoutAPIMock{
		result: service.CheckoutResult{
			OrderID: orderID,
			Total: domain.Money{
				Amount:   decimal.RequireFromString("25.00"),
				Currency: currency.USD,
			},
			CartCleared: true,
		},
	}

	srv := newServer(&cartAPIMock{}, checkout)
	defer srv.Close()

	resp := do(t, http.MethodPost, srv.URL+"/checkout", "buyer-1", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		OrderID     string `json:"order_id"`
		Total       string `json:"total"`
		CartCleared bool   `json:"cart_cleared"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, orderID.String(), body.OrderID)
	assert.Equal(t, "25.00 USD", body.Total)
	assert.True(t, body.CartCleared)
}

func TestCheckout_InProgress(t *testing.T) {
	srv := newServer(&cartAPIMock{}, &checkoutAPIMock{err: service.ErrCheckoutInProgress})
	defer srv.Close()

	resp := do(t, http.MethodPost, srv.URL+"/checkout", "buyer-1", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCheckout_EmptyCart(t *testing.T) {
	srv := newServer(&cartAPIMock{}, &checkoutAPIMock{err: service.ErrEmptyCart})
	defer srv.Close()

	resp := do(t, http.MethodPost, srv.URL+"/checkout", "buyer-1", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

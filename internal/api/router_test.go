package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/example/ec-storefront/internal/command"
	"github.com/example/ec-storefront/internal/domain/cart"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/domain/checkout"
	"github.com/example/ec-storefront/internal/domain/order"
	"github.com/example/ec-storefront/internal/domain/pricing"
	"github.com/example/ec-storefront/internal/infrastructure/kafka/mocks"
	"github.com/example/ec-storefront/internal/query"
	"github.com/example/ec-storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "session-abc"

type testServer struct {
	router    http.Handler
	publisher *mocks.MockPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := catalog.NewStore()
	require.NoError(t, store.LoadDefault())
	registry := session.NewRegistry(store)
	engine, err := pricing.NewEngine(store, pricing.DefaultTaxRate)
	require.NoError(t, err)
	validator := checkout.NewValidator(checkout.DefaultCountries)
	publisher := mocks.NewMockPublisher()
	orders := order.NewService(publisher, nil)

	cmdHandler := command.NewHandler(store, registry, engine, validator, orders, nil)
	queryHandler := query.NewHandler(store, registry, engine, orders, nil)
	handlers := NewHandlers(cmdHandler, queryHandler, validator, nil)

	return &testServer{router: NewRouter(handlers, nil, ""), publisher: publisher}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, testSession)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func validCheckoutForm() checkout.Form {
	return checkout.Form{
		FullName:      "Nobita Nobi",
		Address1:      "123 Anywhere Door Lane",
		City:          "Tokyo",
		PostalCode:    "100-0001",
		Country:       "Japan",
		Phone:         "+81 80 1234 5678",
		PaymentMethod: "payPal",
	}
}

// ============================================
// Menu Route Tests
// ============================================

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Menu(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		path  string
		count int
	}{
		{"all items", "/menu", 10},
		{"category filter", "/menu?category=Desserts", 3},
		{"text filter", "/menu?q=latte", 1},
		{"category and text", "/menu?category=Desserts&q=dora", 1},
		{"no matches", "/menu?q=nothing-like-this", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, tt.path, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			items := decode[[]catalog.Item](t, rec)
			assert.Len(t, items, tt.count)
			assert.NotNil(t, items)
		})
	}
}

func TestRouter_MenuItem(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/menu/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Giant Dorayaki Stack", decode[catalog.Item](t, rec).Name)

	rec = srv.do(t, http.MethodGet, "/menu/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Categories(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/menu/categories", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "All", decode[[]string](t, rec)[0])
}

// ============================================
// Cart Route Tests
// ============================================

func TestRouter_Cart_RequiresSession(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Cart_Flow(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/cart/items", map[string]any{"item_id": "1", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	// Quantity defaults to one
	rec = srv.do(t, http.MethodPost, "/cart/items", map[string]any{"item_id": "5"})
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[query.CartView](t, rec)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, pricing.Summary{Subtotal: 1400, TaxAmount: 140, Total: 1540, ItemCount: 3}, view.Summary)

	rec = srv.do(t, http.MethodPut, "/cart/items/1", map[string]any{"quantity": 4})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decode[query.CartView](t, rec).Summary.ItemCount)

	rec = srv.do(t, http.MethodGet, "/cart/count", nil)
	assert.Equal(t, map[string]int{"count": 5}, decode[map[string]int](t, rec))

	rec = srv.do(t, http.MethodDelete, "/cart/items/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[query.CartView](t, rec).Lines, 1)

	rec = srv.do(t, http.MethodDelete, "/cart", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/cart", nil)
	assert.Empty(t, decode[query.CartView](t, rec).Lines)
}

func TestRouter_Cart_QuantityCannotWrap(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodPost, "/cart/items", map[string]any{"item_id": "1", "quantity": cart.MaxQuantity})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/cart/items", map[string]any{"item_id": "1", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPut, "/cart/items/1", map[string]any{"quantity": int64(math.MaxInt64)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/cart", nil)
	view := decode[query.CartView](t, rec)
	assert.Equal(t, cart.MaxQuantity, view.Summary.ItemCount)
	assert.Equal(t, int64(cart.MaxQuantity*500), view.Summary.Subtotal)
	assert.Positive(t, view.Summary.Total)
}

func TestRouter_Cart_ErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown item", http.MethodPost, "/cart/items", map[string]any{"item_id": "nope", "quantity": 1}, http.StatusNotFound},
		{"zero quantity", http.MethodPost, "/cart/items", map[string]any{"item_id": "1", "quantity": 0}, http.StatusBadRequest},
		{"negative quantity", http.MethodPost, "/cart/items", map[string]any{"item_id": "1", "quantity": -3}, http.StatusBadRequest},
		{"huge quantity", http.MethodPost, "/cart/items", map[string]any{"item_id": "1", "quantity": int64(math.MaxInt64)}, http.StatusBadRequest},
		{"quantity above line cap", http.MethodPost, "/cart/items", map[string]any{"item_id": "1", "quantity": cart.MaxQuantity + 1}, http.StatusBadRequest},
		{"update missing line", http.MethodPut, "/cart/items/7", map[string]any{"quantity": 2}, http.StatusNotFound},
		{"malformed body", http.MethodPost, "/cart/items", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
		})
	}
}

// ============================================
// Checkout & Order Route Tests
// ============================================

func TestRouter_ValidateCheckout(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/checkout/validate", validCheckoutForm())
	assert.Equal(t, http.StatusOK, rec.Code)

	form := validCheckoutForm()
	form.FullName = "A"
	form.PaymentMethod = "creditCard"
	rec = srv.do(t, http.MethodPost, "/checkout/validate", form)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[errorResponse](t, rec)
	fields := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{
		checkout.FieldFullName,
		checkout.FieldCardNumber,
		checkout.FieldCardExpiry,
		checkout.FieldCardCVV,
		checkout.FieldCardName,
	}, fields)
}

func TestRouter_PlaceOrder_EmptyCart(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/orders", validCheckoutForm())

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, srv.publisher.Calls())
}

func TestRouter_PlaceOrder_Flow(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodPost, "/cart/items", map[string]any{"item_id": "2", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/orders", validCheckoutForm())

	require.Equal(t, http.StatusCreated, rec.Code)
	placed := decode[order.Order](t, rec)
	assert.Regexp(t, `^DORA\d{5}$`, placed.Number)
	assert.Equal(t, int64(1650), placed.Summary.Total)
	assert.Equal(t, order.StatusProcessing, placed.Status)
	assert.Len(t, srv.publisher.Calls(), 1)

	// Cart emptied
	rec = srv.do(t, http.MethodGet, "/cart/count", nil)
	assert.Equal(t, 0, decode[map[string]int](t, rec)["count"])

	rec = srv.do(t, http.MethodGet, "/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]order.Order](t, rec), 1)

	rec = srv.do(t, http.MethodGet, "/orders/"+placed.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, placed.Number, decode[order.Order](t, rec).Number)

	rec = srv.do(t, http.MethodPost, "/orders/"+placed.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.StatusCancelled, decode[order.Order](t, rec).Status)

	rec = srv.do(t, http.MethodPost, "/orders/"+placed.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_PlaceOrder_InvalidForm(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/cart/items", map[string]any{"item_id": "2", "quantity": 1})
	form := validCheckoutForm()
	form.Country = "Atlantis"

	rec := srv.do(t, http.MethodPost, "/orders", form)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[errorResponse](t, rec)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, checkout.FieldCountry, resp.Fields[0].Field)
}

func TestRouter_GetOrder_OtherSession(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/cart/items", map[string]any{"item_id": "2", "quantity": 1})
	rec := srv.do(t, http.MethodPost, "/orders", validCheckoutForm())
	require.Equal(t, http.StatusCreated, rec.Code)
	placed := decode[order.Order](t, rec)

	req := httptest.NewRequest(http.MethodGet, "/orders/"+placed.ID, nil)
	req.Header.Set(middleware.SessionHeader, "intruder")
	other := httptest.NewRecorder()
	srv.router.ServeHTTP(other, req)

	assert.Equal(t, http.StatusNotFound, other.Code)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"restaurant-site/internal/orderservice/service"
	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/metrics"
	"restaurant-site/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
}

func (m *memoryRepo) CreateOrder(ctx context.Context, o models.NewOrder) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	// Items go through JSON like the real store does.
	raw, err := json.Marshal(o.OrderItems)
	if err != nil {
		return 0, err
	}
	order := models.Order{
		ID:            int64(len(m.orders) + 1),
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		TotalAmount:   o.TotalAmount,
		CreatedAt:     time.Now(),
	}
	if err := json.Unmarshal(raw, &order.OrderItems); err != nil {
		return 0, err
	}
	m.orders = append([]models.Order{order}, m.orders...)
	return order.ID, nil
}

func (m *memoryRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Order(nil), m.orders...), nil
}

func newHandler(repo service.OrderRepository) *OrderHandler {
	m := metrics.New()
	return NewOrderHandler(service.NewOrderService(repo, nil, m, logger.Nop()), m, logger.Nop())
}

func post(h *OrderHandler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.CreateOrder(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))
	return rec
}

func list(h *OrderHandler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ListOrders(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	return rec
}

func TestCreateOrderEmptyItems(t *testing.T) {
	rec := post(newHandler(&memoryRepo{}), `{"order_items":[],"total_amount":10}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Order items cannot be empty."}`, rec.Body.String())
}

func TestCreateOrderThenList(t *testing.T) {
	h := newHandler(&memoryRepo{})

	rec := post(h, `{"order_items":[{"id":1,"name":"Momo","price":8,"quantity":2}],"total_amount":16}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Order placed successfully", created.Message)
	assert.Positive(t, created.OrderID)

	rec = list(h)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.EqualValues(t, created.OrderID, orders[0]["id"])

	items, ok := orders[0]["order_items"].([]any)
	require.True(t, ok, "order_items must be an array")
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{"id": 1.0, "name": "Momo", "price": 8.0, "quantity": 2.0}, items[0])
}

func TestOrderItemsRoundTrip(t *testing.T) {
	h := newHandler(&memoryRepo{})
	submitted := []models.OrderItem{
		{ID: 3, Name: "Thali", Description: "Plate", Price: 14.5, Quantity: 1},
		{ID: 1, Name: "Momo", Price: 8, Quantity: 2},
		{ID: 7, Name: "Kheer", Price: 4.25, Quantity: 3},
	}
	body, err := json.Marshal(map[string]any{"order_items": submitted, "total_amount": 43.25})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, post(h, string(body)).Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(list(h).Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, submitted, orders[0].OrderItems)
}

func TestCreateOrderMismatchedTotalIsAccepted(t *testing.T) {
	rec := post(newHandler(&memoryRepo{}), `{"order_items":[{"id":1,"name":"Momo","price":8,"quantity":2}],"total_amount":1}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateOrderFieldErrors(t *testing.T) {
	repo := &memoryRepo{}
	h := newHandler(repo)

	rec := post(h, `{"order_items":"momo","total_amount":"x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []struct {
			Path string `json:"path"`
			Msg  string `json:"msg"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "order_items", body.Errors[0].Path)
	assert.Equal(t, "total_amount", body.Errors[1].Path)
	assert.Empty(t, repo.orders)
}

func TestCreateOrderInvalidJSON(t *testing.T) {
	rec := post(newHandler(&memoryRepo{}), `{"order_items":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid JSON payload"}`, rec.Body.String())
}

func TestStoreFailuresAreOpaque(t *testing.T) {
	h := newHandler(&memoryRepo{err: errors.New("pq: password authentication failed")})

	rec := post(h, `{"order_items":[{"id":1,"name":"Momo","price":8,"quantity":2}],"total_amount":16}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Error placing order"}`, rec.Body.String())

	rec = list(h)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Error fetching orders"}`, rec.Body.String())
}

func TestListOrdersIsIdempotent(t *testing.T) {
	h := newHandler(&memoryRepo{})
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, post(h, `{"order_items":[{"id":1,"name":"Momo","price":8,"quantity":1}],"total_amount":8}`).Code)
	}

	first, second := list(h).Body.String(), list(h).Body.String()
	assert.Equal(t, first, second)
}

func TestListOrdersEmptyIsArray(t *testing.T) {
	rec := list(newHandler(&memoryRepo{}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateOrderOutOfRangeIsRejectedBeforeStore(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "total too large", body: `{"order_items":[{"id":1,"name":"Momo","price":8,"quantity":1}],"total_amount":1e12}`},
		{name: "sub-cent total", body: `{"order_items":[{"id":1,"name":"Momo","price":8,"quantity":1}],"total_amount":16.005}`},
		{name: "long phone", body: `{"customer_phone":"` + strings.Repeat("5", 55) + `","order_items":[{"id":1,"name":"Momo","price":8,"quantity":1}],"total_amount":8}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepo{}
			rec := post(newHandler(repo), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"errors"`)
			assert.Empty(t, repo.orders)
		})
	}
}

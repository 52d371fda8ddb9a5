package handler

import (
	"errors"
	"net/http"

	"restaurant-site/internal/orderservice/service"
	"restaurant-site/internal/orderservice/validation"
	"restaurant-site/pkg/httpx"
	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/metrics"
	"restaurant-site/pkg/models"
	pkgvalidation "restaurant-site/pkg/validation"
)

const (
	msgEmptyItems  = "Order items cannot be empty."
	msgOrderPlaced = "Order placed successfully"
	msgPlaceFailed = "Error placing order"
	msgFetchFailed = "Error fetching orders"
	msgInvalidJSON = "Invalid JSON payload"
	pipelineOrders = "orders"
)

type OrderHandler struct {
	service   *service.OrderService
	validator *validation.OrderValidator
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewOrderHandler(orderService *service.OrderService, m *metrics.Metrics, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service:   orderService,
		validator: validation.NewOrderValidator(),
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrder handles POST /api/orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := httpx.RequestIDFrom(r.Context())
	log := h.logger.RequestID(requestID)

	var req models.CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		log.Action("validation_failed").Error("Invalid JSON payload", err)
		h.metrics.ValidationFailures.WithLabelValues(pipelineOrders).Inc()
		httpx.JSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	order, err := h.validator.Validate(&req)
	if err != nil {
		h.metrics.ValidationFailures.WithLabelValues(pipelineOrders).Inc()

		var fieldErrs pkgvalidation.Errors
		switch {
		case errors.As(err, &fieldErrs):
			log.Action("validation_failed").Debug("Order rejected", "errors", fieldErrs.Error())
			httpx.JSONResponse(w, http.StatusBadRequest, pkgvalidation.ErrorResponse{Errors: fieldErrs})
		case errors.Is(err, validation.ErrEmptyItems):
			log.Action("validation_failed").Debug("Order rejected", "errors", err.Error())
			httpx.JSONError(w, http.StatusBadRequest, msgEmptyItems)
		default:
			httpx.JSONError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	log.Action("order_received").Debug("New order received", "items", len(order.OrderItems))

	orderID, err := h.service.CreateOrder(r.Context(), order, requestID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, msgPlaceFailed)
		return
	}

	httpx.JSONResponse(w, http.StatusCreated, models.CreateOrderResponse{
		Message: msgOrderPlaced,
		OrderID: orderID,
	})
	log.Action("completed").Info("New order is added to db successfully", "order_id", orderID)
}

// ListOrders handles GET /api/orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), httpx.RequestIDFrom(r.Context()))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	httpx.JSONResponse(w, http.StatusOK, orders)
}

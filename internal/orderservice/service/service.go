package service

import (
	"context"
	"fmt"
	"time"

	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/metrics"
	"restaurant-site/pkg/models"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.NewOrder) (int64, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
}

type OrderService struct {
	repo      OrderRepository
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewOrderService wires the order pipeline. publisher may be nil when
// notifications are disabled.
func NewOrderService(repo OrderRepository, publisher Publisher, m *metrics.Metrics, logger *logger.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrder stores a validated order. The client-computed total is kept as
// sent; a mismatch with the items is only logged and counted.
func (s *OrderService) CreateOrder(ctx context.Context, order models.NewOrder, requestID string) (int64, error) {
	log := s.logger.RequestID(requestID)

	if sum := models.ItemsTotal(order.OrderItems); !sum.Equal(order.TotalAmount) {
		s.metrics.OrderTotalMismatch.Inc()
		log.Action("order_total_mismatch").Warn("Order total differs from the sum of its items",
			"total_amount", order.TotalAmount.String(), "items_total", sum.String())
	}

	orderID, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		log.Action("order_creation_failed").Error("Failed to create order in database", err)
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	s.metrics.OrdersCreated.Inc()
	log.Action("order_created").Debug("Order created", "order_id", orderID)

	if s.publisher != nil {
		n := models.Notification{
			Type:        models.NotificationOrderCreated,
			ID:          orderID,
			TotalAmount: order.TotalAmount,
			Items:       len(order.OrderItems),
			RequestID:   requestID,
			Timestamp:   time.Now().UTC(),
		}
		if order.CustomerName != nil {
			n.Customer = *order.CustomerName
		}
		// The order is stored; a broker failure must not fail the request.
		if err := s.publisher.Publish(ctx, n); err != nil {
			log.Action("message_publishing_failed").Error("Failed to publish order notification", err)
		}
	}

	return orderID, nil
}

func (s *OrderService) ListOrders(ctx context.Context, requestID string) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		s.logger.RequestID(requestID).Action("db_query_failed").Error("Failed to list orders", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

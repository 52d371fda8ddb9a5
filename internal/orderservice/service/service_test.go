package service

import (
	"context"
	"errors"
	"testing"

	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/metrics"
	"restaurant-site/pkg/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created []models.NewOrder
	err     error
}

func (f *fakeRepo) CreateOrder(ctx context.Context, order models.NewOrder) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, order)
	return int64(len(f.created)), nil
}

func (f *fakeRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	return nil, f.err
}

type fakePublisher struct {
	sent []models.Notification
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, n models.Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

func newOrder(total int64) models.NewOrder {
	name := "Anna"
	return models.NewOrder{
		CustomerName: &name,
		OrderItems:   []models.OrderItem{{ID: 1, Name: "Momo", Price: 8, Quantity: 2}},
		TotalAmount:  decimal.NewFromInt(total),
	}
}

func TestCreateOrderPublishesNotification(t *testing.T) {
	repo, pub, m := &fakeRepo{}, &fakePublisher{}, metrics.New()
	svc := NewOrderService(repo, pub, m, logger.Nop())

	id, err := svc.CreateOrder(context.Background(), newOrder(16), "req-1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), id)
	require.Len(t, pub.sent, 1)
	assert.Equal(t, models.NotificationOrderCreated, pub.sent[0].Type)
	assert.Equal(t, "Anna", pub.sent[0].Customer)
	assert.Equal(t, 1, pub.sent[0].Items)
	assert.Equal(t, "req-1", pub.sent[0].RequestID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.OrderTotalMismatch))
}

// The server trusts total_amount from the client: a mismatch is accepted and
// only counted.
func TestCreateOrderAcceptsMismatchedTotal(t *testing.T) {
	repo, m := &fakeRepo{}, metrics.New()
	svc := NewOrderService(repo, nil, m, logger.Nop())

	_, err := svc.CreateOrder(context.Background(), newOrder(99), "")
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.True(t, decimal.NewFromInt(99).Equal(repo.created[0].TotalAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderTotalMismatch))
}

func TestCreateOrderIgnoresPublishFailure(t *testing.T) {
	svc := NewOrderService(&fakeRepo{}, &fakePublisher{err: errors.New("broker down")}, metrics.New(), logger.Nop())

	_, err := svc.CreateOrder(context.Background(), newOrder(16), "")
	assert.NoError(t, err)
}

func TestCreateOrderWrapsStoreFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	pub := &fakePublisher{}
	svc := NewOrderService(&fakeRepo{err: storeErr}, pub, metrics.New(), logger.Nop())

	_, err := svc.CreateOrder(context.Background(), newOrder(16), "")
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, pub.sent)
}

func TestListOrdersWrapsStoreFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewOrderService(&fakeRepo{err: storeErr}, nil, metrics.New(), logger.Nop())

	_, err := svc.ListOrders(context.Background(), "")
	assert.ErrorIs(t, err, storeErr)
}

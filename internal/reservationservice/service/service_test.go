package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/metrics"
	"restaurant-site/pkg/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created []models.NewReservation
	err     error
}

func (f *fakeRepo) CreateReservation(ctx context.Context, res models.NewReservation) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, res)
	return int64(len(f.created)), nil
}

func (f *fakeRepo) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	return nil, f.err
}

type fakePublisher struct {
	sent []models.Notification
}

func (f *fakePublisher) Publish(ctx context.Context, n models.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

func newReservation() models.NewReservation {
	name := "Ravi"
	return models.NewReservation{
		Name:   &name,
		Date:   time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC),
		Time:   "19:30",
		Guests: 4,
	}
}

func TestCreateReservation(t *testing.T) {
	repo, pub, m := &fakeRepo{}, &fakePublisher{}, metrics.New()
	svc := NewReservationService(repo, pub, m, logger.Nop())

	id, err := svc.CreateReservation(context.Background(), newReservation(), "req-7")
	require.NoError(t, err)

	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsCreated))
	require.Len(t, pub.sent, 1)
	assert.Equal(t, models.Notification{
		Type:      models.NotificationReservationCreated,
		ID:        1,
		Customer:  "Ravi",
		Date:      "2030-05-01",
		Time:      "19:30",
		Guests:    4,
		RequestID: "req-7",
		Timestamp: pub.sent[0].Timestamp,
	}, pub.sent[0])
}

func TestCreateReservationWrapsStoreFailure(t *testing.T) {
	storeErr := errors.New("deadlock detected")
	pub, m := &fakePublisher{}, metrics.New()
	svc := NewReservationService(&fakeRepo{err: storeErr}, pub, m, logger.Nop())

	_, err := svc.CreateReservation(context.Background(), newReservation(), "")
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, pub.sent)
	assert.Zero(t, testutil.ToFloat64(m.ReservationsCreated))
}

func TestListReservationsNeverNil(t *testing.T) {
	svc := NewReservationService(&fakeRepo{}, nil, metrics.New(), logger.Nop())

	got, err := svc.ListReservations(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

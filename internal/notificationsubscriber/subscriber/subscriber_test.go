package subscriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"restaurant-site/internal/notificationsubscriber/notifier"
	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type channelSource struct {
	ch  chan amqp.Delivery
	err error
}

func (c *channelSource) Subscribe() (<-chan amqp.Delivery, error) {
	return c.ch, c.err
}

func delivery(t *testing.T, n models.Notification) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(n)
	require.NoError(t, err)
	return amqp.Delivery{Body: body}
}

func TestSubscriberDisplaysUntilChannelCloses(t *testing.T) {
	var out bytes.Buffer
	src := &channelSource{ch: make(chan amqp.Delivery, 3)}
	src.ch <- delivery(t, models.Notification{Type: models.NotificationOrderCreated, ID: 1, Items: 1})
	src.ch <- amqp.Delivery{Body: []byte("garbage")}
	src.ch <- delivery(t, models.Notification{Type: models.NotificationReservationCreated, ID: 2, Guests: 2, Date: "2030-05-01", Time: "12:00"})
	close(src.ch)

	sub := NewNotificationSubscriber(src, notifier.NewNotifier(&out), logger.Nop())
	err := sub.Start(context.Background())

	assert.ErrorIs(t, err, ErrChannelClosed)
	assert.Equal(t,
		"New order #1 from guest: 1 item(s), total 0.00\n"+
			"New reservation #2 for guest: 2 guest(s) on 2030-05-01 at 12:00\n",
		out.String())
}

func TestSubscriberStopsOnCancel(t *testing.T) {
	src := &channelSource{ch: make(chan amqp.Delivery)}
	sub := NewNotificationSubscriber(src, notifier.NewNotifier(&bytes.Buffer{}), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sub.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestSubscriberSubscribeFailure(t *testing.T) {
	brokerErr := errors.New("channel/connection is not open")
	sub := NewNotificationSubscriber(&channelSource{err: brokerErr}, notifier.NewNotifier(&bytes.Buffer{}), logger.Nop())
	assert.ErrorIs(t, sub.Start(context.Background()), brokerErr)
}

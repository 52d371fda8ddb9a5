package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"restaurant-site/internal/notificationsubscriber/notifier"
	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrChannelClosed = errors.New("message channel closed")

// Source hands out deliveries from the notifications exchange.
type Source interface {
	Subscribe() (<-chan amqp.Delivery, error)
}

type NotificationSubscriber struct {
	source   Source
	notifier *notifier.Notifier
	logger   *logger.Logger
}

func NewNotificationSubscriber(source Source, n *notifier.Notifier, logger *logger.Logger) *NotificationSubscriber {
	return &NotificationSubscriber{
		source:   source,
		notifier: n,
		logger:   logger,
	}
}

// Start displays every notification until ctx is done or the broker closes
// the channel.
func (s *NotificationSubscriber) Start(ctx context.Context) error {
	messages, err := s.source.Subscribe()
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	s.logger.Action("subscriber_started").Info("Notification subscriber started successfully")
	return s.consume(ctx, messages)
}

func (s *NotificationSubscriber) consume(ctx context.Context, messages <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return ErrChannelClosed
			}
			if err := s.processMessage(msg.Body); err != nil {
				s.logger.Action("process_failed").Error("Failed to process message", err)
			}
		}
	}
}

func (s *NotificationSubscriber) processMessage(body []byte) error {
	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("failed to decode notification: %w", err)
	}

	if err := s.notifier.DisplayNotification(n); err != nil {
		return err
	}

	s.logger.RequestID(n.RequestID).Action("notification_displayed").
		Debug("Displayed notification", "type", n.Type, "id", n.ID)
	return nil
}

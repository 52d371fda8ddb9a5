package notifier

import (
	"fmt"
	"io"
	"time"

	"restaurant-site/pkg/models"
)

type Notifier struct {
	out io.Writer
}

func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{
		out: out,
	}
}

// Format renders n as a single line for staff.
func Format(n models.Notification) (string, error) {
	customer := n.Customer
	if customer == "" {
		customer = "guest"
	}

	var message string
	switch n.Type {
	case models.NotificationOrderCreated:
		message = fmt.Sprintf("New order #%d from %s: %d item(s), total %s",
			n.ID, customer, n.Items, n.TotalAmount.StringFixed(2))
	case models.NotificationReservationCreated:
		message = fmt.Sprintf("New reservation #%d for %s: %d guest(s) on %s at %s",
			n.ID, customer, n.Guests, n.Date, n.Time)
	default:
		return "", fmt.Errorf("unknown notification type %q", n.Type)
	}

	if !n.Timestamp.IsZero() {
		message += fmt.Sprintf(" (%s)", n.Timestamp.Format(time.RFC3339))
	}
	return message, nil
}

func (n *Notifier) DisplayNotification(notification models.Notification) error {
	message, err := Format(notification)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(n.out, message)
	return err
}

package client

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingFields       = errors.New("required fields are missing")
	ErrInPast              = errors.New("reservation is in the past")
	ErrOutsideServiceHours = errors.New("reservation is outside service hours")
	ErrEmptyCart           = errors.New("cart is empty")
)

// ServiceWindow is the [Opening, Closing) range of hours in which a
// reservation may start.
type ServiceWindow struct {
	Opening int
	Closing int
}

var DefaultServiceWindow = ServiceWindow{Opening: 11, Closing: 22}

type ServiceHoursError struct {
	Window ServiceWindow
	Hour   int
}

func (e *ServiceHoursError) Error() string {
	return fmt.Sprintf("%s: %02d:00 is not within %02d:00-%02d:00",
		ErrOutsideServiceHours, e.Hour, e.Window.Opening, e.Window.Closing)
}

func (e *ServiceHoursError) Is(target error) bool {
	return target == ErrOutsideServiceHours
}

// ValidateReservation checks a reservation form before it is sent: every
// required field is set, the slot is not before now and it starts within
// window. Date and time are read in now's location.
func ValidateReservation(form ReservationForm, now time.Time, window ServiceWindow) error {
	if form.Guests <= 0 || strings.TrimSpace(form.Date) == "" || strings.TrimSpace(form.Time) == "" {
		return ErrMissingFields
	}

	at, err := reservationTime(form.Date, form.Time, now.Location())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	if at.Before(now) {
		return ErrInPast
	}
	if at.Hour() < window.Opening || at.Hour() >= window.Closing {
		return &ServiceHoursError{Window: window, Hour: at.Hour()}
	}
	return nil
}

func reservationTime(date, clock string, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if at, err := time.ParseInLocation(layout, value, loc); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q", value)
}

// ValidateOrder rejects an order without items.
func ValidateOrder(form OrderForm) error {
	if len(form.Items) == 0 {
		return ErrEmptyCart
	}
	return nil
}

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Describe turns err into the banner message shown to a visitor.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		apiErr   *APIError
		hoursErr *ServiceHoursError
	)
	switch {
	case errors.As(err, &apiErr):
		return describeStatus(apiErr.Status)
	case errors.Is(err, ErrTimeout):
		return "The request timed out. Please try again."
	case errors.Is(err, ErrUnreachable):
		return "Cannot reach the server. Check your connection."
	case errors.Is(err, ErrMissingFields):
		return "Please fill in all required fields."
	case errors.Is(err, ErrInPast):
		return "The reservation date cannot be in the past."
	case errors.As(err, &hoursErr):
		return fmt.Sprintf("Reservations are possible between %02d:00 and %02d:00.", hoursErr.Window.Opening, hoursErr.Window.Closing)
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty."
	default:
		return "Something went wrong while preparing the request."
	}
}

func describeStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid data submitted. Please check your details."
	case http.StatusUnauthorized:
		return "Session expired. Please log in again."
	case http.StatusForbidden:
		return "Access denied."
	case http.StatusNotFound:
		return "Service not available."
	case http.StatusConflict:
		return "Conflicts with an existing entry."
	case http.StatusInternalServerError:
		return "Server error. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}

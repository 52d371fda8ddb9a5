package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

type Order struct {
	ID            int64           `json:"id"`
	CustomerName  *string         `json:"customer_name"`
	CustomerEmail *string         `json:"customer_email"`
	CustomerPhone *string         `json:"customer_phone"`
	OrderItems    []OrderItem     `json:"order_items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID          int64   `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
}

// NewOrder is a validated order ready to be stored.
type NewOrder struct {
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	OrderItems    []OrderItem
	TotalAmount   decimal.Decimal
}

// ItemsTotal sums price×quantity over the items.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

type Reservation struct {
	ID     int64   `json:"id"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Date   string  `json:"date"`
	Time   string  `json:"time"`
	Guests int     `json:"guests"`
	Status string  `json:"status"`
}

// NewReservation is a validated reservation ready to be stored.
type NewReservation struct {
	Name   *string
	Email  *string
	Phone  *string
	Date   time.Time
	Time   string
	Guests int
}

const ReservationStatusPending = "pending"

type User struct {
	ID       int64
	Username string
	Password string
}

type CreateOrderRequest struct {
	CustomerName  *string         `json:"customer_name,omitempty"`
	CustomerEmail *string         `json:"customer_email,omitempty"`
	CustomerPhone *string         `json:"customer_phone,omitempty"`
	OrderItems    json.RawMessage `json:"order_items"`
	TotalAmount   json.RawMessage `json:"total_amount"`
}

type CreateOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
}

type CreateReservationRequest struct {
	Name   *string         `json:"name,omitempty"`
	Email  *string         `json:"email,omitempty"`
	Phone  *string         `json:"phone,omitempty"`
	Date   string          `json:"date"`
	Time   string          `json:"time"`
	Guests json.RawMessage `json:"guests"`
}

type CreateReservationResponse struct {
	Message       string `json:"message"`
	ReservationID int64  `json:"reservationId"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

const (
	NotificationOrderCreated       = "order.created"
	NotificationReservationCreated = "reservation.created"
)

// Notification is published on the notifications exchange whenever an order
// or a reservation is stored.
type Notification struct {
	Type        string          `json:"type"`
	ID          int64           `json:"id"`
	Customer    string          `json:"customer,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount,omitempty"`
	Items       int             `json:"items,omitempty"`
	Date        string          `json:"date,omitempty"`
	Time        string          `json:"time,omitempty"`
	Guests      int             `json:"guests,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

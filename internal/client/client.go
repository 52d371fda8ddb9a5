// Package client talks to the site API the way the browser pages do.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"restaurant-site/internal/cart"
	"restaurant-site/pkg/models"
	"restaurant-site/pkg/validation"

	"github.com/shopspring/decimal"
)

const DefaultTimeout = 5 * time.Second

var (
	ErrTimeout     = errors.New("request timed out")
	ErrUnreachable = errors.New("cannot reach server")
)

// APIError is a response with a 4xx or 5xx status.
type APIError struct {
	Status  int
	Message string
	Fields  validation.Errors
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Fields.Error())
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithTimeout bounds every single request attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login exchanges credentials for an access token and keeps it for later
// requests.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", models.LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	c.SetToken(resp.AccessToken)
	return resp.AccessToken, nil
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

type OrderForm struct {
	Customer Customer
	Items    []models.OrderItem
	Total    decimal.Decimal
}

// OrderFormFromCart snapshots the cart contents and total.
func OrderFormFromCart(customer Customer, c *cart.Cart) OrderForm {
	return OrderForm{
		Customer: customer,
		Items:    c.Items(),
		Total:    c.Total(),
	}
}

type orderPayload struct {
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	OrderItems    []models.OrderItem `json:"order_items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
}

func (c *Client) PlaceOrder(ctx context.Context, form OrderForm) (int64, error) {
	payload := orderPayload{
		CustomerName:  form.Customer.Name,
		CustomerEmail: form.Customer.Email,
		CustomerPhone: form.Customer.Phone,
		OrderItems:    form.Items,
		TotalAmount:   form.Total,
	}
	if payload.OrderItems == nil {
		payload.OrderItems = []models.OrderItem{}
	}

	var resp models.CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", payload, &resp); err != nil {
		return 0, err
	}
	return resp.OrderID, nil
}

type ReservationForm struct {
	Customer Customer
	Date     string
	Time     string
	Guests   int
}

type reservationPayload struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Guests int    `json:"guests"`
}

func (c *Client) CreateReservation(ctx context.Context, form ReservationForm) (int64, error) {
	payload := reservationPayload{
		Name:   form.Customer.Name,
		Email:  form.Customer.Email,
		Phone:  form.Customer.Phone,
		Date:   form.Date,
		Time:   form.Time,
		Guests: form.Guests,
	}

	var resp models.CreateReservationResponse
	if err := c.do(ctx, http.MethodPost, "/api/reservations", payload, &resp); err != nil {
		return 0, err
	}
	return resp.ReservationID, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := c.do(ctx, http.MethodGet, "/api/reservations", nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

type errorBody struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	attemptCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(ctx, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Message = eb.Message
			apiErr.Fields = eb.Errors
		}
		if apiErr.Message == "" && len(apiErr.Fields) == 0 {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// transportError classifies a failure that produced no response. The
// caller's own cancellation is returned as is.
func transportError(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

package db

import (
	"context"
	"encoding/json"
	"fmt"

	"restaurant-site/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type OrderDB struct {
	dbPool *pgxpool.Pool
}

func NewOrderDB(dbPool *pgxpool.Pool) *OrderDB {
	return &OrderDB{
		dbPool: dbPool,
	}
}

// CreateOrder stores the order with its items serialised as JSON text and
// returns the generated id.
func (d *OrderDB) CreateOrder(ctx context.Context, order models.NewOrder) (int64, error) {
	items, err := json.Marshal(order.OrderItems)
	if err != nil {
		return 0, fmt.Errorf("failed to encode order items: %w", err)
	}

	var orderID int64
	err = d.dbPool.QueryRow(ctx, `
        INSERT INTO orders (customer_name, customer_email, customer_phone, order_items, total_amount)
        VALUES ($1, $2, $3, $4, $5::numeric)
        RETURNING id
    `, order.CustomerName, order.CustomerEmail, order.CustomerPhone, string(items), order.TotalAmount.String()).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	return orderID, nil
}

// ListOrders returns every order, newest first, with items decoded.
func (d *OrderDB) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := d.dbPool.Query(ctx, `
        SELECT id, customer_name, customer_email, customer_phone, order_items, total_amount::text, created_at
        FROM orders
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var (
			order models.Order
			items string
			total string
		)
		err := rows.Scan(
			&order.ID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
			&items, &total, &order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if err := json.Unmarshal([]byte(items), &order.OrderItems); err != nil {
			return nil, fmt.Errorf("order %d: failed to decode items: %w", order.ID, err)
		}
		if order.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("order %d: failed to parse total: %w", order.ID, err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

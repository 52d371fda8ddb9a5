package db

import (
	"context"
	"fmt"

	"restaurant-site/pkg/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationDB struct {
	dbPool *pgxpool.Pool
}

func NewReservationDB(dbPool *pgxpool.Pool) *ReservationDB {
	return &ReservationDB{
		dbPool: dbPool,
	}
}

// CreateReservation stores a pending reservation and returns its id.
func (d *ReservationDB) CreateReservation(ctx context.Context, res models.NewReservation) (int64, error) {
	var id int64
	err := d.dbPool.QueryRow(ctx, `
        INSERT INTO reservations (name, email, phone, date, time, guests, status)
        VALUES ($1, $2, $3, $4::date, $5, $6, $7)
        RETURNING id
    `, res.Name, res.Email, res.Phone, res.Date.Format("2006-01-02"), res.Time, res.Guests,
		models.ReservationStatusPending).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reservation: %w", err)
	}
	return id, nil
}

// ListReservations returns every reservation in insertion order.
func (d *ReservationDB) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	rows, err := d.dbPool.Query(ctx, `
        SELECT id, name, email, phone, to_char(date, 'YYYY-MM-DD'), time, guests, status
        FROM reservations
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	reservations := []models.Reservation{}
	for rows.Next() {
		var r models.Reservation
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.Date, &r.Time, &r.Guests, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, r)
	}

	return reservations, rows.Err()
}

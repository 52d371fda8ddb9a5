package admin

import (
	"context"
	"errors"
	"fmt"

	"restaurant-site/pkg/models"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

type Source interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListReservations(ctx context.Context) ([]models.Reservation, error)
}

// View is the staff dashboard: both listings and the error, if any, of the
// last load of each.
type View struct {
	Orders          *Listing
	Reservations    *Listing
	OrdersErr       error
	ReservationsErr error
}

func NewView(tag language.Tag) *View {
	return &View{
		Orders:       NewOrderListing(tag),
		Reservations: NewReservationListing(tag),
	}
}

// Load fetches both lists concurrently. A failed list keeps its previous
// records and reports its error; it never prevents the other list from
// loading. The returned error joins both failures.
func (v *View) Load(ctx context.Context, src Source) error {
	var (
		orders       []models.Order
		reservations []models.Reservation
		ordersErr    error
		resErr       error
		g            errgroup.Group
	)

	g.Go(func() error {
		orders, ordersErr = src.ListOrders(ctx)
		return nil
	})
	g.Go(func() error {
		reservations, resErr = src.ListReservations(ctx)
		return nil
	})
	_ = g.Wait()

	v.OrdersErr = ordersErr
	if ordersErr == nil {
		records := make([]Record, 0, len(orders))
		for _, o := range orders {
			records = append(records, OrderRecord(o))
		}
		v.Orders.SetRecords(records)
	}

	v.ReservationsErr = resErr
	if resErr == nil {
		records := make([]Record, 0, len(reservations))
		for _, r := range reservations {
			records = append(records, ReservationRecord(r))
		}
		v.Reservations.SetRecords(records)
	}

	var errs []error
	if ordersErr != nil {
		errs = append(errs, fmt.Errorf("orders: %w", ordersErr))
	}
	if resErr != nil {
		errs = append(errs, fmt.Errorf("reservations: %w", resErr))
	}
	return errors.Join(errs...)
}

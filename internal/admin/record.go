// Package admin filters, sorts and paginates the order and reservation
// lists shown to staff.
package admin

import (
	"fmt"
	"strconv"
	"time"

	"restaurant-site/pkg/models"

	"github.com/shopspring/decimal"
)

// Record is one row of a listing: its scalar fields by column key. Nested
// values such as order items are left out so they never match a filter.
type Record map[string]any

type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindTime
)

type Column struct {
	Key   string
	Title string
	Kind  Kind
}

var OrderColumns = []Column{
	{Key: "id", Title: "ID", Kind: KindNumber},
	{Key: "customer_name", Title: "Name", Kind: KindString},
	{Key: "customer_email", Title: "Email", Kind: KindString},
	{Key: "customer_phone", Title: "Phone", Kind: KindString},
	{Key: "total_amount", Title: "Total", Kind: KindNumber},
	{Key: "created_at", Title: "Placed", Kind: KindTime},
}

var ReservationColumns = []Column{
	{Key: "id", Title: "ID", Kind: KindNumber},
	{Key: "name", Title: "Name", Kind: KindString},
	{Key: "email", Title: "Email", Kind: KindString},
	{Key: "phone", Title: "Phone", Kind: KindString},
	{Key: "date", Title: "Date", Kind: KindTime},
	{Key: "time", Title: "Time", Kind: KindString},
	{Key: "guests", Title: "Guests", Kind: KindNumber},
}

func OrderRecord(o models.Order) Record {
	return Record{
		"id":             o.ID,
		"customer_name":  deref(o.CustomerName),
		"customer_email": deref(o.CustomerEmail),
		"customer_phone": deref(o.CustomerPhone),
		"total_amount":   o.TotalAmount,
		"created_at":     o.CreatedAt,
	}
}

func ReservationRecord(r models.Reservation) Record {
	return Record{
		"id":     r.ID,
		"name":   deref(r.Name),
		"email":  deref(r.Email),
		"phone":  deref(r.Phone),
		"date":   r.Date,
		"time":   r.Time,
		"guests": r.Guests,
		"status": r.Status,
	}
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Text is the string form of a field value, as matched by filters and shown
// in tables.
func Text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case decimal.Decimal:
		return v.StringFixed(2)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func number(v any) (decimal.Decimal, bool) {
	switch v := v.(type) {
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case float64:
		return decimal.NewFromFloat(v), true
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func instant(v any) (time.Time, bool) {
	switch v := v.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

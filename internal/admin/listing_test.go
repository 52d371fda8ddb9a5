package admin

import (
	"fmt"
	"testing"
	"time"

	"restaurant-site/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func strp(s string) *string { return &s }

func reservations(n int) []Record {
	out := make([]Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, ReservationRecord(models.Reservation{
			ID:     int64(i),
			Name:   strp(fmt.Sprintf("Guest %02d", i)),
			Date:   time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n-i).Format(time.DateOnly),
			Time:   "19:00",
			Guests: i,
			Status: models.ReservationStatusPending,
		}))
	}
	return out
}

func ids(records []Record) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r["id"].(int64))
	}
	return out
}

func TestSortToggle(t *testing.T) {
	s := Sort{Key: "date", Direction: Asc}

	s = s.Toggle("date")
	assert.Equal(t, Sort{Key: "date", Direction: Desc}, s)

	s = s.Toggle("date")
	assert.Equal(t, Sort{Key: "date", Direction: Asc}, s)

	s = s.Toggle("date").Toggle("guests")
	assert.Equal(t, Sort{Key: "guests", Direction: Asc}, s)
}

func TestReservationDefaultSortIsChronological(t *testing.T) {
	l := NewReservationListing(language.English)
	l.SetRecords(reservations(3))

	assert.Equal(t, []int64{3, 2, 1}, ids(l.Page()))

	l.Toggle("date")
	assert.Equal(t, []int64{1, 2, 3}, ids(l.Page()))
}

func TestNumericSort(t *testing.T) {
	l := NewReservationListing(language.English)
	records := reservations(12)
	l.SetRecords(records)

	l.Toggle("guests")
	require.Equal(t, 2, l.PageCount())
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(l.Page()), "10 must sort after 9")

	l.Toggle("guests")
	assert.Equal(t, []int64{12, 11, 10, 9, 8, 7, 6, 5, 4, 3}, ids(l.Page()))
}

func TestOrderSortByDecimalTotalAndTime(t *testing.T) {
	base := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewOrderListing(language.English)
	l.SetRecords([]Record{
		OrderRecord(models.Order{ID: 1, TotalAmount: decimal.RequireFromString("9.50"), CreatedAt: base}),
		OrderRecord(models.Order{ID: 2, TotalAmount: decimal.RequireFromString("100"), CreatedAt: base.Add(time.Hour)}),
		OrderRecord(models.Order{ID: 3, TotalAmount: decimal.RequireFromString("12"), CreatedAt: base.Add(-time.Hour)}),
	})

	assert.Equal(t, []int64{2, 1, 3}, ids(l.Page()), "newest first by default")

	l.Toggle("total_amount")
	assert.Equal(t, []int64{1, 3, 2}, ids(l.Page()))
}

func TestLocaleAwareStringSort(t *testing.T) {
	l := NewReservationListing(language.French)
	l.SetRecords([]Record{
		ReservationRecord(models.Reservation{ID: 1, Name: strp("Zoé"), Date: "2030-05-01"}),
		ReservationRecord(models.Reservation{ID: 2, Name: strp("élodie"), Date: "2030-05-01"}),
		ReservationRecord(models.Reservation{ID: 3, Name: strp("Eric"), Date: "2030-05-01"}),
		ReservationRecord(models.Reservation{ID: 4, Name: strp("adam"), Date: "2030-05-01"}),
	})

	l.Toggle("name")
	assert.Equal(t, []int64{4, 2, 3, 1}, ids(l.Page()))
}

func TestFilterMatchesScalarFieldsOnly(t *testing.T) {
	l := NewOrderListing(language.English)
	l.SetRecords([]Record{
		OrderRecord(models.Order{ID: 1, CustomerName: strp("Anna"), OrderItems: []models.OrderItem{{ID: 5, Name: "Momo"}}, TotalAmount: decimal.NewFromInt(8)}),
		OrderRecord(models.Order{ID: 2, CustomerEmail: strp("MOMO.fan@example.com"), TotalAmount: decimal.NewFromInt(16)}),
	})

	l.SetFilter("momo")
	assert.Equal(t, []int64{2}, ids(l.Page()), "order items are not searched")

	l.SetFilter("ANN")
	assert.Equal(t, []int64{1}, ids(l.Page()))

	l.SetFilter("16.00")
	assert.Equal(t, []int64{2}, ids(l.Page()))

	l.SetFilter("")
	assert.Equal(t, 2, l.Len())
}

func TestPagination(t *testing.T) {
	l := NewReservationListing(language.English)
	l.SetRecords(reservations(25))

	assert.Equal(t, 3, l.PageCount())
	assert.Equal(t, 1, l.PageNumber())
	assert.False(t, l.HasPrev())
	assert.True(t, l.HasNext())
	assert.Len(t, l.Page(), 10)

	l.NextPage()
	l.NextPage()
	l.NextPage()
	assert.Equal(t, 3, l.PageNumber())
	assert.False(t, l.HasNext())
	assert.Len(t, l.Page(), 5)

	l.SetFilter("Guest 0")
	assert.Equal(t, 9, l.Len())
	assert.Equal(t, 1, l.PageNumber(), "page is clamped when the filtered set shrinks")
	assert.False(t, l.HasPrev())
	assert.False(t, l.HasNext())

	l.SetFilter("nobody")
	assert.Equal(t, 1, l.PageCount())
	assert.Empty(t, l.Page())

	l.PrevPage()
	assert.Equal(t, 1, l.PageNumber())
}

func TestPagesAreIndependent(t *testing.T) {
	v := NewView(language.English)
	v.Reservations.SetRecords(reservations(30))
	v.Orders.SetRecords(reservations(30))

	v.Reservations.SetPage(3)
	assert.Equal(t, 3, v.Reservations.PageNumber())
	assert.Equal(t, 1, v.Orders.PageNumber())
}

// Package export writes orders and reservations to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"restaurant-site/pkg/models"

	"github.com/xuri/excelize/v2"
)

const (
	OrdersSheet       = "Orders"
	ReservationsSheet = "Reservations"
)

var (
	orderHeaders       = []string{"ID", "Name", "Email", "Phone", "Items", "Total", "Placed"}
	reservationHeaders = []string{"ID", "Name", "Email", "Phone", "Date", "Time", "Guests", "Status"}
)

// Write renders both lists as sheets of one workbook.
func Write(w io.Writer, orders []models.Order, reservations []models.Reservation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OrdersSheet); err != nil {
		return fmt.Errorf("error renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(ReservationsSheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("error creating style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("error creating style: %w", err)
	}

	orderRows := make([][]any, 0, len(orders))
	for _, o := range orders {
		total, _ := o.TotalAmount.Float64()
		orderRows = append(orderRows, []any{
			o.ID, str(o.CustomerName), str(o.CustomerEmail), str(o.CustomerPhone),
			itemsSummary(o.OrderItems), total, o.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	if err := writeSheet(f, OrdersSheet, orderHeaders, orderRows, headerStyle); err != nil {
		return err
	}
	if len(orderRows) > 0 {
		last := fmt.Sprintf("F%d", len(orderRows)+1)
		if err := f.SetCellStyle(OrdersSheet, "F2", last, moneyStyle); err != nil {
			return err
		}
	}

	resRows := make([][]any, 0, len(reservations))
	for _, r := range reservations {
		resRows = append(resRows, []any{
			r.ID, str(r.Name), str(r.Email), str(r.Phone), r.Date, r.Time, r.Guests, r.Status,
		})
	}
	if err := writeSheet(f, ReservationsSheet, reservationHeaders, resRows, headerStyle); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error writing %s row %d: %w", sheet, r+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func itemsSummary(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%d× %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

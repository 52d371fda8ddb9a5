package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"restaurant-site/pkg/models"
	"restaurant-site/pkg/validation"

	"github.com/shopspring/decimal"
)

// ErrEmptyItems is returned for a well-formed order without any item.
var ErrEmptyItems = errors.New("order items cannot be empty")

// maxTotal is the first amount a NUMERIC(10,2) column cannot hold.
var maxTotal = decimal.New(1, 8)

type OrderValidator struct{}

func NewOrderValidator() *OrderValidator {
	return &OrderValidator{}
}

// Validate checks the request shape and returns the order to store. Schema
// problems are reported together as validation.Errors; an empty item list is
// reported afterwards as ErrEmptyItems.
func (v *OrderValidator) Validate(req *models.CreateOrderRequest) (models.NewOrder, error) {
	var errs validation.Errors

	items, itemErrs := v.parseItems(req.OrderItems)
	errs = append(errs, itemErrs...)

	total, err := v.parseTotal(req.TotalAmount)
	switch {
	case err != nil:
		errs = append(errs, validation.Field("total_amount", rawValue(req.TotalAmount), "total_amount must be a number"))
	case total.Abs().GreaterThanOrEqual(maxTotal):
		errs = append(errs, validation.Field("total_amount", rawValue(req.TotalAmount), "total_amount must be less than "+maxTotal.String()))
	case !total.Equal(total.Truncate(2)):
		errs = append(errs, validation.Field("total_amount", rawValue(req.TotalAmount), "total_amount must have at most 2 decimal places"))
	}

	order := models.NewOrder{
		CustomerName:  optional(req.CustomerName),
		CustomerEmail: optional(req.CustomerEmail),
		CustomerPhone: optional(req.CustomerPhone),
		OrderItems:    items,
		TotalAmount:   total,
	}
	for _, f := range []struct {
		path  string
		value *string
		max   int
	}{
		{"customer_name", order.CustomerName, validation.MaxNameLength},
		{"customer_email", order.CustomerEmail, validation.MaxEmailLength},
		{"customer_phone", order.CustomerPhone, validation.MaxPhoneLength},
	} {
		if fe, tooLong := validation.Length(f.path, f.value, f.max); tooLong {
			errs = append(errs, fe)
		}
	}

	if len(errs) > 0 {
		return models.NewOrder{}, errs
	}
	if len(items) == 0 {
		return models.NewOrder{}, ErrEmptyItems
	}
	return order, nil
}

func (v *OrderValidator) parseItems(raw json.RawMessage) ([]models.OrderItem, validation.Errors) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, validation.Errors{validation.Field("order_items", rawValue(raw), "order_items must be an array")}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, validation.Errors{validation.Field("order_items", nil, "order_items must be an array")}
	}

	var errs validation.Errors
	items := make([]models.OrderItem, 0, len(elems))
	for i, elem := range elems {
		path := fmt.Sprintf("order_items[%d]", i)

		var item models.OrderItem
		if err := json.Unmarshal(elem, &item); err != nil {
			errs = append(errs, validation.Field(path, rawValue(elem), "must be an object with id, name, price and quantity"))
			continue
		}
		if itemErrs := validation.Struct(path, item); len(itemErrs) > 0 {
			errs = append(errs, itemErrs...)
			continue
		}
		items = append(items, item)
	}
	return items, errs
}

func (v *OrderValidator) parseTotal(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, errors.New("missing")
	}

	s := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return decimal.Zero, err
		}
		s = strings.TrimSpace(s)
	}
	return decimal.NewFromString(s)
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func rawValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

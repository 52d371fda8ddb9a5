// Package cart holds the items a visitor selected during one browsing session.
package cart

import (
	"encoding/json"

	"restaurant-site/pkg/models"

	"github.com/shopspring/decimal"
)

// Cart keeps items in the order they were first added. A Cart is owned by a
// single session and is not safe for concurrent use.
type Cart struct {
	items []models.OrderItem
}

func New(items ...models.OrderItem) *Cart {
	c := &Cart{}
	for _, item := range items {
		c.Add(item)
	}
	return c
}

// Add merges item into the cart by id. A zero quantity counts as one.
func (c *Cart) Add(item models.OrderItem) {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity += qty
			return
		}
	}
	item.Quantity = qty
	c.items = append(c.items, item)
}

// Remove drops the item with id and reports whether it was present.
func (c *Cart) Remove(id int64) bool {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the cart contents.
func (c *Cart) Items() []models.OrderItem {
	return append([]models.OrderItem{}, c.items...)
}

func (c *Cart) Total() decimal.Decimal {
	return models.ItemsTotal(c.items)
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []models.OrderItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = Cart{}
	for _, item := range items {
		c.Add(item)
	}
	return nil
}

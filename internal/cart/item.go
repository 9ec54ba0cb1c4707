package cart

import (
	"math"

	"github.com/shopspring/decimal"
)

// Item is one distinct product in the cart. The JSON shape is the storage contract.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price × quantity with exact decimal arithmetic.
func (i Item) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) valid() bool {
	if i.ID == "" || i.Quantity < 1 {
		return false
	}
	return i.Price >= 0 && !math.IsNaN(i.Price) && !math.IsInf(i.Price, 0)
}

// MaxQuantity caps a single line so quantity arithmetic never overflows.
const MaxQuantity = 9999

// TotalQuantity sums quantities across items; this is the badge count.
func TotalQuantity(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums every line total.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

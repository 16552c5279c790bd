// Package cart holds the session-scoped cart state: selected lines, their
// quantities and the active coupon discount. The subtotal is derived on every
// read, never stored.
package cart

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/YousefHatem4/food_storefront/internal/models"
)

// Codes honored by ApplyCoupon. A match sets a flat 10% discount; coupons
// never stack.
var validCoupons = map[string]struct{}{
	"yba24": {},
	"yy21":  {},
	"bb20":  {},
	"aa21":  {},
	"gg21":  {},
	"toka":  {},
}

var couponRate = decimal.NewFromFloat(0.10)

type Cart struct {
	mu           sync.Mutex
	lines        []models.CartLine
	discountRate decimal.Decimal
}

func New() *Cart {
	return &Cart{}
}

// Add merges the line into the cart. An existing line with the same item id
// has its quantity incremented by the incoming quantity (1 when unset);
// otherwise the line is appended, preserving insertion order.
func (c *Cart) Add(line models.CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == line.ItemID {
			c.lines[i].Quantity += line.Quantity
			return
		}
	}
	c.lines = append(c.lines, line)
}

// UpdateQuantity sets the exact quantity of the line with the given item id.
// A quantity of zero or less removes the line. Absent ids are a no-op.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return
	}
}

// Clear empties the cart and resets any applied coupon.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	c.discountRate = decimal.Zero
}

// Lines returns a snapshot copy of the cart lines.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Subtotal is recomputed on every call as the sum of price times quantity
// over the current lines.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

func (c *Cart) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.lines {
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// ApplyCoupon checks the code against the allow-list, ignoring case. A valid
// code sets the discount rate to 10%; an invalid one resets it to zero. The
// last application always wins.
func (c *Cart) ApplyCoupon(code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := validCoupons[strings.ToLower(code)]; ok {
		c.discountRate = couponRate
		return true
	}
	c.discountRate = decimal.Zero
	return false
}

func (c *Cart) DiscountRate() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discountRate
}

// Discount is the subtotal share removed by the active coupon.
func (c *Cart) Discount() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked().Mul(c.discountRate)
}

// Total is the subtotal minus the coupon discount.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := c.subtotalLocked()
	return sub.Sub(sub.Mul(c.discountRate))
}

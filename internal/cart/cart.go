package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps a single line. Larger quantities are rejected rather
// than allowed to overflow the totals.
const MaxLineQuantity = 9999

// Cart is the ordered set of lines owned by one checkout session.
// It is not safe for concurrent use; the owning flow serializes access.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem merges the line into an existing line with the same id, summing the
// quantities and keeping every other field of the existing line. Unknown ids
// are appended.
func (c *Cart) AddItem(line Line) error {
	if line.ID == "" {
		return ErrEmptyLineID
	}
	if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}

	if i := c.indexOf(line.ID); i >= 0 {
		if c.lines[i].Quantity > MaxLineQuantity-line.Quantity {
			return ErrInvalidQuantity
		}
		c.lines[i].Quantity += line.Quantity
		return nil
	}

	c.lines = append(c.lines, line)
	return nil
}

// RemoveItem is a no-op for ids not in the cart.
func (c *Cart) RemoveItem(id string) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// UpdateQuantity removes the line when quantity <= 0. Quantities above
// MaxLineQuantity return ErrInvalidQuantity and leave the line unchanged.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(id)
		return nil
	}
	if quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	if i := c.indexOf(id); i >= 0 {
		c.lines[i].Quantity = quantity
	}
	return nil
}

// SetLinePrice overrides the unit price of a line. Non-numeric or negative
// input leaves the cart untouched.
func (c *Cart) SetLinePrice(id string, raw string) error {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return ErrInvalidPrice
	}

	i := c.indexOf(id)
	if i < 0 {
		return ErrLineNotFound
	}

	c.lines[i].Price = price
	return nil
}

func (c *Cart) VerifyWeight(id string, verified bool) {
	if i := c.indexOf(id); i >= 0 {
		c.lines[i].IsWeightVerified = verified
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Line returns a copy of the line with the given id.
func (c *Cart) Line(id string) (Line, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return Line{}, false
	}
	return c.lines[i], true
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.lines)
}

// UnverifiedWeights lists the ids of weighed lines still awaiting a scale check.
func (c *Cart) UnverifiedWeights() []string {
	var ids []string
	for _, l := range c.lines {
		if l.IsWeighed && !l.IsWeightVerified {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Lines:      c.Lines(),
		TotalItems: c.TotalItems(),
		Subtotal:   c.Subtotal(),
	}
}

// Subtotal sums price × quantity over lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

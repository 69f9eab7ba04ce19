// Package book implements the two-sided, price-indexed order book: a FIFO
// PriceLevel per price point, and a Book that maps Price to PriceLevel on
// each side plus an id lookup for O(1) cancel.
package book

import "github.com/aeromatch/internal/obtypes"

// PriceLevel holds every resting order at one exact price, in arrival
// order (index 0 is oldest — next to match). total keeps a running sum of
// Remaining() over the orders it holds; every mutation maintains it.
type PriceLevel struct {
	orders []*obtypes.Order
	total  obtypes.Quantity
}

// Add appends a resting order to the tail of the level.
func (l *PriceLevel) Add(o *obtypes.Order) {
	l.orders = append(l.orders, o)
	l.total += o.Remaining()
}

// Front returns the head (oldest) order. Undefined if the level is empty.
func (l *PriceLevel) Front() *obtypes.Order {
	return l.orders[0]
}

// PopFront removes the head order. It does not touch the cached total —
// callers must ReduceQuantity by the order's actual fill first, since by
// the time an order is popped here its Remaining() is already 0 and can no
// longer tell PopFront how much to subtract.
func (l *PriceLevel) PopFront() {
	if len(l.orders) == 0 {
		return
	}
	l.orders[0] = nil
	l.orders = l.orders[1:]
}

// Remove deletes the first occurrence of o, used only on cancel. Reports
// whether an order was removed.
func (l *PriceLevel) Remove(o *obtypes.Order) bool {
	for i, r := range l.orders {
		if r == o {
			l.total -= r.Remaining()
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return true
		}
	}
	return false
}

// ReduceQuantity decrements the cached total by a fill against the head
// order. Call this on every fill, partial or full, before PopFront.
func (l *PriceLevel) ReduceQuantity(qty obtypes.Quantity) {
	l.total -= qty
}

// IsEmpty reports whether the level holds no orders.
func (l *PriceLevel) IsEmpty() bool {
	return len(l.orders) == 0
}

// OrderCount returns the number of resting orders at this level.
func (l *PriceLevel) OrderCount() int {
	return len(l.orders)
}

// TotalQuantity returns the cached sum of remaining quantity across the level.
func (l *PriceLevel) TotalQuantity() obtypes.Quantity {
	return l.total
}

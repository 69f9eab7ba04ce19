package book

import (
	"fmt"
	"io"

	"github.com/tidwall/btree"

	"github.com/aeromatch/internal/obtypes"
)

// btreeDegree controls the branching factor of the ordered price maps.
// 32 is the value the pack's own tidwall/btree users (Aidin1998-finalex)
// settle on for order-book-sized key sets.
const btreeDegree = 32

// Book is the two-sided, price-indexed order book for a single symbol.
// bids and asks are both stored in ascending key order; bids are read
// highest-first via Reverse, asks lowest-first via Scan, which is exactly
// how tidwall/btree.Map is used for the same purpose in the pack.
type Book struct {
	bids   *btree.Map[obtypes.Price, *PriceLevel]
	asks   *btree.Map[obtypes.Price, *PriceLevel]
	lookup map[obtypes.OrderID]*obtypes.Order
}

// New creates an empty book.
func New() *Book {
	return &Book{
		bids:   btree.NewMap[obtypes.Price, *PriceLevel](btreeDegree),
		asks:   btree.NewMap[obtypes.Price, *PriceLevel](btreeDegree),
		lookup: make(map[obtypes.OrderID]*obtypes.Order),
	}
}

func (b *Book) sideMap(side obtypes.Side) *btree.Map[obtypes.Price, *PriceLevel] {
	if side == obtypes.Buy {
		return b.bids
	}
	return b.asks
}

// AddOrder inserts a resting order into its side's level at order.Price,
// creating the level if absent, and registers it in the id lookup.
func (b *Book) AddOrder(o *obtypes.Order) {
	m := b.sideMap(o.Side)
	level, ok := m.Get(o.Price)
	if !ok {
		level = &PriceLevel{}
		m.Set(o.Price, level)
	}
	level.Add(o)
	b.lookup[o.ID] = o
}

// CancelOrder locates id, removes it from its level (dropping the level if
// it empties) and from the lookup, and returns it. Returns nil if id is
// unknown.
func (b *Book) CancelOrder(id obtypes.OrderID) *obtypes.Order {
	o, ok := b.lookup[id]
	if !ok {
		return nil
	}
	delete(b.lookup, id)

	m := b.sideMap(o.Side)
	if level, ok := m.Get(o.Price); ok {
		level.Remove(o)
		if level.IsEmpty() {
			m.Delete(o.Price)
		}
	}
	return o
}

// RemoveFromLookup erases id from the lookup only. Used by the matching
// engine, which removes the order from a level it is already draining and
// handles that level's cleanup itself.
func (b *Book) RemoveFromLookup(id obtypes.OrderID) {
	delete(b.lookup, id)
}

// BestBid returns the highest resting buy price, if any.
func (b *Book) BestBid() (obtypes.Price, bool) {
	var price obtypes.Price
	found := false
	b.bids.Reverse(func(p obtypes.Price, _ *PriceLevel) bool {
		price, found = p, true
		return false
	})
	return price, found
}

// BestAsk returns the lowest resting sell price, if any.
func (b *Book) BestAsk() (obtypes.Price, bool) {
	var price obtypes.Price
	found := false
	b.asks.Scan(func(p obtypes.Price, _ *PriceLevel) bool {
		price, found = p, true
		return false
	})
	return price, found
}

// BestLevel returns the best (front) level on side and its price, or
// (nil, 0, false) if that side of the book is empty. The matching engine
// uses it to reach the best level and drain that level's head orders
// itself, without raw map iterators being exposed to callers.
func (b *Book) BestLevel(side obtypes.Side) (*PriceLevel, obtypes.Price, bool) {
	m := b.sideMap(side)
	var (
		price obtypes.Price
		level *PriceLevel
		found bool
	)
	scan := func(p obtypes.Price, l *PriceLevel) bool {
		price, level, found = p, l, true
		return false
	}
	if side == obtypes.Buy {
		m.Reverse(scan)
	} else {
		m.Scan(scan)
	}
	return level, price, found
}

// RemoveLevelIfEmpty drops the level at price on side if it has drained,
// called by the matching engine right after it finishes a level so no
// empty level is ever left resting (invariant 4).
func (b *Book) RemoveLevelIfEmpty(side obtypes.Side, price obtypes.Price) {
	m := b.sideMap(side)
	if level, ok := m.Get(price); ok && level.IsEmpty() {
		m.Delete(price)
	}
}

// GetVolumeAtPrice returns the cached total quantity resting at price on
// side, or 0 if no such level exists.
func (b *Book) GetVolumeAtPrice(side obtypes.Side, price obtypes.Price) obtypes.Quantity {
	level, ok := b.sideMap(side).Get(price)
	if !ok {
		return 0
	}
	return level.TotalQuantity()
}

// HasOrder reports whether id is currently resting in the book.
func (b *Book) HasOrder(id obtypes.OrderID) bool {
	_, ok := b.lookup[id]
	return ok
}

// TotalOrderCount returns the number of orders resting across both sides.
func (b *Book) TotalOrderCount() int {
	return len(b.lookup)
}

// BidLevelCount returns the number of distinct bid price levels.
func (b *Book) BidLevelCount() int {
	return b.bids.Len()
}

// AskLevelCount returns the number of distinct ask price levels.
func (b *Book) AskLevelCount() int {
	return b.asks.Len()
}

// Snapshot renders a stable human-readable dump of the book: asks
// highest-to-lowest, a spread marker, then bids highest-to-lowest, each
// line "price | total_qty (n_orders)".
func (b *Book) Snapshot(w io.Writer) {
	fmt.Fprintln(w, "=== ORDER BOOK ===")
	fmt.Fprintln(w, "--- ASKS (highest first) ---")

	type row struct {
		price obtypes.Price
		level *PriceLevel
	}
	var askRows []row
	b.asks.Scan(func(p obtypes.Price, l *PriceLevel) bool {
		askRows = append(askRows, row{p, l})
		return true
	})
	for i := len(askRows) - 1; i >= 0; i-- {
		r := askRows[i]
		fmt.Fprintf(w, "  %10s  |  %8d  (%d orders)\n", r.price, r.level.TotalQuantity(), r.level.OrderCount())
	}

	fmt.Fprintln(w, "--- SPREAD ---")

	fmt.Fprintln(w, "--- BIDS (highest first) ---")
	b.bids.Reverse(func(p obtypes.Price, l *PriceLevel) bool {
		fmt.Fprintf(w, "  %10s  |  %8d  (%d orders)\n", p, l.TotalQuantity(), l.OrderCount())
		return true
	})
	fmt.Fprintln(w, "==================")
}

// Package engine implements the matching engine: it owns the book, the
// order pool, and the id/timestamp/trade counters, and exposes the two
// operations every adapter drives — ProcessOrder and CancelOrder — plus
// Snapshot and the read-only observers.
package engine

import (
	"io"

	"github.com/aeromatch/internal/book"
	"github.com/aeromatch/internal/obtypes"
	"github.com/aeromatch/internal/pool"
)

// Engine is single-threaded and run-to-completion: every ProcessOrder or
// CancelOrder call executes fully before returning, with no suspension
// points and no internal locking (spec section 5). It must not be shared
// across goroutines without external serialization — see Runner for the
// adapter-facing serialization point.
type Engine struct {
	book *book.Book
	pool *pool.Pool

	nextOrderID     obtypes.OrderID
	nextTimestamp   obtypes.Timestamp
	tradeCount      uint64
	ordersProcessed uint64
}

// New creates an engine with an empty book and a pool using poolBlockSize
// (0 selects pool.DefaultBlockSize).
func New(poolBlockSize int) *Engine {
	return &Engine{
		book:          book.New(),
		pool:          pool.New(poolBlockSize),
		nextOrderID:   1,
		nextTimestamp: 1,
	}
}

// Book exposes read access to the underlying order book for queries and
// snapshotting.
func (e *Engine) Book() *book.Book { return e.book }

// NextOrderID returns the id that will be assigned to the next processed order.
func (e *Engine) NextOrderID() obtypes.OrderID { return e.nextOrderID }

// TradeCount returns the total number of trades executed so far.
func (e *Engine) TradeCount() uint64 { return e.tradeCount }

// OrdersProcessed returns the total number of ProcessOrder calls handled.
func (e *Engine) OrdersProcessed() uint64 { return e.ordersProcessed }

// BestBid, BestAsk, GetVolumeAtPrice and HasOrder mirror the Book's
// observers directly, so adapters need only depend on Engine.

func (e *Engine) BestBid() (obtypes.Price, bool) { return e.book.BestBid() }
func (e *Engine) BestAsk() (obtypes.Price, bool) { return e.book.BestAsk() }

func (e *Engine) GetVolumeAtPrice(side obtypes.Side, price obtypes.Price) obtypes.Quantity {
	return e.book.GetVolumeAtPrice(side, price)
}

func (e *Engine) HasOrder(id obtypes.OrderID) bool { return e.book.HasOrder(id) }

// Snapshot renders the current book state.
func (e *Engine) Snapshot(w io.Writer) { e.book.Snapshot(w) }

// ProcessOrder allocates a new order, matches it against the opposite
// side, and either rests the unfilled remainder (LIMIT) or discards it
// (MARKET). Precondition: qty > 0, and price > 0 for LIMIT orders —
// callers (adapters) are responsible for rejecting invalid input before
// calling this.
func (e *Engine) ProcessOrder(side obtypes.Side, otype obtypes.OrderType, price obtypes.Price, qty obtypes.Quantity) []obtypes.Trade {
	e.ordersProcessed++

	o := e.pool.Allocate()
	o.ID = e.nextOrderID
	e.nextOrderID++
	o.Timestamp = e.nextTimestamp
	e.nextTimestamp++
	o.Price = price
	o.Quantity = qty
	o.FilledQty = 0
	o.Side = side
	o.Type = otype

	var trades []obtypes.Trade
	if side == obtypes.Buy {
		trades = e.matchBuy(o)
	} else {
		trades = e.matchSell(o)
	}

	switch {
	case o.IsFilled():
		e.pool.Deallocate(o)
	case otype == obtypes.Limit:
		e.book.AddOrder(o)
	default:
		// Market order with unfilled remainder: silently discarded, no
		// core-level reject signal (spec section 7, MarketOrderResidual).
		e.pool.Deallocate(o)
	}

	return trades
}

// CancelOrder removes id from the book and returns it to the pool.
// Returns false if id is unknown (never resting, already filled, or
// already cancelled).
func (e *Engine) CancelOrder(id obtypes.OrderID) bool {
	o := e.book.CancelOrder(id)
	if o == nil {
		return false
	}
	e.pool.Deallocate(o)
	return true
}

// matchBuy walks the ask side from best (lowest) price upward, filling
// incoming against resting sell orders.
func (e *Engine) matchBuy(incoming *obtypes.Order) []obtypes.Trade {
	var trades []obtypes.Trade

	for !incoming.IsFilled() {
		level, askPrice, ok := e.book.BestLevel(obtypes.Sell)
		if !ok {
			break
		}
		if incoming.Type == obtypes.Limit && askPrice > incoming.Price {
			break
		}

		for !incoming.IsFilled() && !level.IsEmpty() {
			resting := level.Front()
			fill := min(incoming.Remaining(), resting.Remaining())

			trades = append(trades, e.executeTrade(incoming, resting, fill, askPrice))
			level.ReduceQuantity(fill)

			if resting.IsFilled() {
				level.PopFront()
				e.book.RemoveFromLookup(resting.ID)
				e.pool.Deallocate(resting)
			}
		}

		e.book.RemoveLevelIfEmpty(obtypes.Sell, askPrice)
	}

	return trades
}

// matchSell walks the bid side from best (highest) price downward,
// filling incoming against resting buy orders.
func (e *Engine) matchSell(incoming *obtypes.Order) []obtypes.Trade {
	var trades []obtypes.Trade

	for !incoming.IsFilled() {
		level, bidPrice, ok := e.book.BestLevel(obtypes.Buy)
		if !ok {
			break
		}
		if incoming.Type == obtypes.Limit && bidPrice < incoming.Price {
			break
		}

		for !incoming.IsFilled() && !level.IsEmpty() {
			resting := level.Front()
			fill := min(incoming.Remaining(), resting.Remaining())

			trades = append(trades, e.executeTrade(resting, incoming, fill, bidPrice))
			level.ReduceQuantity(fill)

			if resting.IsFilled() {
				level.PopFront()
				e.book.RemoveFromLookup(resting.ID)
				e.pool.Deallocate(resting)
			}
		}

		e.book.RemoveLevelIfEmpty(obtypes.Buy, bidPrice)
	}

	return trades
}

// executeTrade records a fill between buyer and seller at price, always
// the resting order's price (price improvement for the aggressor).
func (e *Engine) executeTrade(buyer, seller *obtypes.Order, qty obtypes.Quantity, price obtypes.Price) obtypes.Trade {
	buyer.FilledQty += qty
	seller.FilledQty += qty
	e.tradeCount++

	t := obtypes.Trade{
		BuyerOrderID:  buyer.ID,
		SellerOrderID: seller.ID,
		Price:         price,
		Quantity:      qty,
		Timestamp:     e.nextTimestamp,
	}
	e.nextTimestamp++
	return t
}

func min(a, b obtypes.Quantity) obtypes.Quantity {
	if a < b {
		return a
	}
	return b
}

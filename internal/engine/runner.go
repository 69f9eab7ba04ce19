package engine

import (
	"io"

	"github.com/aeromatch/internal/obtypes"
)

// Runner serializes concurrent adapter calls onto a single goroutine that
// owns the Engine, so multiple TCP connections or gRPC handlers can submit
// orders concurrently while the core itself still only ever sees one call
// at a time — the "serialize through a queue" option spec section 5
// prescribes for drivers that need concurrency. This replaces the
// teacher's MatchingEngine.processOrders, which spawned a goroutine per
// order and so did not actually preserve call-order semantics; Runner
// processes requests to completion one at a time, in submission order.
type Runner struct {
	engine   *Engine
	requests chan request
	trades   chan obtypes.Trade
	done     chan struct{}
}

type requestKind uint8

const (
	reqProcessOrder requestKind = iota
	reqCancelOrder
	reqSnapshot
)

type request struct {
	kind  requestKind
	side  obtypes.Side
	otype obtypes.OrderType
	price obtypes.Price
	qty   obtypes.Quantity
	id    obtypes.OrderID
	w     io.Writer
	reply chan response
}

type response struct {
	orderID   obtypes.OrderID
	trades    []obtypes.Trade
	cancelled bool
}

// NewRunner wraps engine with a serialized request queue of the given
// buffer size.
func NewRunner(e *Engine, bufferSize int) *Runner {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &Runner{
		engine:   e,
		requests: make(chan request, bufferSize),
		trades:   make(chan obtypes.Trade, bufferSize*4),
		done:     make(chan struct{}),
	}
}

// Engine returns the wrapped engine. Only safe to call directly (without
// going through the request queue) before Start, or from within the
// Runner's own goroutine.
func (r *Runner) Engine() *Engine { return r.engine }

// Start begins processing requests. Must be called once.
func (r *Runner) Start() {
	go r.loop()
}

// Stop terminates the processing goroutine after any queued requests drain.
func (r *Runner) Stop() {
	close(r.done)
}

// TradesChannel returns a channel that receives the trades produced by
// SubmitOrder calls, in execution order, for market-data subscribers such
// as the gRPC streaming adapter. A trade is dropped when the channel's
// buffer is full, and each trade is received by only one reader.
func (r *Runner) TradesChannel() <-chan obtypes.Trade {
	return r.trades
}

// SubmitOrder enqueues a ProcessOrder call and blocks until it completes.
func (r *Runner) SubmitOrder(side obtypes.Side, otype obtypes.OrderType, price obtypes.Price, qty obtypes.Quantity) (obtypes.OrderID, []obtypes.Trade) {
	reply := make(chan response, 1)
	r.requests <- request{kind: reqProcessOrder, side: side, otype: otype, price: price, qty: qty, reply: reply}
	resp := <-reply
	return resp.orderID, resp.trades
}

// ProcessOrder mirrors Engine.ProcessOrder's signature so callers that only
// need the trades (not the assigned id) can depend on the same interface
// whether or not they go through a Runner — see csvadapter.Core.
func (r *Runner) ProcessOrder(side obtypes.Side, otype obtypes.OrderType, price obtypes.Price, qty obtypes.Quantity) []obtypes.Trade {
	_, trades := r.SubmitOrder(side, otype, price, qty)
	return trades
}

// CancelOrder enqueues a CancelOrder call and blocks until it completes.
func (r *Runner) CancelOrder(id obtypes.OrderID) bool {
	reply := make(chan response, 1)
	r.requests <- request{kind: reqCancelOrder, id: id, reply: reply}
	resp := <-reply
	return resp.cancelled
}

// Snapshot enqueues a book render to w and blocks until the processing
// goroutine has finished writing it, so a snapshot never interleaves with a
// concurrent order's book mutation.
func (r *Runner) Snapshot(w io.Writer) {
	reply := make(chan response, 1)
	r.requests <- request{kind: reqSnapshot, w: w, reply: reply}
	<-reply
}

func (r *Runner) loop() {
	for {
		select {
		case req := <-r.requests:
			r.handle(req)
		case <-r.done:
			for {
				select {
				case req := <-r.requests:
					r.handle(req)
				default:
					return
				}
			}
		}
	}
}

func (r *Runner) handle(req request) {
	switch req.kind {
	case reqProcessOrder:
		nextID := r.engine.NextOrderID()
		trades := r.engine.ProcessOrder(req.side, req.otype, req.price, req.qty)
		for _, t := range trades {
			select {
			case r.trades <- t:
			default:
				// Slow or absent subscriber: drop rather than block the
				// single processing goroutine (spec section 5: no
				// suspension points inside the engine's call path).
			}
		}
		req.reply <- response{orderID: nextID, trades: trades}
	case reqCancelOrder:
		ok := r.engine.CancelOrder(req.id)
		req.reply <- response{cancelled: ok}
	case reqSnapshot:
		r.engine.Snapshot(req.w)
		req.reply <- response{}
	}
}

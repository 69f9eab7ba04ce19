// Package csvadapter implements the CSV-like text command adapter
// documented in spec section 6, byte-for-byte compatible with the
// original implementation's csv_parser.cpp so existing input files keep
// working.
package csvadapter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aeromatch/internal/obtypes"
)

// Core is the engine surface this adapter drives. Both *engine.Engine and
// *engine.Runner satisfy it; passing a Runner is required whenever another
// adapter might be submitting orders concurrently, since the engine itself
// carries no locking (spec section 5).
type Core interface {
	ProcessOrder(obtypes.Side, obtypes.OrderType, obtypes.Price, obtypes.Quantity) []obtypes.Trade
	CancelOrder(obtypes.OrderID) bool
	Snapshot(io.Writer)
}

// Adapter drives a Core from a stream of text commands.
type Adapter struct {
	engine Core
}

// New wraps core for text-command driving.
func New(core Core) *Adapter {
	return &Adapter{engine: core}
}

// ProcessStream reads commands line by line from r and writes their
// output to w until r is exhausted.
func (a *Adapter) ProcessStream(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		a.ProcessLine(scanner.Text(), w)
	}
}

// ProcessLine executes a single command line. Blank lines and lines
// beginning with '#' are ignored.
func (a *Adapter) ProcessLine(line string, w io.Writer) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}

	tokens := strings.Split(trimmed, ",")
	cmd := strings.ToUpper(strings.TrimSpace(tokens[0]))

	switch cmd {
	case "PRINT":
		a.engine.Snapshot(w)
		return
	case "CANCEL":
		a.handleCancel(tokens, w)
		return
	case "LIMIT", "MARKET":
		a.handleOrder(cmd, tokens, w)
		return
	default:
		fmt.Fprintf(w, "ERROR: unknown command '%s'\n", cmd)
	}
}

// CANCEL requires the id in the fifth comma-separated field (four leading
// commas: "CANCEL,,,,<order_id>"). This is load-bearing for compatibility
// with existing input files (spec section 9).
func (a *Adapter) handleCancel(tokens []string, w io.Writer) {
	if len(tokens) < 5 {
		fmt.Fprintln(w, "ERROR: CANCEL requires order_id as 5th field")
		return
	}
	id, err := strconv.ParseUint(strings.TrimSpace(tokens[4]), 10, 64)
	if err != nil {
		fmt.Fprintf(w, "ERROR: invalid order_id '%s'\n", tokens[4])
		return
	}
	orderID := obtypes.OrderID(id)
	if a.engine.CancelOrder(orderID) {
		fmt.Fprintf(w, "CANCELLED %d\n", orderID)
	} else {
		fmt.Fprintf(w, "CANCEL_REJECT %d (not found)\n", orderID)
	}
}

func (a *Adapter) handleOrder(cmd string, tokens []string, w io.Writer) {
	if len(tokens) < 4 {
		fmt.Fprintln(w, "ERROR: expected TYPE,SIDE,PRICE,QTY")
		return
	}

	otype := obtypes.Limit
	if cmd == "MARKET" {
		otype = obtypes.Market
	}

	sideStr := strings.ToUpper(strings.TrimSpace(tokens[1]))
	var side obtypes.Side
	switch sideStr {
	case "BUY", "B":
		side = obtypes.Buy
	case "SELL", "S":
		side = obtypes.Sell
	default:
		fmt.Fprintf(w, "ERROR: unknown side '%s'\n", sideStr)
		return
	}

	var price obtypes.Price
	if otype == obtypes.Limit {
		priceStr := strings.TrimSpace(tokens[2])
		if priceStr == "" {
			fmt.Fprintln(w, "ERROR: LIMIT order requires a price")
			return
		}
		p, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			fmt.Fprintf(w, "ERROR: invalid price '%s'\n", priceStr)
			return
		}
		price = obtypes.PriceFromFloat(p)
	}

	qtyStr := strings.TrimSpace(tokens[3])
	qty64, err := strconv.ParseUint(qtyStr, 10, 32)
	if err != nil {
		fmt.Fprintf(w, "ERROR: invalid quantity '%s'\n", qtyStr)
		return
	}
	if qty64 == 0 {
		fmt.Fprintln(w, "ERROR: quantity must be > 0")
		return
	}

	trades := a.engine.ProcessOrder(side, otype, price, obtypes.Quantity(qty64))
	printTrades(trades, w)
}

func printTrades(trades []obtypes.Trade, w io.Writer) {
	for _, t := range trades {
		fmt.Fprintf(w, "TRADE %d %d %s %d\n", t.BuyerOrderID, t.SellerOrderID, t.Price, t.Quantity)
	}
}

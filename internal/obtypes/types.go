// Package obtypes holds the primitive types shared by every layer of the
// matching engine: the fixed-point price representation, order side and
// type enums, and the id/quantity/timestamp aliases.
package obtypes

import "fmt"

// Price is a fixed-point price expressed in ticks. Scale is 100, i.e. one
// tick equals 0.01 of the quoted unit. No floating-point value ever
// crosses the engine boundary — every comparison and arithmetic operation
// on Price is plain int64 arithmetic.
type Price int64

// PriceScale is the number of ticks per whole unit (2 decimal places).
const PriceScale = 100

// PriceFromFloat converts a decimal price (e.g. 150.25) to ticks,
// rounding half away from zero.
func PriceFromFloat(p float64) Price {
	if p >= 0 {
		return Price(p*PriceScale + 0.5)
	}
	return Price(p*PriceScale - 0.5)
}

// Float returns the price as a decimal value.
func (p Price) Float() float64 {
	return float64(p) / PriceScale
}

// String renders the price as "whole.frac", e.g. "150.25".
func (p Price) String() string {
	v := int64(p)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/PriceScale, v%PriceScale)
}

// Side identifies which side of the book an order belongs to.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType distinguishes resting limit orders from immediate market orders.
type OrderType uint8

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Limit {
		return "LIMIT"
	}
	return "MARKET"
}

// OrderID uniquely and monotonically identifies an order within an engine.
type OrderID uint64

// Quantity is an order or fill size. Always positive for a live order.
type Quantity uint32

// Timestamp is the engine's monotonic event sequence number. Orders and
// trades share one sequence (see DESIGN.md open question).
type Timestamp uint64

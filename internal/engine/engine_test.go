package engine

import (
	"testing"

	"github.com/aeromatch/internal/obtypes"
)

func TestExactCrossProducesOneTradeAndEmptiesBothSides(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 10)
	trades := e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 10)

	if len(trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(trades))
	}
	if trades[0].Quantity != 10 || trades[0].Price != 10000 {
		t.Errorf("trade = %+v, want qty 10 at price 10000", trades[0])
	}
	if _, ok := e.BestBid(); ok {
		t.Error("expected bid side empty after exact cross")
	}
	if _, ok := e.BestAsk(); ok {
		t.Error("expected ask side empty after exact cross")
	}
}

func TestTradePricesAtRestingOrderPrice(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10100, 10) // resting bid improves seller's price
	trades := e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 10)

	if len(trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(trades))
	}
	if trades[0].Price != 10100 {
		t.Errorf("trade price = %v, want 10100 (the resting bid's price)", trades[0].Price)
	}
}

func TestPartialFillLeavesRemainderResting(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 10)
	trades := e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 4)

	if len(trades) != 1 || trades[0].Quantity != 4 {
		t.Fatalf("trades = %+v, want one trade of qty 4", trades)
	}
	if got := e.GetVolumeAtPrice(obtypes.Sell, 10000); got != 6 {
		t.Errorf("resting ask volume = %d, want 6", got)
	}
}

func TestMultiLevelSweep(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 5)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10010, 5)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10020, 5)

	trades := e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10020, 12)

	if len(trades) != 3 {
		t.Fatalf("trades = %d, want 3", len(trades))
	}
	wantPrices := []obtypes.Price{10000, 10010, 10020}
	wantQtys := []obtypes.Quantity{5, 5, 2}
	for i, tr := range trades {
		if tr.Price != wantPrices[i] || tr.Quantity != wantQtys[i] {
			t.Errorf("trade[%d] = price %v qty %v, want price %v qty %v", i, tr.Price, tr.Quantity, wantPrices[i], wantQtys[i])
		}
	}
	if got := e.GetVolumeAtPrice(obtypes.Sell, 10020); got != 3 {
		t.Errorf("remaining ask volume at 10020 = %d, want 3", got)
	}
}

func TestVolumeAtPriceStaysAccurateAfterFullFillOfFrontOrder(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 50) // id1
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 50) // id2, survives

	trades := e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 50)

	if len(trades) != 1 || trades[0].SellerOrderID != 1 || trades[0].Quantity != 50 {
		t.Fatalf("trades = %+v, want a single trade filling id1", trades)
	}
	if got := e.GetVolumeAtPrice(obtypes.Sell, 10000); got != 50 {
		t.Errorf("volume at price = %d, want 50 (only id2's remaining quantity)", got)
	}
}

func TestFIFOWithinLevel(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 5) // order 1
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 5) // order 2

	trades := e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 5)

	if len(trades) != 1 {
		t.Fatalf("trades = %d, want 1", len(trades))
	}
	if trades[0].SellerOrderID != 1 {
		t.Errorf("filled seller id = %d, want 1 (the resting order placed first)", trades[0].SellerOrderID)
	}
}

func TestMarketOrderSweepsAvailableLiquidity(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 5)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10010, 5)

	trades := e.ProcessOrder(obtypes.Buy, obtypes.Market, 0, 10)

	if len(trades) != 2 {
		t.Fatalf("trades = %d, want 2", len(trades))
	}
	if _, ok := e.BestAsk(); ok {
		t.Error("expected ask side fully drained")
	}
}

func TestMarketOrderResidualIsDiscardedNotRested(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 5)

	trades := e.ProcessOrder(obtypes.Buy, obtypes.Market, 0, 10)

	if len(trades) != 1 || trades[0].Quantity != 5 {
		t.Fatalf("trades = %+v, want one trade of qty 5", trades)
	}
	if e.HasOrder(2) {
		t.Error("expected the unfilled market remainder to be discarded, not resting")
	}
	if got := e.OrdersProcessed(); got != 2 {
		t.Errorf("orders processed = %d, want 2", got)
	}
}

func TestLimitOrderRestsWhenNoCross(t *testing.T) {
	e := New(0)
	trades := e.ProcessOrder(obtypes.Buy, obtypes.Limit, 9900, 10)

	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %+v", trades)
	}
	price, ok := e.BestBid()
	if !ok || price != 9900 {
		t.Errorf("BestBid = %v, %v; want 9900, true", price, ok)
	}
}

func TestLimitOrderDoesNotCrossThroughItsOwnLimitPrice(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10100, 5)

	trades := e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 5)

	if len(trades) != 0 {
		t.Fatalf("expected no trade when bid is below the best ask, got %+v", trades)
	}
	if got := e.GetVolumeAtPrice(obtypes.Buy, 10000); got != 5 {
		t.Errorf("expected the bid to rest, got volume %d", got)
	}
}

func TestCancelOrderRemovesRestingOrder(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 10)

	if !e.CancelOrder(1) {
		t.Fatal("expected CancelOrder to succeed for a resting order")
	}
	if e.HasOrder(1) {
		t.Error("expected order to be gone after cancel")
	}
	if e.CancelOrder(1) {
		t.Error("expected a second cancel of the same id to fail")
	}
}

func TestCancelOrderFailsForFilledOrder(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 5)
	e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 5) // order 2, fully filled immediately

	if e.CancelOrder(2) {
		t.Error("expected cancel of an already-filled order to fail")
	}
}

func TestOrderIDsAreMonotonic(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 5)
	if got := e.NextOrderID(); got != 2 {
		t.Errorf("next order id = %d, want 2", got)
	}
	e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 5)
	if got := e.NextOrderID(); got != 3 {
		t.Errorf("next order id = %d, want 3", got)
	}
}

func TestTradeCountAccumulatesAcrossOrders(t *testing.T) {
	e := New(0)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 5)
	e.ProcessOrder(obtypes.Sell, obtypes.Limit, 10000, 5)
	e.ProcessOrder(obtypes.Buy, obtypes.Limit, 10000, 10)

	if got := e.TradeCount(); got != 2 {
		t.Errorf("trade count = %d, want 2", got)
	}
}

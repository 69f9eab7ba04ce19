package csvadapter

import (
	"strings"
	"testing"

	"github.com/aeromatch/internal/engine"
)

func TestLimitOrdersCrossAndPrintTrade(t *testing.T) {
	a := New(engine.New(0))
	var out strings.Builder

	a.ProcessStream(strings.NewReader(
		"LIMIT,BUY,100.00,10\n"+
			"LIMIT,SELL,100.00,10\n",
	), &out)

	got := out.String()
	if !strings.Contains(got, "TRADE 1 2 100.00 10") {
		t.Errorf("output = %q, want a TRADE line for the cross", got)
	}
}

func TestMarketOrderWithNoLiquidityProducesNoTrade(t *testing.T) {
	a := New(engine.New(0))
	var out strings.Builder

	a.ProcessLine("MARKET,BUY,,10", &out)

	if got := out.String(); got != "" {
		t.Errorf("output = %q, want empty (no trades, no error)", got)
	}
}

func TestCancelIdInFifthField(t *testing.T) {
	a := New(engine.New(0))
	var out strings.Builder

	a.ProcessLine("LIMIT,BUY,100.00,10", &out)
	out.Reset()
	a.ProcessLine("CANCEL,,,,1", &out)

	if got := out.String(); got != "CANCELLED 1\n" {
		t.Errorf("output = %q, want CANCELLED 1", got)
	}
}

func TestCancelUnknownIdIsRejected(t *testing.T) {
	a := New(engine.New(0))
	var out strings.Builder

	a.ProcessLine("CANCEL,,,,999", &out)

	if got := out.String(); got != "CANCEL_REJECT 999 (not found)\n" {
		t.Errorf("output = %q, want a CANCEL_REJECT line", got)
	}
}

func TestBlankAndCommentLinesAreIgnored(t *testing.T) {
	a := New(engine.New(0))
	var out strings.Builder

	a.ProcessStream(strings.NewReader(
		"\n"+
			"# a comment\n"+
			"   \n",
	), &out)

	if got := out.String(); got != "" {
		t.Errorf("output = %q, want empty", got)
	}
}

func TestPrintEmitsSnapshot(t *testing.T) {
	a := New(engine.New(0))
	var out strings.Builder

	a.ProcessLine("LIMIT,BUY,100.00,10", &out)
	out.Reset()
	a.ProcessLine("PRINT", &out)

	got := out.String()
	if !strings.Contains(got, "ORDER BOOK") {
		t.Errorf("output = %q, want a book snapshot", got)
	}
}

func TestInvalidPriceReportsError(t *testing.T) {
	a := New(engine.New(0))
	var out strings.Builder

	a.ProcessLine("LIMIT,BUY,notaprice,10", &out)

	if got := out.String(); !strings.HasPrefix(got, "ERROR:") {
		t.Errorf("output = %q, want an ERROR: line", got)
	}
}

func TestZeroQuantityIsRejected(t *testing.T) {
	a := New(engine.New(0))
	var out strings.Builder

	a.ProcessLine("LIMIT,BUY,100.00,0", &out)

	if got := out.String(); !strings.HasPrefix(got, "ERROR:") {
		t.Errorf("output = %q, want an ERROR: line", got)
	}
}

func TestUnknownCommandReportsError(t *testing.T) {
	a := New(engine.New(0))
	var out strings.Builder

	a.ProcessLine("FROB,BUY,100.00,10", &out)

	if got := out.String(); !strings.HasPrefix(got, "ERROR:") {
		t.Errorf("output = %q, want an ERROR: line", got)
	}
}

package taxlot

import (
	"testing"

	"github.com/etnz/taxlot/date"
)

func taxYear(t *testing.T, year string) date.Range {
	t.Helper()
	r, err := date.NewRange(day(year+"-01-01"), day(year+"-12-31"))
	if err != nil {
		t.Fatalf("NewRange() returned an unexpected error: %v", err)
	}
	return r
}

func TestSalesReport_FiltersByPeriod(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2021-01-04"), "MyBroker", "SPY", qty(30), usd(100)),
		NewSell(day("2022-06-01"), "MyBroker", "SPY", qty(10), usd(120)),
		NewSell(day("2023-06-01"), "MyBroker", "SPY", qty(10), usd(130)),
	)

	report := NewSalesReport(result, taxYear(t, "2022"))
	if len(report.Items) != 1 {
		t.Fatalf("2022 report has %d items, want 1", len(report.Items))
	}
	checkMoney(t, "2022 proceeds", report.Proceeds, usd(1200))
	checkMoney(t, "2022 gain", report.Gain, usd(200))

	// An open range covers everything.
	report = NewSalesReport(result, date.Range{})
	if len(report.Items) != 2 {
		t.Fatalf("open-range report has %d items, want 2", len(report.Items))
	}
	checkMoney(t, "total gain", report.Gain, usd(500))
}

func TestSalesReport_Totals(t *testing.T) {
	// One long-term gain, one washed short-term loss.
	result := mustReplay(t,
		NewBuy(day("2021-01-04"), "MyBroker", "SPY", qty(10), usd(100)),
		NewBuy(day("2022-02-01"), "MyBroker", "TQQQ", qty(10), usd(50)),
		NewSell(day("2022-06-01"), "MyBroker", "SPY", qty(10), usd(120)),
		NewSell(day("2022-06-02"), "MyBroker", "TQQQ", qty(10), usd(40)),
		NewBuy(day("2022-06-10"), "MyBroker", "TQQQ", qty(10), usd(45)),
	)

	report := NewSalesReport(result, taxYear(t, "2022"))
	checkMoney(t, "proceeds", report.Proceeds, usd(1600))
	checkMoney(t, "gain", report.Gain, usd(100))
	checkMoney(t, "disallowed", report.Disallowed, usd(100))
	checkMoney(t, "adjusted gain", report.AdjustedGain, usd(200))
	checkMoney(t, "short term", report.ShortTerm, usd(-100))
	checkMoney(t, "long term", report.LongTerm, usd(200))
}

func TestHoldingsReport(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-03"), "MyBroker", "SPY", qty(10), usd(100)),
		NewBuy(day("2022-02-01"), "MyBroker", "SPY", qty(10), usd(110)),
		NewBuy(day("2022-03-01"), "MyBroker", "XYZ", qty(5), usd(40)),
	)

	prices := map[string]Money{"SPY": usd(150)}
	report := NewHoldingsReport(result, day("2023-01-01"), prices)

	if len(report.Positions) != 2 {
		t.Fatalf("report has %d positions, want 2", len(report.Positions))
	}

	spy := report.Positions[0]
	if spy.Ticker != "SPY" || !spy.HasMarketValue {
		t.Fatalf("first position = %+v, want a valued SPY position", spy)
	}
	checkQuantity(t, "SPY shares", spy.Shares, qty(20))
	checkMoney(t, "SPY cost basis", spy.CostBasis, usd(2100))
	checkMoney(t, "SPY market value", spy.MarketValue, usd(3000))
	checkMoney(t, "SPY unrealized", spy.UnrealizedGain, usd(900))
	if len(spy.Lots) != 2 {
		t.Errorf("SPY position has %d lots, want 2", len(spy.Lots))
	}

	xyz := report.Positions[1]
	if xyz.HasMarketValue {
		t.Errorf("XYZ has no quote, it must not report a market value")
	}
	checkMoney(t, "XYZ cost basis", xyz.CostBasis, usd(200))

	// Totals: cost basis over all positions, market value over quoted ones.
	checkMoney(t, "total cost basis", report.CostBasis, usd(2300))
	checkMoney(t, "total market value", report.MarketValue, usd(3000))
	checkMoney(t, "total unrealized", report.Unrealized, usd(900))
}

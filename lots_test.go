package taxlot

import (
	"errors"
	"testing"
)

func TestReplay_FIFOMatching(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-10"), "MyBroker", "SPY", qty(100), usd(100)),
		NewBuy(day("2022-03-10"), "MyBroker", "SPY", qty(50), usd(120)),
		NewSell(day("2023-04-01"), "MyBroker", "SPY", qty(120), usd(130)),
	)

	if len(result.Sales) != 2 {
		t.Fatalf("Replay() produced %d sale items, want 2", len(result.Sales))
	}

	first := result.Sales[0]
	if first.DateAcquired != day("2022-01-10") {
		t.Errorf("first item acquired on %s, want the oldest lot 2022-01-10", first.DateAcquired)
	}
	checkQuantity(t, "first item shares", first.Shares, qty(100))
	checkMoney(t, "first item cost basis", first.CostBasis, usd(10000))
	checkMoney(t, "first item gain", first.Gain(), usd(3000))
	if first.ShortTerm {
		t.Errorf("first item held over a year must be long term")
	}

	second := result.Sales[1]
	if second.DateAcquired != day("2022-03-10") {
		t.Errorf("second item acquired on %s, want 2022-03-10", second.DateAcquired)
	}
	checkQuantity(t, "second item shares", second.Shares, qty(20))
	checkMoney(t, "second item cost basis", second.CostBasis, usd(2400))

	if len(result.Holdings) != 1 {
		t.Fatalf("Replay() left %d holdings, want 1", len(result.Holdings))
	}
	checkQuantity(t, "residual shares", result.Holdings[0].Shares, qty(30))
	checkMoney(t, "residual cost basis", result.Holdings[0].CostBasis, usd(3600))
}

func TestReplay_ExplicitLotSchedule(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-03"), "MyBroker", "SPY", qty(10), usd(50)).WithLotID("batch1"),
		NewBuy(day("2022-02-01"), "MyBroker", "SPY", qty(10), usd(40)).WithLotID("batch2"),
		NewSell(day("2023-06-01"), "MyBroker", "SPY", qty(15), usd(60)).WithLotIDs("batch2", "batch1"),
	)

	if len(result.Sales) != 2 {
		t.Fatalf("Replay() produced %d sale items, want 2", len(result.Sales))
	}
	if result.Sales[0].LotID != "batch2" || result.Sales[1].LotID != "batch1" {
		t.Errorf("explicit schedule consumed lots %q, %q; want batch2 then batch1",
			result.Sales[0].LotID, result.Sales[1].LotID)
	}
	checkQuantity(t, "batch2 shares sold", result.Sales[0].Shares, qty(10))
	checkMoney(t, "batch2 basis", result.Sales[0].CostBasis, usd(400))
	checkQuantity(t, "batch1 shares sold", result.Sales[1].Shares, qty(5))
	checkMoney(t, "batch1 basis", result.Sales[1].CostBasis, usd(250))
}

func TestReplay_UnknownLotID(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2022-01-03"), "MyBroker", "SPY", qty(10), usd(50)).WithLotID("batch1"),
		NewSell(day("2022-06-01"), "MyBroker", "SPY", qty(5), usd(60)).WithLotIDs("nope"),
	)
	_, err := ledger.Replay()
	var unknown *UnknownLotIDError
	if !errors.As(err, &unknown) {
		t.Fatalf("Replay() = %v, want an UnknownLotIDError", err)
	}
	if unknown.LotID != "nope" {
		t.Errorf("error names lot %q, want %q", unknown.LotID, "nope")
	}
}

func TestReplay_DuplicateLotID(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2022-01-03"), "MyBroker", "SPY", qty(10), usd(50)).WithLotID("batch1"),
		NewBuy(day("2022-02-01"), "MyBroker", "SPY", qty(10), usd(40)).WithLotID("batch1"),
	)
	_, err := ledger.Replay()
	var dup *DuplicateLotIDError
	if !errors.As(err, &dup) {
		t.Fatalf("Replay() = %v, want a DuplicateLotIDError", err)
	}
}

func TestReplay_InsufficientShares(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2022-01-03"), "MyBroker", "SPY", qty(10), usd(50)),
		NewSell(day("2022-06-01"), "MyBroker", "SPY", qty(20), usd(60)),
	)
	_, err := ledger.Replay()
	var insufficient *InsufficientSharesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Replay() = %v, want an InsufficientSharesError", err)
	}
	checkQuantity(t, "available", insufficient.Available, qty(10))
	checkQuantity(t, "requested", insufficient.Requested, qty(20))
}

func TestReplay_BuyCommissionFoldedOnExhaustion(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-03"), "MyBroker", "SPY", qty(10), usd(100)).WithCommission(usd(5)),
		NewSell(day("2023-02-01"), "MyBroker", "SPY", qty(4), usd(110)),
		NewSell(day("2023-03-01"), "MyBroker", "SPY", qty(6), usd(110)),
	)

	// Partial sale: basis is price only, no commission.
	checkMoney(t, "partial sale basis", result.Sales[0].CostBasis, usd(400))
	// Exhausting sale: the buy commission joins the basis.
	checkMoney(t, "exhausting sale basis", result.Sales[1].CostBasis, usd(605))
}

func TestReplay_SellCommissionOnFirstItemOnly(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-10"), "MyBroker", "SPY", qty(10), usd(100)),
		NewBuy(day("2022-02-10"), "MyBroker", "SPY", qty(10), usd(100)),
		NewSell(day("2023-04-01"), "MyBroker", "SPY", qty(20), usd(130)).WithCommission(usd(7)),
	)

	if len(result.Sales) != 2 {
		t.Fatalf("Replay() produced %d sale items, want 2", len(result.Sales))
	}
	checkMoney(t, "first item commission", result.Sales[0].Commission, usd(7))
	checkMoney(t, "first item net proceeds", result.Sales[0].NetProceeds(), usd(1293))
	checkMoney(t, "second item commission", result.Sales[1].Commission, usd(0))
	checkMoney(t, "second item net proceeds", result.Sales[1].NetProceeds(), usd(1300))
}

func TestReplay_AddedBasisAllocatedProportionally(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-03"), "MyBroker", "TQQQ", qty(10), usd(100)).WithAddedBasis(usd(50)),
		NewSell(day("2023-02-01"), "MyBroker", "TQQQ", qty(5), usd(150)),
	)

	// Half the shares carry half the added basis.
	checkMoney(t, "sale basis", result.Sales[0].CostBasis, usd(525))
	checkMoney(t, "residual added basis", result.Holdings[0].AddedBasis, usd(25))
	checkMoney(t, "residual cost basis", result.Holdings[0].CostBasis, usd(525))
}

func TestReplay_ShortTermBoundary(t *testing.T) {
	tests := []struct {
		name      string
		sold      string
		shortTerm bool
	}{
		{"sold 365 days after purchase", "2023-01-01", true},
		{"sold 366 days after purchase", "2023-01-02", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := mustReplay(t,
				NewBuy(day("2022-01-01"), "MyBroker", "SPY", qty(10), usd(100)),
				NewSell(day(tc.sold), "MyBroker", "SPY", qty(10), usd(120)),
			)
			if result.Sales[0].ShortTerm != tc.shortTerm {
				t.Errorf("ShortTerm = %v, want %v", result.Sales[0].ShortTerm, tc.shortTerm)
			}
		})
	}
}

func TestReplay_BrokeragesAreIndependent(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		NewBuy(day("2022-01-03"), "BrokerA", "SPY", qty(10), usd(100)),
		NewSell(day("2022-06-01"), "BrokerB", "SPY", qty(10), usd(120)),
	)
	_, err := ledger.Replay()
	var insufficient *InsufficientSharesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("selling at another brokerage must not reach BrokerA's lots, got %v", err)
	}
}

func TestReplay_SplitRescalesPriorLots(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-03"), "MyBroker", "TSLA", qty(10), usd(300)),
		NewSplit(day("2022-08-25"), "TSLA", qty(3)),
		NewBuy(day("2022-09-01"), "MyBroker", "TSLA", qty(5), usd(90)),
	)

	if len(result.Holdings) != 2 {
		t.Fatalf("Replay() left %d holdings, want 2", len(result.Holdings))
	}
	// The pre-split lot is rescaled, its total basis unchanged.
	checkQuantity(t, "rescaled shares", result.Holdings[0].Shares, qty(30))
	checkMoney(t, "rescaled price", result.Holdings[0].Price, usd(100))
	checkMoney(t, "rescaled basis", result.Holdings[0].CostBasis, usd(3000))
	// The post-split lot is untouched.
	checkQuantity(t, "later lot shares", result.Holdings[1].Shares, qty(5))
	checkMoney(t, "later lot price", result.Holdings[1].Price, usd(90))
}

func TestReplay_ReverseSplit(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-03"), "MyBroker", "XYZ", qty(100), usd(10)),
		NewSplit(day("2023-01-10"), "XYZ", qty(0.25)),
	)

	checkQuantity(t, "shares after 1-for-4", result.Holdings[0].Shares, qty(25))
	checkMoney(t, "price after 1-for-4", result.Holdings[0].Price, usd(40))
	checkMoney(t, "basis after 1-for-4", result.Holdings[0].CostBasis, usd(1000))
}

func TestReplay_SplitAppliesAcrossBrokerages(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-03"), "BrokerA", "TSLA", qty(10), usd(300)),
		NewBuy(day("2022-02-03"), "BrokerB", "TSLA", qty(20), usd(330)),
		NewSplit(day("2022-08-25"), "TSLA", qty(3)),
	)

	checkQuantity(t, "BrokerA shares", result.Holdings[0].Shares, qty(30))
	checkQuantity(t, "BrokerB shares", result.Holdings[1].Shares, qty(60))
}

func TestReplay_SplitAppliesRegardlessOfFilePosition(t *testing.T) {
	// A buy recorded after a same-day split line is still acquired on or
	// before the split date, so it is rescaled too.
	result := mustReplay(t,
		NewBuy(day("2022-01-03"), "MyBroker", "TSLA", qty(10), usd(300)),
		NewSplit(day("2022-08-25"), "TSLA", qty(3)),
		NewBuy(day("2022-08-25"), "MyBroker", "TSLA", qty(5), usd(90)),
	)

	checkQuantity(t, "older lot shares", result.Holdings[0].Shares, qty(30))
	checkQuantity(t, "same-day lot shares", result.Holdings[1].Shares, qty(15))
	checkMoney(t, "same-day lot price", result.Holdings[1].Price, usd(30))
	checkMoney(t, "same-day lot basis", result.Holdings[1].CostBasis, usd(450))
}

func TestReplay_SaleAfterSplitUsesRescaledBasis(t *testing.T) {
	result := mustReplay(t,
		NewBuy(day("2022-01-03"), "MyBroker", "TSLA", qty(10), usd(300)),
		NewSplit(day("2022-08-25"), "TSLA", qty(3)),
		NewSell(day("2023-09-01"), "MyBroker", "TSLA", qty(30), usd(120)),
	)

	checkMoney(t, "sale basis", result.Sales[0].CostBasis, usd(3000))
	checkMoney(t, "sale gain", result.Sales[0].Gain(), usd(600))
	if result.Sales[0].ShortTerm {
		t.Errorf("holding period must run from the original acquisition, not the split")
	}
}

package taxlot

import (
	"strings"
	"testing"
)

func TestImportCSV(t *testing.T) {
	input := `tr_type,ticker,amount,price,date,comm,brokerage,add_basis,lot_ids
buy,SPY,100,100.50,2022-01-03,5,MyBroker,50,batch1
buy,SPY,10,110,2022-02-01,,MyBroker,,
sell,SPY,50,120,2022-06-01,7,MyBroker,,batch1:
,!SPLIT#TSLA#3#2022-08-25,,,,,,,
`
	ledger, err := ImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportCSV() returned an unexpected error: %v", err)
	}
	if ledger.Len() != 4 {
		t.Fatalf("ImportCSV() read %d events, want 4", ledger.Len())
	}

	want := []Event{
		NewBuy(day("2022-01-03"), "MyBroker", "SPY", qty(100), usd(100.50)).
			WithCommission(usd(5)).WithAddedBasis(usd(50)).WithLotID("batch1"),
		NewBuy(day("2022-02-01"), "MyBroker", "SPY", qty(10), usd(110)).WithCommission(usd(0)),
		NewSell(day("2022-06-01"), "MyBroker", "SPY", qty(50), usd(120)).
			WithCommission(usd(7)).WithLotIDs("batch1"),
		NewSplit(day("2022-08-25"), "TSLA", qty(3)),
	}
	for i, ev := range ledger.events {
		if !ev.Equal(want[i]) {
			t.Errorf("event %d = %+v, want %+v", i, ev, want[i])
		}
	}
}

func TestImportCSV_ReplaysLikeNativeEvents(t *testing.T) {
	input := `tr_type,ticker,amount,price,date,comm,brokerage,add_basis,lot_ids
buy,SPY,100,100,2022-01-03,,MyBroker,,
sell,SPY,100,120,2023-06-01,,MyBroker,,
`
	ledger, err := ImportCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportCSV() returned an unexpected error: %v", err)
	}
	result, err := ledger.Replay()
	if err != nil {
		t.Fatalf("Replay() returned an unexpected error: %v", err)
	}
	checkMoney(t, "gain", result.Sales[0].Gain(), usd(2000))
	if result.Sales[0].ShortTerm {
		t.Errorf("a 514-day hold must be long term")
	}
}

func TestImportCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"missing column",
			"tr_type,ticker,amount,price,date,comm\nbuy,SPY,10,100,2022-01-03,0\n",
		},
		{
			"bad tr_type",
			"tr_type,ticker,amount,price,date,comm,brokerage\nshort,SPY,10,100,2022-01-03,0,MyBroker\n",
		},
		{
			"bad amount",
			"tr_type,ticker,amount,price,date,comm,brokerage\nbuy,SPY,ten,100,2022-01-03,0,MyBroker\n",
		},
		{
			"bad date",
			"tr_type,ticker,amount,price,date,comm,brokerage\nbuy,SPY,10,100,someday,0,MyBroker\n",
		},
		{
			"bad command row",
			"tr_type,ticker,amount,price,date,comm,brokerage\n,!FROBNICATE#XYZ,,,,,\n",
		},
		{
			"buy with several lot ids",
			"tr_type,ticker,amount,price,date,comm,brokerage,lot_ids\nbuy,SPY,10,100,2022-01-03,0,MyBroker,a:b\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportCSV(strings.NewReader(tc.input)); err == nil {
				t.Errorf("ImportCSV() accepted %s", tc.name)
			}
		})
	}
}

package taxlot

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDecodeEvents_Roundtrip(t *testing.T) {
	original := NewLedger()
	original.Append(
		NewBuy(day("2022-01-03"), "MyBroker", "SPY", qty(100), usd(100.50)).
			WithCommission(usd(5)).WithLotID("batch1").WithAddedBasis(usd(50)),
		NewBuy(day("2022-02-01"), "MyBroker", "SPY", qty(10), usd(110)).WithNoWash(),
		NewSell(day("2022-06-01"), "MyBroker", "SPY", qty(50), usd(120)).
			WithCommission(usd(7)).WithLotIDs("batch1"),
		NewSplit(day("2022-08-25"), "TSLA", qty(3)),
		NewLiquidate(day("2023-03-01"), "XYZ", usd(12.50)),
		NewWashGroup(day("2022-12-31"), "TQQQ", "QQQ"),
	)

	var buf bytes.Buffer
	if err := EncodeEvents(&buf, original); err != nil {
		t.Fatalf("EncodeEvents() returned an unexpected error: %v", err)
	}

	decoded, err := DecodeEvents(&buf)
	if err != nil {
		t.Fatalf("DecodeEvents() returned an unexpected error: %v", err)
	}
	if decoded.Len() != original.Len() {
		t.Fatalf("roundtrip lost events: got %d, want %d", decoded.Len(), original.Len())
	}
	for i, ev := range decoded.events {
		if !ev.Equal(original.events[i]) {
			t.Errorf("event %d differs after roundtrip:\ngot  %+v\nwant %+v", i, ev, original.events[i])
		}
	}
}

func TestEncodeEvent_FieldOrder(t *testing.T) {
	// The on-disk format is stable: fields appear in a fixed order and
	// unset optional fields are omitted.
	var buf bytes.Buffer
	ev := NewBuy(day("2022-01-03"), "MyBroker", "SPY", qty(10), usd(100.5))
	if err := EncodeEvent(&buf, ev); err != nil {
		t.Fatalf("EncodeEvent() returned an unexpected error: %v", err)
	}
	want := `{"command":"buy","date":"2022-01-03","ticker":"SPY","brokerage":"MyBroker","shares":10,"price":100.5}` + "\n"
	if buf.String() != want {
		t.Errorf("EncodeEvent() = %s, want %s", buf.String(), want)
	}
}

func TestDecodeEvents_SortsAndSkipsEmptyLines(t *testing.T) {
	input := `{"command":"sell","date":"2022-06-01","ticker":"SPY","brokerage":"MyBroker","shares":10,"price":120}

{"command":"buy","date":"2022-01-03","ticker":"SPY","brokerage":"MyBroker","shares":10,"price":100}
`
	ledger, err := DecodeEvents(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeEvents() returned an unexpected error: %v", err)
	}
	if ledger.Len() != 2 {
		t.Fatalf("DecodeEvents() read %d events, want 2", ledger.Len())
	}
	if ledger.events[0].What() != CmdBuy {
		t.Errorf("events must come out chronologically, first is a %s", ledger.events[0].What())
	}

	result, err := ledger.Replay()
	if err != nil {
		t.Fatalf("Replay() returned an unexpected error: %v", err)
	}
	checkMoney(t, "gain", result.Sales[0].Gain(), usd(200))
}

func TestDecodeEvents_UnknownCommand(t *testing.T) {
	input := `{"command":"dividend","date":"2022-01-03","ticker":"SPY"}`
	if _, err := DecodeEvents(strings.NewReader(input)); err == nil {
		t.Fatalf("DecodeEvents() accepted an unknown command")
	}
}

func TestDecodeEvents_MalformedLine(t *testing.T) {
	input := `{"command":"buy","date":`
	if _, err := DecodeEvents(strings.NewReader(input)); err == nil {
		t.Fatalf("DecodeEvents() accepted a malformed line")
	}
}

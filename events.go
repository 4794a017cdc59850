package taxlot

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/taxlot/date"
	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying event commands.
type CommandType string

// Command types used for identifying events.
const (
	CmdBuy       CommandType = "buy"
	CmdSell      CommandType = "sell"
	CmdSplit     CommandType = "split"
	CmdLiquidate CommandType = "liquidate"
	CmdWashGroup CommandType = "washgroup"
)

// Event defines the common interface for all entries of the ledger: trades
// (buy, sell) and the special commands (split, liquidate, washgroup).
type Event interface {
	What() CommandType // What returns the command type of the event (e.g., "buy", "sell").
	When() date.Date   // When returns the date on which the event occurred.
	Equal(Event) bool
	Validate() (Event, error)
}

type baseCmd struct {
	Command CommandType `json:"command"`        // Command specifies the type of event (e.g., "buy", "sell").
	Date    date.Date   `json:"date"`           // Date is the date when the event took place.
	Memo    string      `json:"memo,omitempty"` // Memo provides an optional rationale or note for the event.
}

// What returns the command name for the event, which is used to identify the type of event.
func (t baseCmd) What() CommandType { return t.Command }

// When returns the date of the event.
func (t baseCmd) When() date.Date { return t.Date }

// Validate checks the base command fields. It sets the date to today if it's
// zero. It's meant to be embedded in other event validation methods.
func (t *baseCmd) Validate() {
	if t.Date.IsZero() {
		t.Date = date.Today()
	}
}

// MarshalJSON implements the json.Marshaler interface for baseCmd.
func (t baseCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// secCmd is a component for ticker-scoped events (split, liquidate).
type secCmd struct {
	baseCmd
	Ticker string `json:"ticker"` // Ticker is the symbol of the security involved in the event.
}

// Validate checks the security command fields.
func (t *secCmd) Validate() error {
	t.baseCmd.Validate()
	if t.Ticker == "" {
		return errors.New("ticker is missing")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for secCmd.
func (t secCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("ticker", t.Ticker)
	return w.MarshalJSON()
}

// acctCmd is a component for brokerage-scoped events (buy, sell). The same
// ticker held at two brokerages forms two independent lot inventories.
type acctCmd struct {
	secCmd
	Brokerage string `json:"brokerage"`
}

// Validate checks the account command fields.
func (t *acctCmd) Validate() error {
	if err := t.secCmd.Validate(); err != nil {
		return err
	}
	if t.Brokerage == "" {
		return errors.New("brokerage is missing")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for acctCmd.
func (t acctCmd) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("brokerage", t.Brokerage)
	return w.MarshalJSON()
}

// Buy represents the purchase of a quantity of shares at a brokerage,
// creating one buy lot.
type Buy struct {
	acctCmd
	Shares     Quantity // Shares is the number of shares bought.
	Price      Money    // Price is the per-share purchase price.
	Commission Money    // Commission is folded into the basis when the lot is exhausted.
	LotID      string   // LotID optionally names the lot for explicit sale schedules.
	AddedBasis Money    // AddedBasis is an explicit basis adjustment (e.g. ESPP compensation income).
	NoWash     bool     // NoWash excludes this lot from wash-sale trigger scans.
}

// NewBuy creates a new Buy event.
func NewBuy(day date.Date, brokerage, ticker string, shares Quantity, price Money) Buy {
	return Buy{
		acctCmd: acctCmd{
			secCmd:    secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day}, Ticker: ticker},
			Brokerage: brokerage,
		},
		Shares: shares,
		Price:  price,
	}
}

// WithCommission returns a copy of the Buy with the given commission.
func (t Buy) WithCommission(c Money) Buy { t.Commission = c; return t }

// WithLotID returns a copy of the Buy with the given user-assigned lot id.
func (t Buy) WithLotID(id string) Buy { t.LotID = id; return t }

// WithAddedBasis returns a copy of the Buy with the given explicit basis adjustment.
func (t Buy) WithAddedBasis(b Money) Buy { t.AddedBasis = b; return t }

// WithNoWash returns a copy of the Buy excluded from wash-sale scans.
func (t Buy) WithNoWash() Buy { t.NoWash = true; return t }

func (t Buy) Equal(other Event) bool {
	o, ok := other.(Buy)
	return ok && t.acctCmd == o.acctCmd &&
		t.Shares.Equal(o.Shares) && t.Price.Equal(o.Price) &&
		t.Commission.Equal(o.Commission) && t.LotID == o.LotID &&
		t.AddedBasis.Equal(o.AddedBasis) && t.NoWash == o.NoWash
}

// Validate checks the Buy event's fields.
func (t Buy) Validate() (Event, error) {
	if err := t.acctCmd.Validate(); err != nil {
		return t, err
	}
	if !t.Shares.IsPositive() {
		return t, fmt.Errorf("buy shares must be positive, got %s", t.Shares)
	}
	if t.Price.IsNegative() {
		return t, fmt.Errorf("buy price must not be negative, got %s", t.Price)
	}
	if t.Commission.IsNegative() {
		return t, fmt.Errorf("buy commission must not be negative, got %s", t.Commission)
	}
	if t.AddedBasis.IsNegative() {
		return t, fmt.Errorf("buy added basis must not be negative, got %s", t.AddedBasis)
	}
	if strings.ContainsAny(t.LotID, "#:") {
		return t, fmt.Errorf("lot id %q must not contain '#' or ':'", t.LotID)
	}
	return t, nil
}

// MarshalJSON implements the json.Marshaler interface for Buy.
func (t Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.acctCmd)
	w.Append("shares", t.Shares)
	w.Append("price", t.Price.value)
	w.Optional("commission", t.Commission.value)
	w.Optional("lot", t.LotID)
	w.Optional("addbasis", t.AddedBasis.value)
	w.Optional("nowash", t.NoWash)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Buy.
func (t *Buy) UnmarshalJSON(data []byte) error {
	var temp struct {
		acctCmd
		Shares     Quantity        `json:"shares"`
		Price      decimal.Decimal `json:"price"`
		Commission decimal.Decimal `json:"commission"`
		LotID      string          `json:"lot"`
		AddedBasis decimal.Decimal `json:"addbasis"`
		NoWash     bool            `json:"nowash"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.acctCmd = temp.acctCmd
	t.Shares = temp.Shares
	t.Price = M(temp.Price, USD)
	t.Commission = M(temp.Commission, USD)
	t.LotID = temp.LotID
	t.AddedBasis = M(temp.AddedBasis, USD)
	t.NoWash = temp.NoWash
	return nil
}

// Sell represents the sale of a quantity of shares at a brokerage. When
// LotIDs is empty, shares are matched oldest lot first; otherwise exactly the
// named lots are consumed, in the given order.
type Sell struct {
	acctCmd
	Shares     Quantity // Shares is the number of shares sold.
	Price      Money    // Price is the per-share sale price.
	Commission Money    // Commission is charged against the first sale item only.
	LotIDs     []string // LotIDs optionally defines an explicit lot sale schedule.
}

// NewSell creates a new Sell event.
func NewSell(day date.Date, brokerage, ticker string, shares Quantity, price Money) Sell {
	return Sell{
		acctCmd: acctCmd{
			secCmd:    secCmd{baseCmd: baseCmd{Command: CmdSell, Date: day}, Ticker: ticker},
			Brokerage: brokerage,
		},
		Shares: shares,
		Price:  price,
	}
}

// WithCommission returns a copy of the Sell with the given commission.
func (t Sell) WithCommission(c Money) Sell { t.Commission = c; return t }

// WithLotIDs returns a copy of the Sell selling exactly the named lots in order.
func (t Sell) WithLotIDs(ids ...string) Sell { t.LotIDs = ids; return t }

func (t Sell) Equal(other Event) bool {
	o, ok := other.(Sell)
	return ok && t.acctCmd == o.acctCmd &&
		t.Shares.Equal(o.Shares) && t.Price.Equal(o.Price) &&
		t.Commission.Equal(o.Commission) && slices.Equal(t.LotIDs, o.LotIDs)
}

// Validate checks the Sell event's fields.
func (t Sell) Validate() (Event, error) {
	if err := t.acctCmd.Validate(); err != nil {
		return t, err
	}
	if !t.Shares.IsPositive() {
		return t, fmt.Errorf("sell shares must be positive, got %s", t.Shares)
	}
	if t.Price.IsNegative() {
		return t, fmt.Errorf("sell price must not be negative, got %s", t.Price)
	}
	if t.Commission.IsNegative() {
		return t, fmt.Errorf("sell commission must not be negative, got %s", t.Commission)
	}
	for _, id := range t.LotIDs {
		if id == "" {
			return t, errors.New("sell lot schedule contains an empty lot id")
		}
	}
	return t, nil
}

// MarshalJSON implements the json.Marshaler interface for Sell.
func (t Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.acctCmd)
	w.Append("shares", t.Shares)
	w.Append("price", t.Price.value)
	w.Optional("commission", t.Commission.value)
	if len(t.LotIDs) > 0 {
		w.Append("lots", t.LotIDs)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Sell.
func (t *Sell) UnmarshalJSON(data []byte) error {
	var temp struct {
		acctCmd
		Shares     Quantity        `json:"shares"`
		Price      decimal.Decimal `json:"price"`
		Commission decimal.Decimal `json:"commission"`
		LotIDs     []string        `json:"lots"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.acctCmd = temp.acctCmd
	t.Shares = temp.Shares
	t.Price = M(temp.Price, USD)
	t.Commission = M(temp.Commission, USD)
	t.LotIDs = temp.LotIDs
	return nil
}

// Split represents a stock split. Splits apply retroactively: every lot of
// the ticker acquired on or before the split date is rescaled in place,
// whatever its brokerage. A factor below one is a reverse split.
type Split struct {
	secCmd
	Factor Quantity `json:"factor"`
}

// NewSplit creates a new Split event.
func NewSplit(day date.Date, ticker string, factor Quantity) Split {
	return Split{
		secCmd: secCmd{baseCmd: baseCmd{Command: CmdSplit, Date: day}, Ticker: ticker},
		Factor: factor,
	}
}

func (t Split) Equal(other Event) bool {
	o, ok := other.(Split)
	return ok && t.secCmd == o.secCmd && t.Factor.Equal(o.Factor)
}

// Validate checks the Split event's fields.
func (t Split) Validate() (Event, error) {
	if err := t.secCmd.Validate(); err != nil {
		return t, err
	}
	if !t.Factor.IsPositive() {
		return t, fmt.Errorf("split factor must be positive, got %s", t.Factor)
	}
	return t, nil
}

// MarshalJSON implements the json.Marshaler interface for Split.
func (t Split) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("factor", t.Factor)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Split.
func (t *Split) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		Factor Quantity `json:"factor"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.secCmd = temp.secCmd
	t.Factor = temp.Factor
	return nil
}

// Liquidate represents the forced, global disposal of a ticker (delisting,
// acquisition payout): every brokerage holding open lots sells its full
// position at the payout price on that date.
type Liquidate struct {
	secCmd
	Payout Money // Payout is the per-share payout.
}

// NewLiquidate creates a new Liquidate event.
func NewLiquidate(day date.Date, ticker string, payout Money) Liquidate {
	return Liquidate{
		secCmd: secCmd{baseCmd: baseCmd{Command: CmdLiquidate, Date: day}, Ticker: ticker},
		Payout: payout,
	}
}

func (t Liquidate) Equal(other Event) bool {
	o, ok := other.(Liquidate)
	return ok && t.secCmd == o.secCmd && t.Payout.Equal(o.Payout)
}

// Validate checks the Liquidate event's fields.
func (t Liquidate) Validate() (Event, error) {
	if err := t.secCmd.Validate(); err != nil {
		return t, err
	}
	if t.Payout.IsNegative() {
		return t, fmt.Errorf("liquidation payout must not be negative, got %s", t.Payout)
	}
	return t, nil
}

// MarshalJSON implements the json.Marshaler interface for Liquidate.
func (t Liquidate) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.secCmd)
	w.Append("payout", t.Payout.value)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Liquidate.
func (t *Liquidate) UnmarshalJSON(data []byte) error {
	var temp struct {
		secCmd
		Payout decimal.Decimal `json:"payout"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.secCmd = temp.secCmd
	t.Payout = M(temp.Payout, USD)
	return nil
}

// WashGroup declares a set of tickers treated as substantially identical for
// wash-sale analysis. Declarations are position-independent: they are
// registered before replay starts.
type WashGroup struct {
	baseCmd
	Tickers []string `json:"tickers"`
}

// NewWashGroup creates a new WashGroup event.
func NewWashGroup(day date.Date, tickers ...string) WashGroup {
	return WashGroup{
		baseCmd: baseCmd{Command: CmdWashGroup, Date: day},
		Tickers: tickers,
	}
}

func (t WashGroup) Equal(other Event) bool {
	o, ok := other.(WashGroup)
	return ok && t.baseCmd == o.baseCmd && slices.Equal(t.Tickers, o.Tickers)
}

// Validate checks the WashGroup event's fields.
func (t WashGroup) Validate() (Event, error) {
	t.baseCmd.Validate()
	distinct := make(map[string]bool, len(t.Tickers))
	for _, ticker := range t.Tickers {
		if ticker == "" {
			return t, errors.New("washgroup contains an empty ticker")
		}
		distinct[ticker] = true
	}
	if len(distinct) < 2 {
		return t, fmt.Errorf("washgroup needs at least 2 distinct tickers, got %v", t.Tickers)
	}
	return t, nil
}

// MarshalJSON implements the json.Marshaler interface for WashGroup.
func (t WashGroup) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseCmd)
	w.Append("tickers", t.Tickers)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for WashGroup.
func (t *WashGroup) UnmarshalJSON(data []byte) error {
	var temp struct {
		baseCmd
		Tickers []string `json:"tickers"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseCmd = temp.baseCmd
	t.Tickers = temp.Tickers
	return nil
}

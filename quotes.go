package taxlot

import (
	"fmt"
	"log"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// QuoteProvider fetches the latest known per-share price of a ticker, used to
// value residual holdings at market in reports.
type QuoteProvider interface {
	Quote(ticker string) (Money, error)
}

// yahooChart fetches quotes from the public Yahoo Finance chart endpoint.
// Responses are cached on disk and expire daily, so a report run hits the
// network at most once per ticker per day.
type yahooChart struct {
	client *http.Client
}

// NewYahooQuotes returns a QuoteProvider backed by the Yahoo Finance chart
// endpoint with a daily disk cache.
func NewYahooQuotes() QuoteProvider {
	return &yahooChart{client: daily()}
}

/*
	{
	    "chart": {
	        "result": [
	            {
	                "meta": {
	                    "currency": "USD",
	                    "symbol": "SPY",
	                    "regularMarketPrice": 445.87,
	                    ...
*/
func (y *yahooChart) Quote(ticker string) (Money, error) {
	addr := "https://query1.finance.yahoo.com/v8/finance/chart/" + ticker + "?range=1d&interval=1d"

	var jobj any
	if err := jwget(y.client, addr, &jobj); err != nil {
		return Money{}, fmt.Errorf("error retrieving quote for %q: %w", ticker, err)
	}

	path := "$.chart.result[0].meta.regularMarketPrice"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return Money{}, fmt.Errorf("error parsing quote for %q: %q %w", ticker, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	val, ok := jval.(float64)
	if !ok {
		return Money{}, fmt.Errorf("error parsing quote for %q: %q not a number: %v", ticker, path, jval)
	}
	return M(decimal.NewFromFloat(val), USD), nil
}

// FetchQuotes collects quotes for all the given tickers from a provider. A
// ticker whose quote fails is skipped so that a flaky network degrades the
// report to cost-basis only.
func FetchQuotes(provider QuoteProvider, tickers []string) map[string]Money {
	prices := make(map[string]Money, len(tickers))
	for _, ticker := range tickers {
		quote, err := provider.Quote(ticker)
		if err != nil {
			log.Printf("no quote for %s: %v", ticker, err)
			continue
		}
		prices[ticker] = quote
	}
	return prices
}

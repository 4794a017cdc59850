package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/taxlot"
	"github.com/etnz/taxlot/date"
	"github.com/etnz/taxlot/docs"
	"github.com/etnz/taxlot/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// LedgerFile is the ledger the accountant's tools operate on. The CLI sets it
// from its own flag before starting the agent.
var LedgerFile = "transactions.jsonl"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand the tax consequences of his stock trades:
			realized gains, wash sales, cost basis of what he still holds.

			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.

			The user will assume that you know about his trades, check the ledger first to understand them.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAccountant returns the expert in charge of reading the user's tax-lot
// ledger and computing sales and holdings figures.
func NewAccountant() *Expert {

	lib := []Function{Sales, Holdings}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's tax-lot ledger.
		He can replay the trade history to compute realized gains, wash-sale disallowances and residual holdings.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's tax-lot ledger.
				You know how to use the Tools to extract relevant information about the user's trades.
				You are part of a team of experts, yours is everything about realized gains, wash sales
				and cost basis. Pardon their approximative language and figure out what they meant.

				The wash-sale rules you apply are documented below:

				` + must(docs.GetTopic("wash-sales")),
			}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// failure builds the error response of a function call.
func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

var Sales = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Sales",
		Description: `Sales replays the user's full trade history and returns the sale items of a period:
		proceeds, cost basis, short or long term, wash-sale flags and disallowed losses, with totals.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"start": {
					Type:        genai.TypeString,
					Description: "Only report sales sold on or after this date (YYYY-MM-DD). Open when omitted.",
				},
				"end": {
					Type:        genai.TypeString,
					Description: "Only report sales sold on or before this date (YYYY-MM-DD). Open when omitted.",
				},
			},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted sales report with per-item figures and totals.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		period, err := parsePeriod(args)
		if err != nil {
			return failure(id, "Sales", err)
		}
		result, err := replayLedger()
		if err != nil {
			return failure(id, "Sales", err)
		}
		return &genai.FunctionResponse{
			ID:   id,
			Name: "Sales",
			Response: map[string]any{
				"output": renderer.SalesMarkdown(taxlot.NewSalesReport(result, period)),
			},
		}
	},
}

var Holdings = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Holdings",
		Description: `Holdings replays the user's full trade history and returns the residual open lots:
		per-position shares, cost basis and added basis, and the individual lots behind them.`,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted holdings report.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		result, err := replayLedger()
		if err != nil {
			return failure(id, "Holdings", err)
		}
		report := taxlot.NewHoldingsReport(result, date.Today(), nil)
		return &genai.FunctionResponse{
			ID:   id,
			Name: "Holdings",
			Response: map[string]any{
				"output": renderer.HoldingsMarkdown(report),
			},
		}
	},
}

// replayLedger loads and replays the agent's ledger file.
func replayLedger() (*taxlot.Result, error) {
	f, err := os.Open(LedgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// If the file doesn't exist, it's an empty ledger.
			return taxlot.NewLedger().Replay()
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", LedgerFile, err)
	}
	defer f.Close()

	ledger, err := taxlot.DecodeEvents(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", LedgerFile, err)
	}
	return ledger.Replay()
}

func parsePeriod(args map[string]any) (date.Range, error) {
	bound := func(name string) (date.Date, error) {
		ivalue, has := args[name]
		if !has {
			return date.Date{}, nil
		}
		svalue, ok := ivalue.(string)
		if !ok {
			return date.Date{}, fmt.Errorf("argument %q is not a string as expected but %T", name, ivalue)
		}
		if svalue == "" {
			return date.Date{}, nil
		}
		return date.Parse(svalue)
	}
	from, err := bound("start")
	if err != nil {
		return date.Range{}, err
	}
	to, err := bound("end")
	if err != nil {
		return date.Range{}, err
	}
	return date.NewRange(from, to)
}

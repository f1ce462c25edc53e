package agent

import (
	"context"
	"fmt"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/renderer"
	"google.golang.org/genai"
)

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

var markdownResponse = &genai.Schema{
	Type:        genai.TypeString,
	Description: "A markdown report.",
}

// NewTools returns the functions giving access to a report.
func NewTools(report *capgains.Report) []Function {
	gains := &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Gains",
			Description: "Gains returns the realized gains per symbol, and their total.",
			Response:    markdownResponse,
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return outputResponse(id, "Gains", renderer.GainsMarkdown(report))
		},
	}

	closing := &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Closing",
			Description: `Closing lists every trade that realized a gain, with the lots it closed and
			the profit of each, then the short positions still open.`,
			Response: markdownResponse,
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return outputResponse(id, "Closing", renderer.CloseFirstMarkdown(report))
		},
	}

	lots := &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Lots",
			Description: "Lots lists the lots of a single symbol, in matching order.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol": {
						Type:        genai.TypeString,
						Description: "The symbol, as listed by Gains.",
					},
				},
				Required: []string{"symbol"},
			},
			Response: markdownResponse,
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			symbol, ok := args["symbol"].(string)
			if !ok {
				return errorResponse(id, "Lots", fmt.Errorf("invalid symbol type got %T, expected string", args["symbol"]))
			}
			sub := &capgains.Report{Year: report.Year}
			for _, l := range report.Lots {
				if s, _ := capgains.NormalizeSymbol(l.Opening.Symbol); s == symbol {
					sub.Lots = append(sub.Lots, l)
				}
			}
			if len(sub.Lots) == 0 {
				return errorResponse(id, "Lots", fmt.Errorf("no lot for symbol %q", symbol))
			}
			return outputResponse(id, "Lots", renderer.LotsMarkdown(sub))
		},
	}
	return []Function{gains, closing, lots}
}

package agent

import (
	"fmt"

	"github.com/etnz/capgains"
	"github.com/etnz/capgains/docs"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-pro"

// NewAdvisor returns the tax advisor expert reviewing report.
func NewAdvisor(model string, report *capgains.Report) (*Expert, error) {
	if model == "" {
		model = DefaultModel
	}
	matching, err := docs.GetTopic("matching")
	if err != nil {
		return nil, err
	}
	year := "every year"
	if report.Year != 0 {
		year = fmt.Sprintf("the tax year %d", report.Year)
	}
	tools := NewTools(report)
	return &Expert{
		Name:      "Advisor",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(tools)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a tax advisor reviewing the realized capital gains of a brokerage account
			for ` + year + `. Gains were computed first-in first-out, in EUR, as follows:

			` + matching + `

			Use the Tools to read the gains, the closing trades and the lots of a symbol.
			Explain the figures in plain language, point out large gains or losses,
			short positions still open and symbols whose suffix was stripped.
			Never change a figure, and never give legal advice.
			`}}},
		},
		Library: NewLibrary(tools),
	}, nil
}

package agent

import (
	"context"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

// Library dispatches the function calls the model makes during a chat.
type Library func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse

// Expert represents a chat with the categorization expert.
type Expert struct {
	Name        string
	Description string
	ModelName   string
	Config      *genai.GenerateContentConfig
	Library     Library
	chat        *genai.Chat
}

const categorizerInstructions = `You are a portfolio categorization expert.
The user maintains a hierarchical risk-parity allocation plan. When asked
about an instrument (a ticker, fund name or ISIN), propose one or more plan
categories for it, using EXACTLY the labels listed below.

Before answering, call propose_allocations with your split so it is checked
against the plan. Then answer with the allocation line the call returns, e.g.:

    Equities / Developed / NAM=70, Equities / Developed / Europe=30

followed by one short sentence of rationale. Weights are percentages and must
sum to 100.

Available categories:

`

// NewCategorizer builds the expert primed with the plan's category labels.
// Its single tool, propose_allocations, validates a proposed split against
// those labels before the model presents it.
func NewCategorizer(labels []string) *Expert {
	var b strings.Builder
	b.WriteString(categorizerInstructions)
	for _, label := range labels {
		fmt.Fprintf(&b, "- %s\n", label)
	}
	return &Expert{
		Name:        "categorizer",
		Description: "proposes plan category allocations for statement instruments",
		ModelName:   "gemini-2.5-flash",
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: b.String()}},
			},
			Tools: []*genai.Tool{
				{FunctionDeclarations: []*genai.FunctionDeclaration{proposeAllocationsDeclaration()}},
			},
		},
		Library: newCategorizerLibrary(labels),
	}
}

// Start creates the underlying chat session.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask sends the parts to the expert and returns its reply content. Function
// calls are dispatched through the library and the chat resumed with their
// response until the expert produces a plain reply.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("expert %s has not been started", e.Name)
	}
	resp, err := e.chat.Send(ctx, parts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from expert %s", e.Name)
	}
	part0 := resp.Candidates[0].Content.Parts[0]
	if part0.FunctionCall != nil {
		if e.Library == nil {
			return nil, fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
		}
		fresp := e.Library(ctx, part0.FunctionCall)
		return e.Ask(ctx, &genai.Part{FunctionResponse: fresp})
	}
	return resp.Candidates[0].Content, nil
}

func proposeAllocationsDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "propose_allocations",
		Description: "Check a proposed split of an instrument across plan categories and format the allocation line for the user.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"instrument": {
					Type:        genai.TypeString,
					Description: "The instrument being categorized: ticker, ISIN or fund name.",
				},
				"allocations": {
					Type:        genai.TypeArray,
					Description: "The proposed split. Weights are percentages summing to 100.",
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"category": {
								Type:        genai.TypeString,
								Description: "A plan category label, exactly as listed.",
							},
							"weight": {
								Type:        genai.TypeNumber,
								Description: "Percentage of the instrument value, in (0, 100].",
							},
						},
						Required: []string{"category", "weight"},
					},
				},
			},
			Required: []string{"instrument", "allocations"},
		},
	}
}

// newCategorizerLibrary builds the dispatcher backing propose_allocations.
// Labels are matched ignoring case and surrounding space, same leniency the
// interactive categorize dialogue grants the user.
func newCategorizerLibrary(labels []string) Library {
	known := make(map[string]string, len(labels))
	for _, label := range labels {
		known[normalizeLabel(label)] = label
	}
	return func(_ context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		fresp := &genai.FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: map[string]any{},
		}
		if call.Name != "propose_allocations" {
			fresp.Response["error"] = fmt.Sprintf("unknown function %s", call.Name)
			return fresp
		}
		line, err := checkAllocations(known, call.Args)
		if err != nil {
			fresp.Response["error"] = err.Error()
			return fresp
		}
		fresp.Response["allocation_line"] = line
		return fresp
	}
}

// checkAllocations validates the call arguments against the plan labels and
// returns the allocation line in the form the CLI accepts.
func checkAllocations(known map[string]string, args map[string]any) (string, error) {
	entries, ok := args["allocations"].([]any)
	if !ok || len(entries) == 0 {
		return "", fmt.Errorf("allocations must be a non-empty list")
	}
	var parts []string
	var total float64
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			return "", fmt.Errorf("each allocation must be an object with category and weight")
		}
		category, _ := m["category"].(string)
		label, ok := known[normalizeLabel(category)]
		if !ok {
			return "", fmt.Errorf("unknown category %q, use one of the listed plan labels", category)
		}
		weight, ok := m["weight"].(float64)
		if !ok || weight <= 0 || weight > 100 {
			return "", fmt.Errorf("weight for %q must be a percentage in (0, 100]", label)
		}
		total += weight
		parts = append(parts, fmt.Sprintf("%s=%g", label, weight))
	}
	if math.Abs(total-100) > 0.5 {
		return "", fmt.Errorf("weights must sum to 100, got %g", total)
	}
	return strings.Join(parts, ", "), nil
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

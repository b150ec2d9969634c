package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"paddy-books/internal/core"
)

// ErrNotConfigured is returned when no API key was supplied.
var ErrNotConfigured = errors.New("ai interpreter is not configured: set OPENAI_API_KEY")

// lowConfidence marks proposals the user should read carefully.
const lowConfidence = 0.6

// SaleInterpreter turns a free-text description of a sale into a draft.
type SaleInterpreter interface {
	InterpretSale(ctx context.Context, text string, stock []core.StockItem) (*SaleResult, error)
}

// SaleResult is either a question for the user or a draft ready for the
// confirm step. Nothing has been saved.
type SaleResult struct {
	Clarification string          `json:"clarification,omitempty"`
	Draft         *core.SaleDraft `json:"draft,omitempty"`
	Confidence    float64         `json:"confidence"`
	Reasoning     string          `json:"reasoning,omitempty"`
	LowConfidence bool            `json:"low_confidence"`
}

// NeedsClarification reports whether the model asked a question instead.
func (r *SaleResult) NeedsClarification() bool {
	return r.Clarification != ""
}

type Agent struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func NewAgent(apiKey, model string) *Agent {
	if model == "" {
		model = string(shared.ChatModelGPT4oMini)
	}
	a := &Agent{model: model, now: time.Now}
	if apiKey != "" {
		client := openai.NewClient(option.WithAPIKey(apiKey))
		a.client = &client
	}
	return a
}

func (a *Agent) InterpretSale(ctx context.Context, text string, stock []core.StockItem) (*SaleResult, error) {
	if a.client == nil {
		return nil, ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: describe the sale first", core.ErrInvalidInput)
	}

	schemaMap, err := saleSchema()
	if err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(buildSalePrompt(text, stock, a.now())),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "sale_interpretation",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A sale read from a shop owner's description, or a clarifying question"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}
	return parseInterpretation(content)
}

func buildSalePrompt(text string, stock []core.StockItem, now time.Time) string {
	return fmt.Sprintf(`You are the bookkeeping assistant of a small Nigerian business.
Read the owner's description of a sale and extract it.
Rules:
1. Amounts are in naira. Return every number as a plain string (e.g. "1500", "2.5").
2. When an item matches the stock list, set item_code and use one of its units.
3. Use unit_price "0" to take the listed price for that unit.
4. payment_type is "paid", "partial" or "later". amount_paid is only for "partial".
5. If the quantity or the price cannot be determined, ask ONE short clarifying question instead.
6. Provide a confidence score (0.0-1.0) and a short reasoning.

Today is %s.

Stock items:
%s

Sale description: %s`, now.Format("2006-01-02"), formatStock(stock), text)
}

func formatStock(stock []core.StockItem) string {
	if len(stock) == 0 {
		return "(none, treat every line as unstocked)"
	}
	var b strings.Builder
	for _, it := range stock {
		fmt.Fprintf(&b, "- %s %s: %s at %s", it.Code, it.Name, it.BulkUnit, it.BulkSellingPrice.StringFixed(2))
		for _, u := range it.RetailUnits {
			fmt.Fprintf(&b, "; %s at %s", u.Name, u.SellingPrice.StringFixed(2))
		}
		fmt.Fprintf(&b, " (on hand %s %s)\n", it.QuantityInBulk.String(), it.BulkUnit)
	}
	return strings.TrimRight(b.String(), "\n")
}

// parseInterpretation decodes the model output and runs the proposal through
// the input boundary.
func parseInterpretation(content string) (*SaleResult, error) {
	var interp core.SaleInterpretation
	if err := json.Unmarshal([]byte(content), &interp); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if interp.IsClarificationRequest {
		if interp.Clarification == nil || strings.TrimSpace(interp.Clarification.Message) == "" {
			return nil, fmt.Errorf("clarification requested without a message")
		}
		return &SaleResult{Clarification: strings.TrimSpace(interp.Clarification.Message)}, nil
	}
	if interp.Proposal == nil {
		return nil, fmt.Errorf("response has neither a proposal nor a clarification")
	}

	p := interp.Proposal
	p.Normalize()
	if len(p.Lines) == 0 {
		return &SaleResult{Clarification: "What did you sell? I could not find any items in that description."}, nil
	}
	draft, err := p.ToDraft()
	if err != nil {
		return nil, fmt.Errorf("proposal validation failed: %w", err)
	}

	return &SaleResult{
		Draft:         &draft,
		Confidence:    p.Confidence,
		Reasoning:     p.Reasoning,
		LowConfidence: p.Confidence < lowConfidence,
	}, nil
}

func saleSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(core.SaleInterpretation{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}

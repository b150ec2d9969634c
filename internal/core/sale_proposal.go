package core

import (
	"strings"
)

// SaleProposalLine is one line of a sale as read out of free text. Numbers
// stay strings so the model can return whatever the user typed ("₦1,500").
type SaleProposalLine struct {
	ItemCode  string `json:"item_code" jsonschema_description:"Code of the matching stock item from the provided list, or empty if the item is not stocked"`
	ItemName  string `json:"item_name" jsonschema_description:"What was sold, as the user described it"`
	Unit      string `json:"unit" jsonschema_description:"Unit sold (e.g. 'bag', 'cup', 'derica'). Must be the stock item's bulk unit or one of its retail units when item_code is set."`
	Quantity  string `json:"quantity" jsonschema_description:"Quantity sold as a string, e.g. '3' or '1.5'"`
	UnitPrice string `json:"unit_price" jsonschema_description:"Selling price per unit in naira as a string. Use '0' to take the stock item's list price."`
	CostPrice string `json:"cost_price" jsonschema_description:"Cost per unit in naira as a string if the user mentioned it, otherwise '0'"`
}

// SaleProposal is the AI-extracted sale before it is checked.
type SaleProposal struct {
	Kind          string             `json:"kind" jsonschema_description:"'product' for goods or 'service' for labour or services"`
	CustomerName  string             `json:"customer_name" jsonschema_description:"Customer name if mentioned, otherwise empty"`
	CustomerPhone string             `json:"customer_phone" jsonschema_description:"Customer phone number if mentioned, otherwise empty"`
	SaleDate      string             `json:"sale_date" jsonschema_description:"Date of the sale in YYYY-MM-DD format. Use today's date if unspecified."`
	PaymentType   string             `json:"payment_type" jsonschema_description:"'paid' if fully paid, 'partial' if the customer paid part, 'later' if nothing was paid yet"`
	AmountPaid    string             `json:"amount_paid" jsonschema_description:"Amount the customer paid now, as a string. Only meaningful when payment_type is 'partial'; otherwise '0'."`
	Notes         string             `json:"notes" jsonschema_description:"Any other detail worth keeping"`
	Confidence    float64            `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning     string             `json:"reasoning" jsonschema_description:"Short explanation of how the text was read"`
	Lines         []SaleProposalLine `json:"lines" jsonschema_description:"Items or services sold. At least one."`
}

// ClarificationRequest asks the user for the details the model could not infer.
type ClarificationRequest struct {
	Message string `json:"message" jsonschema_description:"A short question asking for what is missing (e.g. 'How much did you sell each cup for?')"`
}

// SaleInterpretation branches between a usable proposal and a question.
type SaleInterpretation struct {
	IsClarificationRequest bool                  `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if quantity or price cannot be determined."`
	Clarification          *ClarificationRequest `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true."`
	Proposal               *SaleProposal         `json:"proposal,omitempty" jsonschema_description:"Required if is_clarification_request is false."`
}

func isBlank(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || s == "null" || s == "none" || s == "n/a"
}

// Normalize cleans up model output: "null" strings, blank numbers, stray case.
func (p *SaleProposal) Normalize() {
	if isBlank(p.Kind) {
		p.Kind = string(KindProduct)
	}
	if isBlank(p.PaymentType) {
		p.PaymentType = string(PaymentPaid)
	}
	if isBlank(p.AmountPaid) {
		p.AmountPaid = "0"
	}
	if isBlank(p.SaleDate) {
		p.SaleDate = ""
	}
	if isBlank(p.CustomerName) {
		p.CustomerName = ""
	}
	if isBlank(p.CustomerPhone) {
		p.CustomerPhone = ""
	}

	for i := range p.Lines {
		line := &p.Lines[i]
		if isBlank(line.ItemCode) {
			line.ItemCode = ""
		}
		if isBlank(line.Unit) {
			line.Unit = ""
		}
		if isBlank(line.UnitPrice) {
			line.UnitPrice = "0"
		}
		if isBlank(line.CostPrice) {
			line.CostPrice = "0"
		}
	}
}

// ToDraft parses the proposal through the input boundary. Zero prices are
// left for stock pricing to fill; the draft is not validated here.
func (p *SaleProposal) ToDraft() (SaleDraft, error) {
	d := SaleDraft{
		Kind:          SaleKind(p.Kind),
		CustomerName:  p.CustomerName,
		CustomerPhone: p.CustomerPhone,
		SaleDate:      p.SaleDate,
		PaymentType:   PaymentType(p.PaymentType),
		Notes:         p.Notes,
	}

	paid, err := ParseOptionalAmount("amount paid", p.AmountPaid)
	if err != nil {
		return SaleDraft{}, err
	}
	d.AmountPaid = paid

	for _, l := range p.Lines {
		qty, err := ParseQuantity("quantity of "+l.ItemName, l.Quantity)
		if err != nil {
			return SaleDraft{}, err
		}
		price, err := ParseOptionalAmount("price of "+l.ItemName, l.UnitPrice)
		if err != nil {
			return SaleDraft{}, err
		}
		cost, err := ParseOptionalAmount("cost of "+l.ItemName, l.CostPrice)
		if err != nil {
			return SaleDraft{}, err
		}
		d.Lines = append(d.Lines, SaleLineInput{
			ItemCode:  l.ItemCode,
			ItemName:  l.ItemName,
			Unit:      l.Unit,
			Quantity:  qty,
			UnitPrice: price,
			CostPrice: cost,
		})
	}
	d.Normalize()
	return d, nil
}

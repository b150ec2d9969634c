package core

import (
	"github.com/shopspring/decimal"
)

// TaxBand is one slice of the progressive schedule. A zero Width means the
// band is unbounded.
type TaxBand struct {
	Width decimal.Decimal
	Rate  decimal.Decimal // percent
}

// The schedule below is a planning placeholder, not a statement of current
// law. Businesses should confirm liabilities with a tax professional.
var taxBands = []TaxBand{
	{Width: decimal.NewFromInt(800_000), Rate: decimal.Zero},
	{Width: decimal.NewFromInt(2_200_000), Rate: decimal.NewFromInt(15)},
	{Width: decimal.NewFromInt(9_000_000), Rate: decimal.NewFromInt(18)},
	{Width: decimal.NewFromInt(13_000_000), Rate: decimal.NewFromInt(21)},
	{Width: decimal.NewFromInt(25_000_000), Rate: decimal.NewFromInt(23)},
	{Width: decimal.Zero, Rate: decimal.NewFromInt(25)},
}

// TaxBandLine is the tax computed in one band.
type TaxBandLine struct {
	From    decimal.Decimal `json:"from"`
	To      decimal.Decimal `json:"to"` // zero when unbounded
	Rate    decimal.Decimal `json:"rate"`
	Taxable decimal.Decimal `json:"taxable"`
	Tax     decimal.Decimal `json:"tax"`
}

type TaxEstimate struct {
	AnnualIncome     decimal.Decimal `json:"annual_income"`
	Deductions       decimal.Decimal `json:"deductions"`
	Taxable          decimal.Decimal `json:"taxable"`
	Bands            []TaxBandLine   `json:"bands"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	EffectiveRate    decimal.Decimal `json:"effective_rate"` // percent of annual income
	MonthlyProvision decimal.Decimal `json:"monthly_provision"`
}

// EstimateTax applies the progressive schedule to income less deductions.
// Negative inputs clamp to zero.
func EstimateTax(annualIncome, deductions decimal.Decimal) TaxEstimate {
	if annualIncome.IsNegative() {
		annualIncome = decimal.Zero
	}
	if deductions.IsNegative() {
		deductions = decimal.Zero
	}
	taxable := annualIncome.Sub(deductions)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	est := TaxEstimate{
		AnnualIncome: annualIncome,
		Deductions:   deductions,
		Taxable:      taxable,
		TotalTax:     decimal.Zero,
	}

	remaining := taxable
	from := decimal.Zero
	for _, b := range taxBands {
		if !remaining.IsPositive() {
			break
		}
		slice := remaining
		to := decimal.Zero
		if !b.Width.IsZero() {
			slice = decimal.Min(remaining, b.Width)
			to = from.Add(b.Width)
		}
		tax := slice.Mul(b.Rate).Div(hundred).Round(2)
		est.Bands = append(est.Bands, TaxBandLine{From: from, To: to, Rate: b.Rate, Taxable: slice, Tax: tax})
		est.TotalTax = est.TotalTax.Add(tax)
		remaining = remaining.Sub(slice)
		from = to
	}

	est.EffectiveRate = decimal.Zero
	if annualIncome.IsPositive() {
		est.EffectiveRate = est.TotalTax.Div(annualIncome).Mul(hundred).Round(2)
	}
	est.MonthlyProvision = est.TotalTax.Div(decimal.NewFromInt(12)).Round(2)
	return est
}

package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddy-books/internal/ai"
	"paddy-books/internal/app"
	"paddy-books/internal/core"
)

type fakeService struct {
	app.ApplicationService

	previews   []app.RecordSaleRequest
	recorded   []app.RecordSaleRequest
	previewErr error
	interpret  []*app.AIResult
	texts      []string
	aiErr      error
}

func (f *fakeService) LoadDefaultBusiness(context.Context) (*core.Business, error) {
	return &core.Business{Code: "MAMA", Name: "Mama Ngozi Provisions"}, nil
}

func (f *fakeService) PreviewSale(_ context.Context, req app.RecordSaleRequest) (*core.SalePreview, error) {
	f.previews = append(f.previews, req)
	if f.previewErr != nil {
		err := f.previewErr
		f.previewErr = nil
		return nil, err
	}
	return &core.SalePreview{
		Draft:  core.SaleDraft{Kind: core.SaleKind(req.Kind), PaymentType: core.PaymentPaid, SaleDate: "2026-03-01"},
		Totals: core.SaleTotals{Total: decimal.NewFromInt(1000), AmountPaid: decimal.NewFromInt(1000)},
	}, nil
}

func (f *fakeService) RecordSale(_ context.Context, req app.RecordSaleRequest) (*app.SaleResult, error) {
	f.recorded = append(f.recorded, req)
	return &app.SaleResult{Sale: &core.Sale{Reference: fmt.Sprintf("SAL-2026-%05d", len(f.recorded))}, CoinsAwarded: 5}, nil
}

func (f *fakeService) InterpretSale(_ context.Context, _, text string) (*app.AIResult, error) {
	f.texts = append(f.texts, text)
	if f.aiErr != nil {
		return nil, f.aiErr
	}
	res := f.interpret[0]
	f.interpret = f.interpret[1:]
	return res, nil
}

func (f *fakeService) GetWallet(context.Context, string) (*app.WalletResult, error) {
	return &app.WalletResult{
		Balance:     core.CoinBalance{Balance: 120, TotalEarned: 140, TotalRedeemed: 20},
		Level:       core.ResolveLevel(140),
		Tier:        core.GetTier(120),
		Redemptions: core.AffordableOptions(120),
	}, nil
}

func run(t *testing.T, svc app.ApplicationService, input string) string {
	t.Helper()
	var out bytes.Buffer
	err := Run(context.Background(), svc, bufio.NewReader(strings.NewReader(input)), &out)
	require.NoError(t, err)
	return out.String()
}

func TestSaleWizard_SavesAfterConfirm(t *testing.T) {
	svc := &fakeService{}
	out := run(t, svc, strings.Join([]string{
		"/sale",
		"",             // product
		"RICE50 3 cup", // line 1
		"BEANS 1 bag 52000",
		"done",
		"Ngozi",
		"partial",
		"1000",
		"y",
		"/exit",
	}, "\n")+"\n")

	require.Len(t, svc.recorded, 1)
	req := svc.recorded[0]
	assert.Equal(t, "MAMA", req.BusinessCode)
	assert.Equal(t, "Ngozi", req.CustomerName)
	assert.Equal(t, "partial", req.PaymentType)
	assert.Equal(t, "1000", req.AmountPaid)
	require.Len(t, req.Lines, 2)
	assert.Equal(t, app.SaleLineRequest{ItemCode: "RICE50", Quantity: "3", Unit: "cup"}, req.Lines[0])
	assert.Equal(t, "52000", req.Lines[1].UnitPrice)
	assert.Contains(t, out, "Sale SAL-2026-00001 saved. +5 coins")
	assert.Contains(t, out, "Goodbye!")
}

func TestSaleWizard_BackAfterInvalidEntry(t *testing.T) {
	svc := &fakeService{previewErr: fmt.Errorf("%w: line 1 quantity must be greater than zero", core.ErrInvalidInput)}
	out := run(t, svc, strings.Join([]string{
		"/sale",
		"service", "1500 hair wash", "done", "", "",
		// back at entry after the rejected preview
		"service", "2000 hair wash", "done", "", "",
		"y",
	}, "\n")+"\n")

	assert.Contains(t, out, "Cannot save")
	require.Len(t, svc.previews, 2)
	require.Len(t, svc.recorded, 1)
	assert.Equal(t, "service", svc.recorded[0].Kind)
	assert.Equal(t, app.SaleLineRequest{ItemName: "hair wash", Quantity: "1", UnitPrice: "2000"}, svc.recorded[0].Lines[0])
}

func TestSaleWizard_Cancel(t *testing.T) {
	svc := &fakeService{}
	out := run(t, svc, "/sale\ncancel\n/exit\n")
	assert.Contains(t, out, "Sale cancelled.")
	assert.Empty(t, svc.recorded)
}

func TestNaturalLanguageSale_ClarifiesThenSaves(t *testing.T) {
	draft := core.SaleDraft{
		Kind: core.KindProduct, SaleDate: "2026-03-01", PaymentType: core.PaymentPaid,
		Lines: []core.SaleLineInput{{ItemCode: "RICE50", ItemName: "Rice", Unit: "cup", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(500), CostPrice: decimal.NewFromInt(380)}},
	}
	svc := &fakeService{interpret: []*app.AIResult{
		{Clarification: "How many cups?"},
		{Preview: &core.SalePreview{Draft: draft, Totals: draft.Totals()}, Draft: &draft, Confidence: 0.5, LowConfidence: true},
	}}

	out := run(t, svc, "sold rice to a customer\n4 cups\ny\n")

	require.Len(t, svc.texts, 2)
	assert.Contains(t, svc.texts[1], "User answer: 4 cups")
	assert.Contains(t, out, "How many cups?")
	assert.Contains(t, out, "Low confidence")
	require.Len(t, svc.recorded, 1)
	line := svc.recorded[0].Lines[0]
	assert.Equal(t, "RICE50", line.ItemCode)
	assert.Equal(t, "4", line.Quantity)
	assert.Equal(t, "500", line.UnitPrice)
}

func TestNaturalLanguageSale_Problem(t *testing.T) {
	svc := &fakeService{interpret: []*app.AIResult{{Problem: "Rice has 0.50 bag left, sale needs 2.00: insufficient stock"}}}
	out := run(t, svc, "sold 2 bags of rice\n")
	assert.Contains(t, out, "cannot be saved")
	assert.Empty(t, svc.recorded)
}

func TestNaturalLanguageSale_NoAgent(t *testing.T) {
	svc := &fakeService{aiErr: ai.ErrNotConfigured}
	out := run(t, svc, "sold 2 bags of rice\n")
	assert.Contains(t, out, "not set up")
}

func TestCoinsAndUnknownCommand(t *testing.T) {
	out := run(t, &fakeService{}, "/coins\n/frobnicate\n")
	assert.Contains(t, out, "Balance: 120 coins")
	assert.Contains(t, out, "Bronze")
	assert.Contains(t, out, "airtime-500")
	assert.Contains(t, out, "Unknown command: /frobnicate")
}

package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"paddy-books/internal/ai"
	"paddy-books/internal/core"
	"paddy-books/internal/events"
)

// Fakes embed the core interface so only the methods a test needs are written;
// anything else panics on the nil embedded value.

type fakeWallet struct {
	core.CoinWallet
	mu      sync.Mutex
	keys    map[string]bool
	awarded []core.CoinAction
	err     error
}

func (w *fakeWallet) Award(_ context.Context, _ string, action core.CoinAction, key, desc string) (*core.CoinAward, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	if w.keys == nil {
		w.keys = map[string]bool{}
	}
	coins, _ := core.RewardFor(action)
	tx := core.CoinTransaction{Kind: core.CoinEarn, Action: string(action), Amount: coins, IdempotencyKey: key, Description: desc}
	if w.keys[key] {
		return &core.CoinAward{Transaction: tx, Duplicate: true}, nil
	}
	w.keys[key] = true
	w.awarded = append(w.awarded, action)
	return &core.CoinAward{Transaction: tx}, nil
}

func (w *fakeWallet) Redeem(_ context.Context, _ string, optionID, key string) (*core.CoinRedemption, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	if w.keys == nil {
		w.keys = map[string]bool{}
	}
	option, _ := core.FindRedemptionOption(optionID)
	tx := core.CoinTransaction{Kind: core.CoinRedeem, Action: "redeem:" + optionID, Amount: -option.Cost, IdempotencyKey: key}
	if key != "" && w.keys[key] {
		return &core.CoinRedemption{Transaction: tx, Duplicate: true}, nil
	}
	w.keys[key] = true
	return &core.CoinRedemption{Transaction: tx}, nil
}

type fakeSales struct {
	core.SaleService
	recorded   []core.SaleDraft
	count      int
	previewErr error
}

func (f *fakeSales) RecordSale(_ context.Context, _ string, d core.SaleDraft) (*core.Sale, error) {
	f.recorded = append(f.recorded, d)
	f.count++
	t := d.Totals()
	return &core.Sale{
		Reference:   fmt.Sprintf("SAL-2026-%05d", f.count),
		Kind:        d.Kind,
		PaymentType: d.PaymentType,
		Total:       t.Total,
		AmountPaid:  t.AmountPaid,
		Balance:     t.Balance,
	}, nil
}

func (f *fakeSales) CountSales(context.Context, string) (int, error) { return f.count, nil }

func (f *fakeSales) PreviewSale(_ context.Context, _ string, d core.SaleDraft) (*core.SalePreview, error) {
	if f.previewErr != nil {
		return nil, f.previewErr
	}
	return &core.SalePreview{Draft: d, Totals: d.Totals()}, nil
}

type fakeStock struct {
	core.StockService
	items       []core.StockItem
	restockCost decimal.Decimal
}

func (f *fakeStock) GetItems(context.Context, string) ([]core.StockItem, error) { return f.items, nil }

func (f *fakeStock) GetItem(_ context.Context, _ string, code string) (*core.StockItem, error) {
	for i := range f.items {
		if f.items[i].Code == code {
			return &f.items[i], nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStock) Restock(ctx context.Context, business, code string, qty, cost decimal.Decimal, _ string) (*core.StockItem, error) {
	f.restockCost = cost
	it, err := f.GetItem(ctx, business, code)
	if err != nil {
		return nil, err
	}
	it.QuantityInBulk = it.QuantityInBulk.Add(qty)
	return it, nil
}

type fakeUsers struct {
	core.UserService
	users map[string]*core.User
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*core.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, evts ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeLoans struct {
	core.LoanService
	balance int64
	revenue decimal.Decimal
}

func (f *fakeLoans) Apply(_ context.Context, _ string, amount decimal.Decimal, months int, purpose string) (*core.LoanApplication, error) {
	e := core.ComputeEligibility(f.balance, f.revenue)
	if err := core.ValidateLoanRequest(e, amount, months); err != nil {
		return nil, err
	}
	inst, err := core.ComputeInstallment(amount, months, e.Tier.MonthlyInterestRate)
	if err != nil {
		return nil, err
	}
	return &core.LoanApplication{
		Reference:           "LN-2026-00001",
		TierLevel:           e.Tier.Level,
		TierName:            e.Tier.Name,
		Amount:              amount,
		Months:              months,
		MonthlyInterestRate: e.Tier.MonthlyInterestRate,
		TotalRepayment:      inst.TotalRepayment,
		MonthlyPayment:      inst.MonthlyPayment,
		Purpose:             purpose,
		Status:              core.LoanPending,
	}, nil
}

type fakeAgent struct {
	result *ai.SaleResult
	err    error
}

func (a fakeAgent) InterpretSale(context.Context, string, []core.StockItem) (*ai.SaleResult, error) {
	return a.result, a.err
}

type harness struct {
	svc    *appService
	wallet *fakeWallet
	sales  *fakeSales
	stock  *fakeStock
	users  *fakeUsers
	loans  *fakeLoans
	pub    *fakePublisher
}

func newHarness(agent ai.SaleInterpreter) *harness {
	h := &harness{
		wallet: &fakeWallet{},
		sales:  &fakeSales{},
		stock:  &fakeStock{},
		users:  &fakeUsers{users: map[string]*core.User{}},
		loans:  &fakeLoans{},
		pub:    &fakePublisher{},
	}
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	h.svc = NewAppService(Services{
		Wallet: h.wallet,
		Sales:  h.sales,
		Stock:  h.stock,
		Users:  h.users,
		Loans:  h.loans,
	}, Options{
		Agent:     agent,
		Publisher: h.pub,
		Now:       func() time.Time { return fixed },
	}).(*appService)
	return h
}

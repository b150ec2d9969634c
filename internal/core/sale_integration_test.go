package core_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paddy-books/internal/core"
)

func seedRice(t *testing.T, stock core.StockService) *core.StockItem {
	t.Helper()
	item, err := stock.CreateItem(context.Background(), testBusiness, core.StockItem{
		Code:             "rice50",
		Name:             "Rice (50kg)",
		BulkUnit:         "bag",
		BulkCostPrice:    decimal.NewFromInt(38000),
		BulkSellingPrice: decimal.NewFromInt(45000),
		QuantityInBulk:   decimal.NewFromInt(2),
		ReorderLevel:     decimal.NewFromInt(1),
		RetailUnits: []core.RetailUnit{
			{Name: "cup", UnitsPerBulk: decimal.NewFromInt(100), SellingPrice: decimal.NewFromInt(500)},
		},
	})
	if err != nil {
		t.Fatalf("failed to create stock item: %v", err)
	}
	return item
}

func TestSaleService_RecordSaleDeductsStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	seq := core.NewSequenceService(pool)
	stock := core.NewStockService(pool)
	sales := core.NewSaleService(pool, stock, seq)

	item := seedRice(t, stock)
	if item.Code != "RICE50" || len(item.RetailUnits) != 1 {
		t.Fatalf("unexpected stock item: %+v", item)
	}

	today := time.Now().Format("2006-01-02")
	sale, err := sales.RecordSale(ctx, testBusiness, core.SaleDraft{
		CustomerName: "Mama Bisi",
		SaleDate:     today,
		PaymentType:  core.PaymentPartial,
		AmountPaid:   decimal.NewFromInt(5000),
		Lines: []core.SaleLineInput{
			{ItemCode: "RICE50", Unit: "cup", Quantity: decimal.NewFromInt(25)},
		},
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	wantRef := fmt.Sprintf("SAL-%d-00001", time.Now().Year())
	if sale.Reference != wantRef {
		t.Errorf("expected reference %s, got %s", wantRef, sale.Reference)
	}
	if !sale.Total.Equal(decimal.NewFromInt(12500)) {
		t.Errorf("expected total 12500 from list price, got %s", sale.Total)
	}
	if !sale.Cost.Equal(decimal.NewFromInt(9500)) {
		t.Errorf("expected cost 9500 (25 × 380), got %s", sale.Cost)
	}
	if !sale.Balance.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("expected balance 7500, got %s", sale.Balance)
	}
	if len(sale.Lines) != 1 || sale.Lines[0].ItemName != "Rice (50kg)" {
		t.Fatalf("unexpected lines: %+v", sale.Lines)
	}

	after, err := stock.GetItem(ctx, testBusiness, "RICE50")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !after.QuantityInBulk.Equal(decimal.RequireFromString("1.75")) {
		t.Errorf("expected 1.75 bags left, got %s", after.QuantityInBulk)
	}

	t.Run("payment settles balance", func(t *testing.T) {
		paid, err := sales.RecordPayment(ctx, testBusiness, sale.Reference, decimal.NewFromInt(7500), "")
		if err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}
		if !paid.Balance.IsZero() || paid.PaymentType != core.PaymentPaid {
			t.Errorf("expected settled sale, got balance %s type %s", paid.Balance, paid.PaymentType)
		}

		_, err = sales.RecordPayment(ctx, testBusiness, sale.Reference, decimal.NewFromInt(1), "")
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput on overpayment, got %v", err)
		}
	})

	t.Run("insufficient stock rolls back", func(t *testing.T) {
		_, err := sales.RecordSale(ctx, testBusiness, core.SaleDraft{
			SaleDate:    today,
			PaymentType: core.PaymentPaid,
			Lines:       []core.SaleLineInput{{ItemCode: "RICE50", Unit: "bag", Quantity: decimal.NewFromInt(3)}},
		})
		if !errors.Is(err, core.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		n, err := sales.CountSales(ctx, testBusiness)
		if err != nil {
			t.Fatalf("CountSales failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 sale after rollback, got %d", n)
		}
	})

	t.Run("partial payment equal to total is rejected", func(t *testing.T) {
		_, err := sales.RecordSale(ctx, testBusiness, core.SaleDraft{
			Kind:        core.KindService,
			PaymentType: core.PaymentPartial,
			AmountPaid:  decimal.NewFromInt(3000),
			Lines:       []core.SaleLineInput{{ItemName: "Phone repair", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(3000)}},
		})
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("restock averages cost", func(t *testing.T) {
		// 1.75 bags @ 38000 + 0.25 bags @ 42000 = 2 bags @ 38500
		got, err := stock.Restock(ctx, testBusiness, "RICE50", decimal.RequireFromString("0.25"), decimal.NewFromInt(42000), "market run")
		if err != nil {
			t.Fatalf("Restock failed: %v", err)
		}
		if !got.QuantityInBulk.Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected 2 bags, got %s", got.QuantityInBulk)
		}
		if !got.BulkCostPrice.Equal(decimal.NewFromInt(38500)) {
			t.Errorf("expected cost 38500, got %s", got.BulkCostPrice)
		}
	})
}

func TestInvoiceService_NumbersAndSettles(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	seq := core.NewSequenceService(pool)
	stock := core.NewStockService(pool)
	invoices := core.NewInvoiceService(pool, seq, core.NewSaleService(pool, stock, seq))

	inv, err := invoices.CreateInvoice(ctx, testBusiness, core.InvoiceDraft{
		CustomerName: "Chinedu Stores",
		IssueDate:    "2026-03-01",
		Lines: []core.InvoiceLineInput{
			{Description: "Tailoring", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(15000)},
		},
	})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if inv.InvoiceNumber != "INV-2026-00001" {
		t.Errorf("expected INV-2026-00001, got %s", inv.InvoiceNumber)
	}
	if inv.DueDate != "2026-03-08" {
		t.Errorf("expected default due date 2026-03-08, got %s", inv.DueDate)
	}
	if !inv.Total.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("expected total 30000, got %s", inv.Total)
	}

	paid, err := invoices.MarkPaid(ctx, testBusiness, inv.InvoiceNumber)
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if paid.Status != core.InvoicePaid || paid.PaidAt == nil {
		t.Errorf("expected PAID with timestamp, got %s", paid.Status)
	}
	if _, err := invoices.MarkPaid(ctx, testBusiness, inv.InvoiceNumber); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput paying twice, got %v", err)
	}
}

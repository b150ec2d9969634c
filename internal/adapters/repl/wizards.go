package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"paddy-books/internal/app"
	"paddy-books/internal/core"
)

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, bool) {
	fmt.Fprint(out, label)
	raw, err := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if err != nil && raw == "" {
		return "", false
	}
	return raw, true
}

// handleSaleWizard walks entry → confirm. Back returns to entry with a
// fresh form; cancel or end of input abandons the sale.
func handleSaleWizard(ctx context.Context, reader *bufio.Reader, out io.Writer, svc app.ApplicationService, businessCode string) error {
	step := core.StepEntry
	var req app.RecordSaleRequest

	for {
		switch step {
		case core.StepEntry:
			r, ok := readSaleEntry(reader, out, businessCode)
			if !ok {
				fmt.Fprintln(out, "Sale cancelled.")
				return nil
			}
			req = r
			step = step.Next()

		case core.StepConfirm:
			preview, err := svc.PreviewSale(ctx, req)
			if err != nil {
				if core.IsValidationError(err) || errors.Is(err, core.ErrNotFound) {
					fmt.Fprintf(out, "Cannot save: %v\n", err)
					step = step.Back()
					continue
				}
				return err
			}
			printPreview(out, preview)

			choice, ok := prompt(reader, out, "\nSave this sale? (y)es / (b)ack / (c)ancel: ")
			switch strings.ToLower(choice) {
			case "y", "yes":
				res, err := svc.RecordSale(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Sale %s saved.", res.Sale.Reference)
				if res.CoinsAwarded > 0 {
					fmt.Fprintf(out, " +%d coins", res.CoinsAwarded)
				}
				fmt.Fprintln(out)
				return nil
			case "b", "back":
				step = step.Back()
			default:
				if ok {
					fmt.Fprintln(out, "Sale cancelled.")
				}
				return nil
			}
		}
	}
}

// readSaleEntry collects the entry step. Product lines are
// "<item-code> <qty> [unit] [price]"; service lines are "<price> <description>".
func readSaleEntry(reader *bufio.Reader, out io.Writer, businessCode string) (app.RecordSaleRequest, bool) {
	req := app.RecordSaleRequest{BusinessCode: businessCode}

	kind, ok := prompt(reader, out, "Product or service? [product]: ")
	if !ok || strings.EqualFold(kind, "cancel") {
		return req, false
	}
	req.Kind = strings.ToLower(kind)
	service := strings.HasPrefix(req.Kind, "s")
	if service {
		req.Kind = string(core.KindService)
	}

	if service {
		fmt.Fprintln(out, "Enter lines as: <price> <description>. Type 'done' when finished.")
	} else {
		fmt.Fprintln(out, "Enter lines as: <item-code> <qty> [unit] [price]. Type 'done' when finished.")
	}
	for n := 1; ; {
		raw, ok := prompt(reader, out, fmt.Sprintf("  Line %d: ", n))
		if !ok || strings.EqualFold(raw, "cancel") {
			return req, false
		}
		if strings.EqualFold(raw, "done") {
			break
		}
		if raw == "" {
			continue
		}
		parts := strings.Fields(raw)
		var line app.SaleLineRequest
		if service {
			if len(parts) < 2 {
				fmt.Fprintln(out, "  Use: <price> <description>")
				continue
			}
			line = app.SaleLineRequest{ItemName: strings.Join(parts[1:], " "), Quantity: "1", UnitPrice: parts[0]}
		} else {
			if len(parts) < 2 {
				fmt.Fprintln(out, "  Use: <item-code> <qty> [unit] [price]")
				continue
			}
			line = app.SaleLineRequest{ItemCode: parts[0], Quantity: parts[1]}
			if len(parts) >= 3 {
				line.Unit = parts[2]
			}
			if len(parts) >= 4 {
				line.UnitPrice = parts[3]
			}
		}
		req.Lines = append(req.Lines, line)
		n++
	}

	if req.CustomerName, ok = prompt(reader, out, "Customer name (optional): "); !ok {
		return req, false
	}
	payment, ok := prompt(reader, out, "Payment: paid / partial / later [paid]: ")
	if !ok {
		return req, false
	}
	req.PaymentType = strings.ToLower(payment)
	if req.PaymentType == string(core.PaymentPartial) {
		if req.AmountPaid, ok = prompt(reader, out, "Amount paid now: "); !ok {
			return req, false
		}
	}
	return req, true
}

package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"paddy-books/internal/ai"
	"paddy-books/internal/app"
	"paddy-books/internal/core"
)

const maxClarificationRounds = 3

var errExit = errors.New("exit")

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes natural language input through the AI sale interpreter.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) error {
	business, err := svc.LoadDefaultBusiness(ctx)
	if err != nil {
		return fmt.Errorf("failed to load business: %w", err)
	}
	code := business.Code

	fmt.Fprintln(out, "Paddy Books")
	fmt.Fprintf(out, "Business: %s (%s)\n", business.Name, code)
	fmt.Fprintln(out, "Describe a sale in your own words, or use /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "sale", "s":
			return handleSaleWizard(ctx, reader, out, svc, code)

		case "sales":
			res, err := svc.ListSales(ctx, app.ListSalesRequest{
				BusinessCode: code,
				Outstanding:  len(args) > 0 && strings.EqualFold(args[0], "owing"),
				Limit:        "20",
			})
			if err != nil {
				return err
			}
			printSales(out, res)

		case "pay":
			if len(args) < 2 {
				fmt.Fprintln(out, "Usage: /pay <sale-ref> <amount>")
				return nil
			}
			sale, err := svc.RecordSalePayment(ctx, app.SalePaymentRequest{BusinessCode: code, Reference: args[0], Amount: args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Payment recorded on %s. Balance now %s.\n", sale.Reference, naira(sale.Balance))

		case "invoice":
			if len(args) < 1 {
				fmt.Fprintln(out, "Usage: /invoice <sale-ref>")
				return nil
			}
			res, err := svc.CreateInvoice(ctx, app.CreateInvoiceRequest{BusinessCode: code, SaleReference: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Invoice %s for %s, due %s.\n", res.Invoice.InvoiceNumber, naira(res.Invoice.Total), res.Invoice.DueDate)

		case "expense":
			if len(args) < 2 {
				fmt.Fprintln(out, "Usage: /expense <amount> <category> [note]")
				return nil
			}
			res, err := svc.RecordExpense(ctx, app.RecordExpenseRequest{
				BusinessCode: code,
				Amount:       args[0],
				Category:     args[1],
				Description:  strings.Join(args[2:], " "),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Expense %s recorded under %s.", res.Expense.Reference, res.Expense.Category)
			if res.CoinsAwarded > 0 {
				fmt.Fprintf(out, " +%d coins", res.CoinsAwarded)
			}
			fmt.Fprintln(out)

		case "stock":
			res, err := svc.ListStock(ctx, code)
			if err != nil {
				return err
			}
			printStock(out, res)

		case "restock":
			if len(args) < 2 {
				fmt.Fprintln(out, "Usage: /restock <item-code> <qty> [unit-cost]")
				return nil
			}
			req := app.RestockRequest{BusinessCode: code, ItemCode: strings.ToUpper(args[0]), Quantity: args[1]}
			if len(args) >= 3 {
				req.UnitCost = args[2]
			}
			item, err := svc.Restock(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s now %s %s on hand at %s per %s.\n",
				item.Name, item.QuantityInBulk.StringFixed(2), item.BulkUnit, naira(item.BulkCostPrice), item.BulkUnit)

		case "coins":
			w, err := svc.GetWallet(ctx, code)
			if err != nil {
				return err
			}
			printWallet(out, w)

		case "redeem":
			if len(args) < 1 {
				fmt.Fprintln(out, "Usage: /redeem <option-id>")
				return nil
			}
			res, err := svc.RedeemCoins(ctx, app.RedeemRequest{BusinessCode: code, OptionID: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Redeemed %s for %d coins. Balance %d.\n", res.Option.Name, res.Option.Cost, res.Transaction.BalanceAfter)

		case "loan":
			if len(args) > 0 && strings.EqualFold(args[0], "apply") {
				if len(args) < 3 {
					fmt.Fprintln(out, "Usage: /loan apply <amount> <months> [purpose]")
					return nil
				}
				res, err := svc.ApplyForLoan(ctx, app.LoanApplicationRequest{
					BusinessCode: code,
					Amount:       args[1],
					Months:       args[2],
					Purpose:      strings.Join(args[3:], " "),
				})
				if err != nil {
					return err
				}
				printLoan(out, res)
				return nil
			}
			offer, err := svc.LoanEligibility(ctx, code)
			if err != nil {
				return err
			}
			printOffer(out, offer)

		case "summary":
			var from, to string
			if len(args) >= 2 {
				from, to = args[0], args[1]
			}
			res, err := svc.GetSummary(ctx, code, from, to)
			if err != nil {
				return err
			}
			printSummary(out, res)

		case "help", "h":
			printHelp(out)

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Fprintf(out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Fprint(out, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if readErr != nil {
				return nil
			}
			continue
		}

		// Slash prefix → deterministic command dispatcher, no AI invoked.
		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if errors.Is(err, errExit) {
					fmt.Fprintln(out, "Goodbye!")
					return nil
				}
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			continue
		}

		if err := interpretSale(ctx, reader, out, svc, code, input, dispatchSlash); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return nil
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

// interpretSale runs free text through the AI interpreter, asking follow-up
// questions until it has a previewable sale, then asks before saving.
func interpretSale(ctx context.Context, reader *bufio.Reader, out io.Writer, svc app.ApplicationService,
	code, input string, dispatchSlash func(string) error) error {

	fmt.Fprintln(out, "[AI] Reading your sale...")
	accumulated := input

	for round := 1; ; round++ {
		if round > maxClarificationRounds {
			fmt.Fprintln(out, "Could not work out the sale. Try /sale instead.")
			return nil
		}

		res, err := svc.InterpretSale(ctx, code, accumulated)
		if err != nil {
			if errors.Is(err, ai.ErrNotConfigured) {
				fmt.Fprintln(out, "The AI assistant is not set up (OPENAI_API_KEY). Use /sale to record a sale.")
				return nil
			}
			return err
		}

		if res.Clarification != "" {
			fmt.Fprintf(out, "\n[AI]: %s\n", res.Clarification)
			followUp, _ := prompt(reader, out, "> ")

			// Slash command during clarification: cancel the AI flow and execute it.
			if strings.HasPrefix(followUp, "/") {
				fmt.Fprintln(out, "(AI session cancelled)")
				return dispatchSlash(followUp)
			}
			if followUp == "" || strings.EqualFold(followUp, "cancel") {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			accumulated = fmt.Sprintf("Original description: %s\nQuestion asked: %s\nUser answer: %s",
				accumulated, res.Clarification, followUp)
			continue
		}

		if res.Problem != "" {
			fmt.Fprintf(out, "\n[AI] I read this as a sale, but it cannot be saved: %s\n", res.Problem)
			return nil
		}

		printPreview(out, res.Preview)
		if res.Reasoning != "" {
			fmt.Fprintf(out, "  Reasoning: %s\n", res.Reasoning)
		}
		if res.LowConfidence {
			fmt.Fprintln(out, "\nWARNING: Low confidence reading. Check the figures.")
		}

		choice, _ := prompt(reader, out, "\nSave this sale? (y/n): ")
		if c := strings.ToLower(choice); c != "y" && c != "yes" {
			fmt.Fprintln(out, "Sale not saved.")
			return nil
		}
		saved, err := svc.RecordSale(ctx, requestFromDraft(code, res.Preview.Draft))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Sale %s saved.", saved.Sale.Reference)
		if saved.CoinsAwarded > 0 {
			fmt.Fprintf(out, " +%d coins", saved.CoinsAwarded)
		}
		fmt.Fprintln(out)
		return nil
	}
}

// requestFromDraft turns a priced draft back into form values so saving
// goes through the same path as /sale.
func requestFromDraft(code string, d core.SaleDraft) app.RecordSaleRequest {
	str := func(v decimal.Decimal) string {
		if v.IsZero() {
			return ""
		}
		return v.String()
	}
	req := app.RecordSaleRequest{
		BusinessCode:  code,
		Kind:          string(d.Kind),
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		SaleDate:      d.SaleDate,
		PaymentType:   string(d.PaymentType),
		AmountPaid:    str(d.AmountPaid),
		Notes:         d.Notes,
	}
	for _, l := range d.Lines {
		req.Lines = append(req.Lines, app.SaleLineRequest{
			ItemCode:  l.ItemCode,
			ItemName:  l.ItemName,
			Unit:      l.Unit,
			Quantity:  l.Quantity.String(),
			UnitPrice: str(l.UnitPrice),
			CostPrice: str(l.CostPrice),
		})
	}
	return req
}

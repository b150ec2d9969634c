package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types published after successful writes.
const (
	SaleRecorded    = "sale.recorded"
	PaymentReceived = "sale.payment_received"
	ExpenseRecorded = "expense.recorded"
	InvoiceCreated  = "invoice.created"
	StockRestocked  = "stock.restocked"
	CoinsAwarded    = "coins.awarded"
	CoinsRedeemed   = "coins.redeemed"
	LoanApplied     = "loan.applied"
)

// Event is the envelope written to the topic. Payload is the JSON of the
// domain record that changed.
type Event struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	BusinessCode string          `json:"business_code"`
	Reference    string          `json:"reference,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Payload      json.RawMessage `json:"payload"`
}

// New marshals payload into a fresh event.
func New(eventType, businessCode, reference string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:           uuid.New(),
		Type:         eventType,
		BusinessCode: businessCode,
		Reference:    reference,
		OccurredAt:   time.Now().UTC(),
		Payload:      raw,
	}, nil
}

// Publisher delivers events downstream.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NopPublisher) Close() error                            { return nil }

package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/payment_instructions/internal/instruction"
)

// Event describes the decision taken for one payment instruction.
type Event struct {
	ID            string           `json:"event_id"`
	RequestID     string           `json:"request_id,omitempty"`
	Type          *string          `json:"type"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      *string          `json:"currency"`
	DebitAccount  *string          `json:"debit_account"`
	CreditAccount *string          `json:"credit_account"`
	ExecuteBy     *string          `json:"execute_by"`
	Status        string           `json:"status"`
	StatusCode    string           `json:"status_code"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// NewEvent derives an event from a processed envelope.
func NewEvent(requestID string, env instruction.Envelope, at time.Time) Event {
	var typ *string
	if env.Type != nil {
		s := string(*env.Type)
		typ = &s
	}
	return Event{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		Type:          typ,
		Amount:        env.Amount,
		Currency:      env.Currency,
		DebitAccount:  env.DebitAccount,
		CreditAccount: env.CreditAccount,
		ExecuteBy:     env.ExecuteBy,
		Status:        string(env.Status),
		StatusCode:    string(env.StatusCode),
		OccurredAt:    at.UTC(),
	}
}

// Notifier delivers decision events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// LoggerNotifier writes events to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the event to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, event Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("payment instruction decided",
		slog.String("event_id", event.ID),
		slog.String("request_id", event.RequestID),
		slog.String("status", event.Status),
		slog.String("status_code", event.StatusCode),
	)
	return nil
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

// Send delivers to all notifiers even when one fails.
func (m Multi) Send(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

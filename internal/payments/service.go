package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/congo-pay/payment_instructions/internal/instruction"
	"github.com/congo-pay/payment_instructions/internal/ledger"
	"github.com/congo-pay/payment_instructions/internal/notification"
)

const tracerName = "github.com/congo-pay/payment_instructions/internal/payments"

// Service runs payment instructions and announces every decision.
type Service struct {
	processor *instruction.Processor
	notifier  notification.Notifier
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewService constructs a payment instruction service. A nil notifier
// disables decision events.
func NewService(processor *instruction.Processor, notifier notification.Notifier, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		processor: processor,
		notifier:  notifier,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input is one instruction together with the account snapshot it runs against.
type Input struct {
	RequestID   string
	Accounts    []ledger.Account
	Instruction string
}

// Process evaluates the instruction. Rule violations come back inside the
// envelope; an error means the decision could not be made at all.
func (s *Service) Process(ctx context.Context, in Input) (instruction.Envelope, error) {
	ctx, span := s.tracer.Start(ctx, "payments.ProcessInstruction",
		trace.WithAttributes(attribute.Int("payment.accounts", len(in.Accounts))))
	defer span.End()

	env, err := s.processor.Process(in.Accounts, in.Instruction)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "process instruction")
		return instruction.Envelope{}, fmt.Errorf("process instruction: %w", err)
	}

	attrs := []attribute.KeyValue{
		attribute.String("payment.status", string(env.Status)),
		attribute.String("payment.status_code", string(env.StatusCode)),
	}
	if env.Type != nil {
		attrs = append(attrs, attribute.String("payment.type", string(*env.Type)))
	}
	span.SetAttributes(attrs...)

	s.logger.Debug("payment instruction processed",
		slog.String("request_id", in.RequestID),
		slog.String("status", string(env.Status)),
		slog.String("status_code", string(env.StatusCode)),
	)

	s.notify(ctx, in.RequestID, env)
	return env, nil
}

func (s *Service) notify(ctx context.Context, requestID string, env instruction.Envelope) {
	if s.notifier == nil {
		return
	}
	event := notification.NewEvent(requestID, env, s.now())
	if err := s.notifier.Send(ctx, event); err != nil {
		s.logger.Warn("decision event not delivered",
			slog.String("event_id", event.ID),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
	}
}

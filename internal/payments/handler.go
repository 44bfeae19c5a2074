package payments

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/payment_instructions/internal/httpx"
	"github.com/congo-pay/payment_instructions/internal/instruction"
	"github.com/congo-pay/payment_instructions/internal/ledger"
	"github.com/congo-pay/payment_instructions/internal/middleware"
)

// Handler exposes the payment instruction endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type accountRequest struct {
	ID       string           `json:"id" validate:"required"`
	Balance  *decimal.Decimal `json:"balance" validate:"required"`
	Currency string           `json:"currency" validate:"required"`
}

type instructionRequest struct {
	Accounts    []accountRequest `json:"accounts" validate:"required,dive"`
	Instruction string           `json:"instruction" validate:"required,notblank"`
}

func (r instructionRequest) ledgerAccounts() []ledger.Account {
	accounts := make([]ledger.Account, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		accounts = append(accounts, ledger.Account{ID: a.ID, Balance: *a.Balance, Currency: a.Currency})
	}
	return accounts
}

type instructionResponse struct {
	Status  instruction.Status   `json:"status"`
	Message string               `json:"message"`
	Data    instruction.Envelope `json:"data"`
}

var summaries = map[instruction.Status]string{
	instruction.StatusSuccessful: "Transaction executed successfully",
	instruction.StatusPending:    "Transaction scheduled",
	instruction.StatusFailed:     "Transaction failed",
}

// Process handles POST /payment-instructions.
func (h *Handler) Process(c *fiber.Ctx) error {
	var req instructionRequest
	if err := httpx.ParseBodyAndValidate(c, &req); err != nil {
		return respond(c, instruction.Malformed(malformedDetail(err)))
	}

	env, err := h.service.Process(c.UserContext(), Input{
		RequestID:   middleware.RequestIDFrom(c),
		Accounts:    req.ledgerAccounts(),
		Instruction: req.Instruction,
	})
	if err != nil {
		return err
	}
	return respond(c, env)
}

func respond(c *fiber.Ctx, env instruction.Envelope) error {
	status := http.StatusOK
	if env.Status == instruction.StatusFailed {
		status = http.StatusBadRequest
	}
	return c.Status(status).JSON(instructionResponse{
		Status:  env.Status,
		Message: summaries[env.Status],
		Data:    env,
	})
}

func malformedDetail(err error) string {
	switch {
	case errors.Is(err, httpx.ErrUnsupportedContentType):
		return "request body must be application/json"
	case errors.Is(err, httpx.ErrBodyParseFailed):
		return "request body is not valid JSON"
	default:
		return err.Error()
	}
}

package instruction

import (
	"github.com/shopspring/decimal"
)

func init() {
	// amounts and balances are JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

// Type is the leading verb of an instruction.
type Type string

const (
	TypeDebit  Type = "DEBIT"
	TypeCredit Type = "CREDIT"
)

// Status is the coarse outcome reported to callers.
type Status string

const (
	StatusSuccessful Status = "successful"
	StatusPending    Status = "pending"
	StatusFailed     Status = "failed"
)

// ParsedInstruction holds whatever was extracted before the pipeline stopped.
// Nil fields were never reached.
type ParsedInstruction struct {
	Type          *Type
	Amount        *decimal.Decimal
	Currency      *string
	DebitAccount  *string
	CreditAccount *string
	ExecuteBy     *string
}

// Rejection is a domain rule violation. It is a normal return value, not an error.
type Rejection struct {
	Code   Code
	Reason string
}

func reject(code Code, args ...string) *Rejection {
	return &Rejection{Code: code, Reason: Message(code, args...)}
}

// Outcome is the single decision produced for an instruction.
type Outcome struct {
	Status Status
	Code   Code
	Reason string
}

// Envelope is the wire projection of a processed instruction.
type Envelope struct {
	Type          *Type            `json:"type"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      *string          `json:"currency"`
	DebitAccount  *string          `json:"debit_account"`
	CreditAccount *string          `json:"credit_account"`
	ExecuteBy     *string          `json:"execute_by"`
	Status        Status           `json:"status"`
	StatusReason  string           `json:"status_reason"`
	StatusCode    Code             `json:"status_code"`
	Accounts      []AccountView    `json:"accounts"`
}

// AccountView is an involved account as reported in the envelope.
type AccountView struct {
	ID            string          `json:"id"`
	Balance       decimal.Decimal `json:"balance"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	Currency      string          `json:"currency"`
}

package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds occurs when the source account lacks available balance
	// to cover a requested posting.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound indicates a posting referenced an account outside the snapshot.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSameAccount is returned when a posting would debit and credit one account.
	ErrSameAccount = errors.New("debit and credit account are the same")

	// ErrInvalidAmount is returned for zero or negative posting amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrAlreadyPosted guards against applying a second transfer to one snapshot.
	ErrAlreadyPosted = errors.New("snapshot already posted")
)

// Account is a caller-supplied account with its balance at request time.
type Account struct {
	ID       string
	Balance  decimal.Decimal
	Currency string
}

// Entry is an account as reported back to the caller: its current balance
// alongside the balance it had when the snapshot was taken.
type Entry struct {
	ID            string
	Balance       decimal.Decimal
	BalanceBefore decimal.Decimal
	Currency      string
}

// TransactionResult captures the outcome of a snapshot posting.
type TransactionResult struct {
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

package ledger

import (
	"github.com/shopspring/decimal"
)

// Snapshot is a private copy of a request's account set. It is owned by a
// single call and never shared, so it carries no locking.
type Snapshot struct {
	accounts []Account
	before   []decimal.Decimal
	posted   bool
}

// NewSnapshot copies the supplied accounts so later postings never touch the
// caller's slice.
func NewSnapshot(accounts []Account) *Snapshot {
	s := &Snapshot{
		accounts: make([]Account, len(accounts)),
		before:   make([]decimal.Decimal, len(accounts)),
	}
	copy(s.accounts, accounts)
	for i, acct := range accounts {
		s.before[i] = acct.Balance
	}
	return s
}

// Len reports the number of accounts in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.accounts)
}

// Find returns the index of the first account whose id matches exactly.
func (s *Snapshot) Find(id string) (int, bool) {
	for i, acct := range s.accounts {
		if acct.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Account returns the account stored at index i.
func (s *Snapshot) Account(i int) (Account, error) {
	if i < 0 || i >= len(s.accounts) {
		return Account{}, ErrAccountNotFound
	}
	return s.accounts[i], nil
}

// Transfer moves amount from one account to another. Both legs are applied
// together or not at all, and a snapshot accepts a single transfer.
func (s *Snapshot) Transfer(from, to int, amount decimal.Decimal) (TransactionResult, error) {
	if !amount.IsPositive() {
		return TransactionResult{}, ErrInvalidAmount
	}
	if s.posted {
		return TransactionResult{}, ErrAlreadyPosted
	}
	if from < 0 || from >= len(s.accounts) || to < 0 || to >= len(s.accounts) {
		return TransactionResult{}, ErrAccountNotFound
	}
	if from == to || s.accounts[from].ID == s.accounts[to].ID {
		return TransactionResult{}, ErrSameAccount
	}

	fromBalance := s.accounts[from].Balance
	if fromBalance.LessThan(amount) {
		return TransactionResult{}, ErrInsufficientFunds
	}

	fromBalance = fromBalance.Sub(amount)
	toBalance := s.accounts[to].Balance.Add(amount)

	s.accounts[from].Balance = fromBalance
	s.accounts[to].Balance = toBalance
	s.posted = true

	return TransactionResult{FromBalance: fromBalance, ToBalance: toBalance}, nil
}

// Entries reports the accounts at the given indices in original request order.
// Indices outside the snapshot are ignored and repeated indices appear once.
func (s *Snapshot) Entries(indices ...int) []Entry {
	wanted := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		wanted[i] = struct{}{}
	}

	entries := make([]Entry, 0, len(wanted))
	for i, acct := range s.accounts {
		if _, ok := wanted[i]; !ok {
			continue
		}
		entries = append(entries, Entry{
			ID:            acct.ID,
			Balance:       acct.Balance,
			BalanceBefore: s.before[i],
			Currency:      acct.Currency,
		})
	}
	return entries
}

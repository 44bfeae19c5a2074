package instruction

import (
	"strings"

	"github.com/congo-pay/payment_instructions/internal/ledger"
)

// evaluation is the per-call state the business rules read and fill in.
type evaluation struct {
	parsed    ParsedInstruction
	snap      *ledger.Snapshot
	debit     int
	credit    int
	immediate bool
}

func newEvaluation(parsed ParsedInstruction, accounts []ledger.Account, immediate bool) *evaluation {
	return &evaluation{
		parsed:    parsed,
		snap:      ledger.NewSnapshot(accounts),
		debit:     -1,
		credit:    -1,
		immediate: immediate,
	}
}

// resolved reports whether both referenced accounts were found.
func (ev *evaluation) resolved() bool {
	return ev.debit >= 0 && ev.credit >= 0
}

// entries returns the referenced accounts once both are resolved, else nil.
func (ev *evaluation) entries() []ledger.Entry {
	if !ev.resolved() {
		return nil
	}
	return ev.snap.Entries(ev.debit, ev.credit)
}

// rule is one step of the validation chain. A nil result lets the chain continue.
type rule func(ev *evaluation) *Rejection

// businessRules run in order and the first rejection wins.
var businessRules = []rule{
	debitAccountFormat,
	creditAccountFormat,
	executionDateFormat,
	accountsExist,
	accountCurrenciesMatch,
	instructionCurrencyMatches,
	accountsDistinct,
	sufficientFunds,
}

func debitAccountFormat(ev *evaluation) *Rejection {
	if !ValidAccountID(*ev.parsed.DebitAccount) {
		return reject(CodeInvalidAccountID, *ev.parsed.DebitAccount)
	}
	return nil
}

func creditAccountFormat(ev *evaluation) *Rejection {
	if !ValidAccountID(*ev.parsed.CreditAccount) {
		return reject(CodeInvalidAccountID, *ev.parsed.CreditAccount)
	}
	return nil
}

func executionDateFormat(ev *evaluation) *Rejection {
	if ev.parsed.ExecuteBy != nil && !ValidDate(*ev.parsed.ExecuteBy) {
		return reject(CodeInvalidDate, *ev.parsed.ExecuteBy)
	}
	return nil
}

func accountsExist(ev *evaluation) *Rejection {
	debit, ok := ev.snap.Find(*ev.parsed.DebitAccount)
	if !ok {
		return reject(CodeAccountNotFound, *ev.parsed.DebitAccount)
	}
	credit, ok := ev.snap.Find(*ev.parsed.CreditAccount)
	if !ok {
		return reject(CodeAccountNotFound, *ev.parsed.CreditAccount)
	}
	ev.debit, ev.credit = debit, credit
	return nil
}

func accountCurrenciesMatch(ev *evaluation) *Rejection {
	debit, credit := ev.accounts()
	if !strings.EqualFold(debit.Currency, credit.Currency) {
		return reject(CodeCurrencyMismatch,
			debit.ID, strings.ToUpper(debit.Currency),
			credit.ID, strings.ToUpper(credit.Currency))
	}
	return nil
}

func instructionCurrencyMatches(ev *evaluation) *Rejection {
	debit, _ := ev.accounts()
	if !strings.EqualFold(debit.Currency, *ev.parsed.Currency) {
		return reject(CodeUnsupportedCurrency,
			*ev.parsed.Currency+" does not match account currency "+strings.ToUpper(debit.Currency))
	}
	return nil
}

func accountsDistinct(ev *evaluation) *Rejection {
	if *ev.parsed.DebitAccount == *ev.parsed.CreditAccount {
		return reject(CodeSameAccount, *ev.parsed.DebitAccount)
	}
	return nil
}

func sufficientFunds(ev *evaluation) *Rejection {
	if !ev.immediate {
		return nil
	}
	debit, _ := ev.accounts()
	if debit.Balance.LessThan(*ev.parsed.Amount) {
		return reject(CodeInsufficientFunds, debit.ID, debit.Balance.String(), ev.parsed.Amount.String())
	}
	return nil
}

// accounts returns the resolved debit and credit accounts. Rules after
// accountsExist rely on both indices being valid.
func (ev *evaluation) accounts() (ledger.Account, ledger.Account) {
	debit, _ := ev.snap.Account(ev.debit)
	credit, _ := ev.snap.Account(ev.credit)
	return debit, credit
}

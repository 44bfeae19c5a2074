package instruction

import (
	"github.com/congo-pay/payment_instructions/internal/ledger"
)

// Build projects a parsed instruction, its outcome and the involved accounts
// into the response envelope. It performs no validation.
func Build(parsed ParsedInstruction, outcome Outcome, entries []ledger.Entry) Envelope {
	accounts := make([]AccountView, 0, len(entries))
	for _, e := range entries {
		accounts = append(accounts, AccountView{
			ID:            e.ID,
			Balance:       e.Balance,
			BalanceBefore: e.BalanceBefore,
			Currency:      e.Currency,
		})
	}

	return Envelope{
		Type:          parsed.Type,
		Amount:        parsed.Amount,
		Currency:      parsed.Currency,
		DebitAccount:  parsed.DebitAccount,
		CreditAccount: parsed.CreditAccount,
		ExecuteBy:     parsed.ExecuteBy,
		Status:        outcome.Status,
		StatusReason:  outcome.Reason,
		StatusCode:    outcome.Code,
		Accounts:      accounts,
	}
}

// Malformed builds the envelope for a request whose body could not be
// accepted at all.
func Malformed(detail string) Envelope {
	return Build(ParsedInstruction{}, failed(reject(CodeMalformed, detail)), nil)
}

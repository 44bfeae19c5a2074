package instruction

import (
	"errors"
	"fmt"
	"time"

	"github.com/congo-pay/payment_instructions/internal/ledger"
)

const dateLayout = "2006-01-02"

// executesNow reports whether an instruction runs immediately: no date, or a
// date on or before today's UTC date. Dates are fixed-width YYYY-MM-DD so a
// string comparison orders them, including structurally valid dates that do
// not exist on the calendar.
func executesNow(executeBy *string, now time.Time) bool {
	if executeBy == nil {
		return true
	}
	return *executeBy <= now.UTC().Format(dateLayout)
}

// execute settles a fully validated instruction. Pending instructions leave
// the snapshot untouched.
func execute(ev *evaluation) (Outcome, error) {
	if !ev.immediate {
		return Outcome{
			Status: StatusPending,
			Code:   CodeScheduled,
			Reason: Message(CodeScheduled, *ev.parsed.ExecuteBy),
		}, nil
	}

	if _, err := ev.snap.Transfer(ev.debit, ev.credit, *ev.parsed.Amount); err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			debit, _ := ev.accounts()
			return failed(reject(CodeInsufficientFunds, debit.ID, debit.Balance.String(), ev.parsed.Amount.String())), nil
		}
		return Outcome{}, fmt.Errorf("post transfer: %w", err)
	}

	return Outcome{
		Status: StatusSuccessful,
		Code:   CodeExecuted,
		Reason: Message(CodeExecuted),
	}, nil
}

func failed(rej *Rejection) Outcome {
	return Outcome{Status: StatusFailed, Code: rej.Code, Reason: rej.Reason}
}

// Package instruction parses free-text payment instructions and decides, against
// a caller-supplied account snapshot, whether to execute, schedule or reject them.
//
// The pipeline is Tokenize → Match → business rules → execute → Build. Every
// stage can stop the pipeline; the envelope then echoes whatever was parsed.
package instruction

import (
	"strings"
	"time"

	"github.com/congo-pay/payment_instructions/internal/ledger"
)

// Processor runs instructions. It holds no per-call state and is safe for
// concurrent use.
type Processor struct {
	now func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithClock overrides the clock used to decide between immediate and
// scheduled execution.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProcessor builds a Processor using the system clock unless overridden.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process evaluates raw against accounts. Rule violations are reported in the
// envelope; the error is reserved for internal faults. The accounts slice is
// never modified.
func (p *Processor) Process(accounts []ledger.Account, raw string) (Envelope, error) {
	parsed, rej := Match(Tokenize(strings.TrimSpace(raw)))
	if rej != nil {
		return Build(parsed, failed(rej), nil), nil
	}

	ev := newEvaluation(parsed, accounts, executesNow(parsed.ExecuteBy, p.now()))
	for _, check := range businessRules {
		if rej := check(ev); rej != nil {
			return Build(parsed, failed(rej), ev.entries()), nil
		}
	}

	outcome, err := execute(ev)
	if err != nil {
		return Envelope{}, err
	}
	return Build(parsed, outcome, ev.entries()), nil
}

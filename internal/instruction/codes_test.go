package instruction

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_EveryCodeHasTemplate(t *testing.T) {
	codes := []Code{
		CodeMissingKeyword, CodeInvalidKeywordOrder, CodeMalformed, CodeInvalidAmount,
		CodeCurrencyMismatch, CodeUnsupportedCurrency, CodeInsufficientFunds, CodeSameAccount,
		CodeAccountNotFound, CodeInvalidAccountID, CodeInvalidDate, CodeExecuted, CodeScheduled,
	}
	assert.Len(t, messageTemplates, len(codes))

	for _, code := range codes {
		_, ok := messageTemplates[code]
		assert.True(t, ok, "no template for %s", code)
		assert.NotEqual(t, string(code), Message(code, "x", "y", "z", "w"), "catalog lookup failed for %s", code)
	}
}

func TestMessage_Renders(t *testing.T) {
	assert.Equal(t, "Insufficient funds in debit account a: has 1000, needs 25000",
		Message(CodeInsufficientFunds, "a", "1000", "25000"))
	assert.Equal(t, "Missing required keyword: FROM", Message(CodeMissingKeyword, "FROM"))
	assert.Equal(t, "Transaction scheduled for execution on 2999-01-01", Message(CodeScheduled, "2999-01-01"))
}

func TestMessage_ConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Message(CodeAccountNotFound, "acc"); got != "Account not found: acc" {
				t.Errorf("unexpected message %q", got)
			}
		}()
	}
	wg.Wait()
}

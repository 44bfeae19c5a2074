package instruction

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Code classifies the terminal outcome of an instruction.
type Code string

const (
	CodeMissingKeyword      Code = "SY01"
	CodeInvalidKeywordOrder Code = "SY02"
	CodeMalformed           Code = "SY03"
	CodeInvalidAmount       Code = "AM01"
	CodeCurrencyMismatch    Code = "CU01"
	CodeUnsupportedCurrency Code = "CU02"
	CodeInsufficientFunds   Code = "AC01"
	CodeSameAccount         Code = "AC02"
	CodeAccountNotFound     Code = "AC03"
	CodeInvalidAccountID    Code = "AC04"
	CodeInvalidDate         Code = "DT01"
	CodeExecuted            Code = "AP00"
	CodeScheduled           Code = "AP02"
)

var messageTemplates = map[Code]string{
	CodeMissingKeyword:      "Missing required keyword: %s",
	CodeInvalidKeywordOrder: "Invalid keyword order: expected %s after %s but found %s",
	CodeMalformed:           "Malformed instruction: %s",
	CodeInvalidAmount:       "Amount must be a positive integer, got %s",
	CodeCurrencyMismatch:    "Account currency mismatch: %s is %s but %s is %s",
	CodeUnsupportedCurrency: "Unsupported or mismatched currency: %s",
	CodeInsufficientFunds:   "Insufficient funds in debit account %s: has %s, needs %s",
	CodeSameAccount:         "Debit and credit accounts cannot be the same: %s",
	CodeAccountNotFound:     "Account not found: %s",
	CodeInvalidAccountID:    "Invalid account ID format: %s",
	CodeInvalidDate:         "Invalid date format: %s, expected YYYY-MM-DD",
	CodeExecuted:            "Transaction executed successfully",
	CodeScheduled:           "Transaction scheduled for execution on %s",
}

// messages is built once at init and only read afterwards.
var messages = mustBuildCatalog()

func mustBuildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for code, tmpl := range messageTemplates {
		if err := b.SetString(language.English, string(code), tmpl); err != nil {
			panic("instruction: register message " + string(code) + ": " + err.Error())
		}
	}
	return b
}

// Message renders the human-readable reason for code. Arguments must be
// strings; numeric values are formatted by the caller to avoid locale grouping.
func Message(code Code, args ...string) string {
	p := message.NewPrinter(language.English, message.Catalog(messages))
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return p.Sprintf(string(code), vals...)
}

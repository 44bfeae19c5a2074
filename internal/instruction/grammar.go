package instruction

import (
	"strings"
)

const (
	keywordOn = "ON"

	// amount and currency are positional; clause search starts after them.
	clauseStart = 3
)

// clause is an anchor keyword, the keywords that must follow it in order,
// and then an account id.
type clause struct {
	anchor  string
	follows []string
}

var (
	debitFirst = [2]clause{
		{anchor: "FROM", follows: []string{"ACCOUNT"}},
		{anchor: "FOR", follows: []string{"CREDIT", "TO", "ACCOUNT"}},
	}
	creditFirst = [2]clause{
		{anchor: "TO", follows: []string{"ACCOUNT"}},
		{anchor: "FOR", follows: []string{"DEBIT", "FROM", "ACCOUNT"}},
	}
)

// Match recognizes one of the two instruction shapes:
//
//	DEBIT <amount> <currency> FROM ACCOUNT <id> FOR CREDIT TO ACCOUNT <id> [ON <date>]
//	CREDIT <amount> <currency> TO ACCOUNT <id> FOR DEBIT FROM ACCOUNT <id> [ON <date>]
//
// On rejection the returned ParsedInstruction carries every field extracted
// before the failure.
func Match(tokens []string) (ParsedInstruction, *Rejection) {
	var p ParsedInstruction

	if len(tokens) == 0 {
		return p, reject(CodeMalformed, "instruction is empty")
	}

	typ := Type(strings.ToUpper(tokens[0]))
	if typ != TypeDebit && typ != TypeCredit {
		return p, reject(CodeMissingKeyword, "DEBIT or CREDIT")
	}
	p.Type = &typ

	if len(tokens) < clauseStart {
		return p, reject(CodeMalformed, "expected amount and currency after "+string(typ))
	}

	amount, ok := ParseAmount(tokens[1])
	if !ok {
		return p, reject(CodeInvalidAmount, tokens[1])
	}
	p.Amount = &amount

	currency, ok := NormalizeCurrency(tokens[2])
	if !ok {
		return p, reject(CodeUnsupportedCurrency, tokens[2])
	}
	p.Currency = &currency

	clauses := debitFirst
	if typ == TypeCredit {
		clauses = creditFirst
	}

	first, cursor, rej := matchClause(tokens, clauseStart, clauses[0])
	if rej != nil {
		return p, rej
	}
	if typ == TypeDebit {
		p.DebitAccount = &first
	} else {
		p.CreditAccount = &first
	}

	second, cursor, rej := matchClause(tokens, cursor, clauses[1])
	if rej != nil {
		return p, rej
	}
	if typ == TypeDebit {
		p.CreditAccount = &second
	} else {
		p.DebitAccount = &second
	}

	if at := indexKeyword(tokens, keywordOn, cursor); at >= 0 {
		if at+1 >= len(tokens) {
			return p, reject(CodeInvalidDate, "missing date after ON")
		}
		date := tokens[at+1]
		p.ExecuteBy = &date
	}

	return p, nil
}

// matchClause finds c.anchor at or after cursor, checks the keywords that
// must follow it, and returns the account id plus the index just past it.
func matchClause(tokens []string, cursor int, c clause) (string, int, *Rejection) {
	at := indexKeyword(tokens, c.anchor, cursor)
	if at < 0 {
		return "", cursor, reject(CodeMissingKeyword, c.anchor)
	}

	prev := c.anchor
	pos := at + 1
	for _, kw := range c.follows {
		if pos >= len(tokens) {
			return "", cursor, reject(CodeMalformed, "expected "+kw+" after "+prev)
		}
		if !strings.EqualFold(tokens[pos], kw) {
			return "", cursor, reject(CodeInvalidKeywordOrder, kw, prev, tokens[pos])
		}
		prev = kw
		pos++
	}

	if pos >= len(tokens) {
		return "", cursor, reject(CodeMalformed, "expected account id after "+prev)
	}
	return tokens[pos], pos + 1, nil
}

// indexKeyword returns the first index at or after from whose token equals
// keyword case-insensitively, or -1.
func indexKeyword(tokens []string, keyword string, from int) int {
	for i := from; i < len(tokens); i++ {
		if strings.EqualFold(tokens[i], keyword) {
			return i
		}
	}
	return -1
}

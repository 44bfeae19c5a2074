package instruction

import "strings"

// Tokenize splits an instruction on runs of whitespace. Case is preserved.
func Tokenize(s string) []string {
	return strings.Fields(strings.ReplaceAll(s, "\t", " "))
}

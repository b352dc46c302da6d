package entity

import "strings"

// NormalizeSymbol is the single place where ticker symbols are canonicalised
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

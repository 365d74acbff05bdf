package model

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// basicIdentifier follows VHDL: a letter, then letters or digits optionally
// separated by single underscores, never ending in an underscore.
var basicIdentifier = regexp.MustCompile(`^[A-Za-z](_?[A-Za-z0-9])*$`)

// IsValidIdentifier reports whether name is a VHDL basic identifier or an
// extended identifier (\like this\).
func IsValidIdentifier(name string) bool {
	if isExtendedIdentifier(name) {
		inner := name[1 : len(name)-1]
		// Backslashes inside an extended identifier must be doubled.
		return !strings.Contains(strings.ReplaceAll(inner, `\\`, ""), `\`)
	}
	return basicIdentifier.MatchString(name)
}

func isExtendedIdentifier(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, `\`) && strings.HasSuffix(name, `\`)
}

// NormalizeIdentifier returns the key used to compare identifiers. Basic
// identifiers are case-insensitive; extended identifiers compare verbatim.
func NormalizeIdentifier(name string) string {
	if isExtendedIdentifier(name) {
		return name
	}
	return cases.Fold().String(name)
}

// SameIdentifier reports whether a and b denote the same VHDL identifier.
func SameIdentifier(a, b string) bool {
	return NormalizeIdentifier(a) == NormalizeIdentifier(b)
}

func checkIdentifier(op, name string) error {
	if !IsValidIdentifier(name) {
		return newError(op, name, ErrInvalidIdentifier)
	}
	return nil
}

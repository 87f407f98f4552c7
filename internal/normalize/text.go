package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// collapseSpaces trims the value and folds internal whitespace runs to one space
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// foldKey is the case-insensitive lookup key of a table entry
func foldKey(s string) string {
	return strings.ToLower(collapseSpaces(s))
}

// titleCase capitalizes each word with French rules, keeping accents.
// A Caser is stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.French).String(s)
}

// buildLookup indexes a variant table by fold key. Every canonical label is
// also indexed to itself so canonical output normalizes unchanged.
func buildLookup(table map[string]string) map[string]string {
	lookup := make(map[string]string, len(table)*2)
	for _, canonical := range table {
		lookup[foldKey(canonical)] = collapseSpaces(canonical)
	}
	for variant, canonical := range table {
		lookup[foldKey(variant)] = collapseSpaces(canonical)
	}
	return lookup
}

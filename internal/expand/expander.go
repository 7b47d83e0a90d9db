// Package expand rewrites search queries with a fixed abbreviation
// table so semantic retrieval sees both the shorthand and the long form.
package expand

import "strings"

// Expansion maps one abbreviation to its long form. Expansions are
// applied in slice order, so precedence is data rather than code.
type Expansion struct {
	Abbr string
	Full string
}

// DefaultExpansions is the built-in synonym table.
var DefaultExpansions = []Expansion{
	{"ml", "machine learning"},
	{"ai", "artificial intelligence"},
	{"nn", "neural network"},
	{"dl", "deep learning"},
	{"nlp", "natural language processing"},
}

// Expander augments queries in place: each abbreviation found as a
// substring is replaced by "{abbr} {full}", preserving the original
// token so exact keyword matching still works.
type Expander struct {
	expansions []Expansion
}

// NewExpander creates an Expander with a custom table. A nil or empty
// table falls back to DefaultExpansions.
func NewExpander(expansions []Expansion) *Expander {
	if len(expansions) == 0 {
		expansions = DefaultExpansions
	}
	return &Expander{expansions: expansions}
}

// Expand rewrites the query, lowercased, with every known abbreviation
// augmented by its long form. Expansion is deterministic but not
// idempotent: expanding an already-expanded query duplicates phrases,
// so callers must expand at most once per request.
func (e *Expander) Expand(query string) string {
	expanded := strings.ToLower(query)
	for _, exp := range e.expansions {
		if strings.Contains(expanded, exp.Abbr) {
			expanded = strings.ReplaceAll(expanded, exp.Abbr, exp.Abbr+" "+exp.Full)
		}
	}
	return expanded
}

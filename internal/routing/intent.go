// Package routing classifies queries and source content to pick the
// right generation backend. All functions are total: unmatched input
// falls back to the general labels so the routing path never fails.
package routing

import (
	"strings"

	"github.com/docustack/retriever/internal/types"
)

// intentRule binds one lexical cue set to an intent label.
type intentRule struct {
	Intent   types.Intent
	Keywords []string
}

// intentRules is checked in order and the first matching rule wins.
// The cue sets overlap in vocabulary ("compare" vs "analyze", question
// words everywhere), so the order itself is part of the contract and
// must not be reshuffled.
var intentRules = []intentRule{
	{
		Intent:   types.IntentComparison,
		Keywords: []string{"compare", "difference", "vs", "versus", "contrast", "similar"},
	},
	{
		Intent:   types.IntentAnalytical,
		Keywords: []string{"analyze", "explain why", "reasoning", "evaluate"},
	},
	{
		Intent:   types.IntentCreative,
		Keywords: []string{"write", "create", "generate", "imagine", "story", "poem"},
	},
	{
		Intent:   types.IntentFactual,
		Keywords: []string{"what", "who", "when", "where", "define", "summarize", "list"},
	},
}

// ClassifyIntent labels a query by matching its lowercased text against
// the ordered cue sets. Queries matching nothing are general.
func ClassifyIntent(query string) types.Intent {
	lowered := strings.ToLower(query)

	for _, rule := range intentRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Intent
			}
		}
	}
	return types.IntentGeneral
}

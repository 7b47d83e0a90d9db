package routing

import (
	"strings"

	"github.com/docustack/retriever/internal/types"
)

// DomainKeywordThreshold is the number of distinct keyword hits a
// domain needs before content is attributed to it. Below the threshold
// content stays general.
const DomainKeywordThreshold = 3

// domainRule binds one keyword list to a domain label.
type domainRule struct {
	Domain   types.Domain
	Keywords []string
}

// domainRules is checked in order; the first domain reaching the
// threshold wins.
var domainRules = []domainRule{
	{
		Domain:   types.DomainMedical,
		Keywords: []string{"patient", "treatment", "diagnosis", "clinical", "therapy", "medical", "disease", "symptom"},
	},
	{
		Domain:   types.DomainLegal,
		Keywords: []string{"court", "law", "legal", "statute", "regulation", "contract", "plaintiff", "defendant"},
	},
	{
		Domain:   types.DomainTechnical,
		Keywords: []string{"algorithm", "implementation", "system", "architecture", "performance", "optimization"},
	},
	{
		Domain:   types.DomainScientific,
		Keywords: []string{"research", "experiment", "hypothesis", "methodology", "results", "conclusion"},
	},
}

// DetectDomain labels source content by keyword density. Each keyword
// counts once regardless of how often it appears.
func DetectDomain(content string) types.Domain {
	lowered := strings.ToLower(content)

	for _, rule := range domainRules {
		hits := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				hits++
			}
		}
		if hits >= DomainKeywordThreshold {
			return rule.Domain
		}
	}
	return types.DomainGeneral
}

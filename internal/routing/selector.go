package routing

import "github.com/docustack/retriever/internal/types"

// specialistDomains are the domains that warrant the specialist backend
// for factual questions.
var specialistDomains = map[types.Domain]bool{
	types.DomainMedical:   true,
	types.DomainLegal:     true,
	types.DomainTechnical: true,
}

// SelectBackend maps an (intent, domain) pair to a generation backend.
// Pure decision table, no I/O:
//
//	factual + medical/legal/technical -> specialist
//	factual otherwise                 -> analytical
//	creative                          -> conversational
//	analytical, comparison            -> analytical
//	anything else                     -> specialist (default fallback)
func SelectBackend(intent types.Intent, domain types.Domain) types.BackendID {
	switch intent {
	case types.IntentFactual:
		if specialistDomains[domain] {
			return types.BackendSpecialist
		}
		return types.BackendAnalytical
	case types.IntentCreative:
		return types.BackendConversational
	case types.IntentAnalytical, types.IntentComparison:
		return types.BackendAnalytical
	default:
		return types.BackendSpecialist
	}
}

// Classify runs intent classification and, when content is available,
// domain detection in one call. Empty content leaves the domain
// general.
func Classify(query, content string) types.QueryClassification {
	classification := types.QueryClassification{
		Intent: ClassifyIntent(query),
		Domain: types.DomainGeneral,
	}
	if content != "" {
		classification.Domain = DetectDomain(content)
	}
	return classification
}

package recommend

import "strings"

// Intent classifies an assistant query.
type Intent int

const (
	// IntentGeneral is free-form startup advice; no founder list applies.
	IntentGeneral Intent = iota
	// IntentNearby asks for founders within the nearby radius.
	IntentNearby
	// IntentRecommended asks for founders matched on skills, experience and goals.
	IntentRecommended
)

func (i Intent) String() string {
	switch i {
	case IntentNearby:
		return "nearby"
	case IntentRecommended:
		return "recommended"
	default:
		return "general"
	}
}

var (
	nearbyMarkers      = []string{"nearby", "near me", "close to me", "around me", "in my area", "in my city", "local founders", "closest"}
	recommendedMarkers = []string{"recommend", "suggest", "match", "similar", "connect me", "who should i"}
)

// DetectIntent classifies a chat query by keyword heuristics. Location
// wording wins over matching wording; everything else is general advice.
func DetectIntent(query string) Intent {
	q := strings.ToLower(query)

	for _, marker := range nearbyMarkers {
		if strings.Contains(q, marker) {
			return IntentNearby
		}
	}
	for _, marker := range recommendedMarkers {
		if strings.Contains(q, marker) {
			return IntentRecommended
		}
	}
	return IntentGeneral
}

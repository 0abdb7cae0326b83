package relay

import (
	"strings"

	"floodbot/internal/domain"
)

// Command markers recognized anywhere in free text. Matching is
// case-insensitive; flood is checked before prep, so a message carrying
// both markers classifies as flood.
const (
	floodMarker = "/flood"
	prepMarker  = "/disruption"
)

// Classifier maps raw message text to an intent tag.
type Classifier struct {
	prepEnabled bool
}

func NewClassifier(prepEnabled bool) *Classifier {
	return &Classifier{prepEnabled: prepEnabled}
}

// Classify is pure and total: empty or non-matching text is IntentNone.
func (c *Classifier) Classify(text string) domain.Intent {
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, floodMarker) {
		return domain.IntentFlood
	}
	if c.prepEnabled && strings.Contains(lowered, prepMarker) {
		return domain.IntentPrep
	}
	return domain.IntentNone
}

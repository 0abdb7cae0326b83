package domain

import "context"

// CardProvider supplies localized, pre-composed reply content.
// Implementations may reach the cards API; stand-ins are used in tests.
type CardProvider interface {
	// Card returns an intent card (flood/prep prompt with deep links).
	Card(ctx context.Context, props ReplyProperties) (Card, error)
	// Default returns the fallback message for unclassified input.
	Default(ctx context.Context, props ReplyProperties) (Card, error)
	// Thanks returns the post-report thank-you card.
	Thanks(ctx context.Context, report Report) (Card, error)
}

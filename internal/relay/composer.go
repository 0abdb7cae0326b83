package relay

import (
	"net/url"

	"floodbot/internal/domain"
)

// Composer builds Telegram send-message URLs. Parameter order and
// concatenation (text, link, chat_id) must stay byte-compatible with the
// existing platform integration.
type Composer struct {
	endpoint string
	token    string
}

func NewComposer(endpoint, token string) *Composer {
	return &Composer{endpoint: endpoint, token: token}
}

// LinkReply builds a reply carrying the card's deep link for the intent.
// Prep replies use the card's prep link; everything else the flood link.
func (c *Composer) LinkReply(userID string, card domain.Card, intent domain.Intent) (domain.OutboundRequest, error) {
	if card.Text == "" {
		return domain.OutboundRequest{}, &domain.MalformedCardError{Intent: intent, Field: "text"}
	}
	link := card.Link
	if intent == domain.IntentPrep {
		link = card.PrepLink
	}
	if link == "" {
		return domain.OutboundRequest{}, &domain.MalformedCardError{Intent: intent, Field: "link"}
	}
	return domain.OutboundRequest{
		URL:    c.endpoint + c.token + "/sendmessage?text=" + url.QueryEscape(card.Text) + link + "&chat_id=" + userID,
		ChatID: userID,
	}, nil
}

// DefaultReply builds a linkless reply for unclassified messages.
func (c *Composer) DefaultReply(userID string, card domain.Card) (domain.OutboundRequest, error) {
	if card.Text == "" {
		return domain.OutboundRequest{}, &domain.MalformedCardError{Intent: domain.IntentNone, Field: "text"}
	}
	return domain.OutboundRequest{
		URL:    c.endpoint + c.token + "/sendmessage?text=" + url.QueryEscape(card.Text) + "&chat_id=" + userID,
		ChatID: userID,
	}, nil
}

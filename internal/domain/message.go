package domain

import "encoding/json"

// NetworkTelegram is the channel constant stamped on card requests.
const NetworkTelegram = "telegram"

// RegionOutsideCoverage is the sentinel region code reports carry when
// they were submitted outside the covered reporting area.
const RegionOutsideCoverage = "null"

// InboundMessage is one user message lifted out of the Telegram webhook
// envelope. Constructed once per request and consumed by the orchestrator.
type InboundMessage struct {
	ChatID      string
	Text        string
	LanguageTag string // sender locale tag, e.g. "en-US"; may be empty
}

// ReplyProperties are the user-facing properties derived from an
// InboundMessage and passed to the content provider.
type ReplyProperties struct {
	UserID   string
	Language string // ISO-639-1-ish primary subtag
	Network  string
}

// Intent is the classified action category of a message.
type Intent string

const (
	IntentFlood Intent = "flood"
	IntentPrep  Intent = "prep"
	IntentNone  Intent = "none"
)

// Card is a content-provider bundle of display text and optional deep
// links. PrepLink is only populated when the prep intent is configured.
type Card struct {
	Text     string
	Link     string
	PrepLink string
}

// OutboundRequest is a fully composed Telegram send-message call.
// URL always carries the urlencoded text and a trailing chat_id parameter.
type OutboundRequest struct {
	URL    string
	ChatID string
}

// PlatformResponse is the Telegram Bot API reply to a send-message call.
type PlatformResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// Report is a submitted-report record for the thanks path.
type Report struct {
	UserID             string `json:"userId"`
	ReportID           string `json:"reportId"`
	InstanceRegionCode string `json:"instanceRegionCode"`
	Language           string `json:"language,omitempty"`
}

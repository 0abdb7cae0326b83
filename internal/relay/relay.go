package relay

import (
	"context"
	"log/slog"
	"strings"

	"floodbot/internal/config"
	"floodbot/internal/domain"
	"floodbot/internal/metrics"

	"github.com/google/uuid"
)

// Sender dispatches a composed request; satisfied by *Dispatcher.
type Sender interface {
	Send(ctx context.Context, out domain.OutboundRequest) (*domain.PlatformResponse, error)
}

// Relay is the reply orchestrator: it derives user-facing properties from
// one inbound message, classifies it, fetches content, and hands the
// composed request to the dispatcher. One isolated pipeline per message;
// no state survives between calls.
type Relay struct {
	reply      config.ReplyConfig
	locale     config.LocaleConfig
	classifier *Classifier
	composer   *Composer
	cards      domain.CardProvider
	sender     Sender
	logger     *slog.Logger
}

type Config struct {
	Reply    config.ReplyConfig
	Locale   config.LocaleConfig
	Composer *Composer
	Cards    domain.CardProvider
	Sender   Sender
	Logger   *slog.Logger
}

func New(cfg Config) *Relay {
	return &Relay{
		reply:      cfg.Reply,
		locale:     cfg.Locale,
		classifier: NewClassifier(cfg.Reply.PrepEnabled()),
		composer:   cfg.Composer,
		cards:      cfg.Cards,
		sender:     cfg.Sender,
		logger:     cfg.Logger,
	}
}

// SendReply runs the classify → fetch → compose → dispatch pipeline for
// one inbound message. Card and dispatch errors propagate unchanged; the
// webhook entry point is the only place that translates them.
func (r *Relay) SendReply(ctx context.Context, msg domain.InboundMessage) (*domain.PlatformResponse, error) {
	metrics.MessagesTotal.Inc()
	metrics.InFlight.Inc()
	defer metrics.InFlight.Dec()

	if msg.ChatID == "" {
		return nil, &domain.ValidationError{Field: "message.chat.id", Reason: "is required"}
	}

	props := domain.ReplyProperties{
		UserID:   msg.ChatID,
		Language: r.deriveLanguage(msg.LanguageTag),
		Network:  domain.NetworkTelegram,
	}

	intent := r.classifier.Classify(msg.Text)

	logger := r.logger.With("pipeline_id", uuid.NewString(), "chat_id", props.UserID, "intent", string(intent))
	logger.Info("message classified", "language", props.Language)

	var (
		out domain.OutboundRequest
		err error
	)
	switch intent {
	case domain.IntentFlood, domain.IntentPrep:
		if r.reply.ForceLanguageOnCardIntents {
			props.Language = r.reply.ForcedLanguage
		}
		card, cardErr := r.cards.Card(ctx, props)
		if cardErr != nil {
			return nil, cardErr
		}
		out, err = r.composer.LinkReply(props.UserID, card, intent)
	default:
		card, cardErr := r.cards.Default(ctx, props)
		if cardErr != nil {
			return nil, cardErr
		}
		out, err = r.composer.DefaultReply(props.UserID, card)
	}
	if err != nil {
		return nil, err
	}

	resp, err := r.sender.Send(ctx, out)
	if err != nil {
		return nil, err
	}
	metrics.RepliesTotal.Inc()
	logger.Info("reply dispatched", "ok", resp.OK)
	return resp, nil
}

// SendThanks sends the post-report thank-you card. No classification
// step: the reply is keyed to the flood link. Reports submitted outside
// the covered area carry the "null" sentinel region and fall back to the
// configured default region.
func (r *Relay) SendThanks(ctx context.Context, report domain.Report) (*domain.PlatformResponse, error) {
	metrics.InFlight.Inc()
	defer metrics.InFlight.Dec()

	if report.UserID == "" {
		return nil, &domain.ValidationError{Field: "userId", Reason: "is required"}
	}
	if report.InstanceRegionCode == domain.RegionOutsideCoverage {
		report.InstanceRegionCode = r.locale.DefaultRegionCode
	}
	if report.Language == "" {
		report.Language = r.locale.DefaultLanguage
	}

	card, err := r.cards.Thanks(ctx, report)
	if err != nil {
		return nil, err
	}

	out, err := r.composer.LinkReply(report.UserID, card, domain.IntentFlood)
	if err != nil {
		return nil, err
	}

	resp, err := r.sender.Send(ctx, out)
	if err != nil {
		return nil, err
	}
	metrics.ThanksTotal.Inc()
	r.logger.Info("thanks dispatched",
		"chat_id", report.UserID,
		"report_id", report.ReportID,
		"region", report.InstanceRegionCode,
	)
	return resp, nil
}

// deriveLanguage picks the reply language per the configured strategy:
// the locale tag's primary subtag, or the fixed default.
func (r *Relay) deriveLanguage(tag string) string {
	if r.reply.LanguageStrategy == config.LanguageFixedDefault || tag == "" {
		return r.locale.DefaultLanguage
	}
	if i := strings.Index(tag, "-"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

// Package cards implements the content-provider capability: localized
// reply text from the message bundle plus one-time card deep links
// fetched from the cards API.
package cards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"floodbot/internal/domain"
	"floodbot/internal/metrics"
)

const reportIDPlaceholder = "{reportId}"

// Service implements domain.CardProvider. Card performs the one network
// fetch of the pipeline; Default and Thanks are bundle-local.
type Service struct {
	apiBase     string
	apiKey      string
	cardBaseURL string
	prepBaseURL string
	mapBaseURL  string
	bundle      *Bundle
	client      *http.Client
	logger      *slog.Logger
}

type ServiceConfig struct {
	APIBase     string
	APIKey      string
	CardBaseURL string
	PrepBaseURL string
	MapBaseURL  string
	Timeout     time.Duration
	Client      *http.Client // optional; defaults to a client with Timeout
	Bundle      *Bundle
	Logger      *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Service{
		apiBase:     strings.TrimSuffix(cfg.APIBase, "/"),
		apiKey:      cfg.APIKey,
		cardBaseURL: cfg.CardBaseURL,
		prepBaseURL: cfg.PrepBaseURL,
		mapBaseURL:  cfg.MapBaseURL,
		bundle:      cfg.Bundle,
		client:      client,
		logger:      cfg.Logger,
	}
}

type cardRequest struct {
	Username string `json:"username"`
	Network  string `json:"network"`
	Language string `json:"language"`
}

type cardResponse struct {
	CardID string `json:"cardId"`
}

// Card requests a one-time card id from the cards API and assembles the
// intent card: localized prompt text plus flood and prep deep links.
func (s *Service) Card(ctx context.Context, props domain.ReplyProperties) (domain.Card, error) {
	body, err := json.Marshal(cardRequest{
		Username: props.UserID,
		Network:  props.Network,
		Language: props.Language,
	})
	if err != nil {
		return domain.Card{}, fmt.Errorf("marshal card request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiBase+"/cards", bytes.NewReader(body))
	if err != nil {
		return domain.Card{}, fmt.Errorf("build card request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Card{}, fmt.Errorf("cards api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Card{}, fmt.Errorf("cards api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var card cardResponse
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return domain.Card{}, fmt.Errorf("decode card response: %w", err)
	}
	if card.CardID == "" {
		return domain.Card{}, fmt.Errorf("cards api returned empty card id")
	}

	metrics.CardFetchesTotal.Inc()
	s.logger.Debug("card fetched", "card_id", card.CardID, "language", props.Language)

	out := domain.Card{
		Text: s.bundle.Text(props.Language, KeyCard),
		Link: s.cardBaseURL + card.CardID,
	}
	if s.prepBaseURL != "" {
		out.PrepLink = s.prepBaseURL + card.CardID
	}
	return out, nil
}

// Default returns the fallback message for the language. Bundle-local,
// no network call.
func (s *Service) Default(_ context.Context, props domain.ReplyProperties) (domain.Card, error) {
	return domain.Card{Text: s.bundle.Text(props.Language, KeyDefault)}, nil
}

// Thanks returns the post-report thank-you card with the report id
// substituted into the text and a map deep link for the report's region.
func (s *Service) Thanks(_ context.Context, report domain.Report) (domain.Card, error) {
	text := strings.ReplaceAll(s.bundle.Text(report.Language, KeyThanks), reportIDPlaceholder, report.ReportID)
	return domain.Card{
		Text: text,
		Link: s.mapBaseURL + report.InstanceRegionCode + "/" + report.ReportID,
	}, nil
}

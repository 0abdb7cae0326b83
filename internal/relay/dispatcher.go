package relay

import (
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

// Doer is the minimal HTTP transport the dispatcher needs. *http.Client
// satisfies it; tests swap in a stub.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dispatcher performs the single outbound call to the Telegram
// send-message endpoint. No retry: a failed attempt surfaces as
// DispatchError and terminates the pipeline.
type Dispatcher struct {
	client Doer
	token  string
	logger *slog.Logger
}

type DispatcherConfig struct {
	Client  Doer          // optional; defaults to an http.Client with Timeout
	Token   string        // redacted from diagnostic logs
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Dispatcher{client: client, token: cfg.Token, logger: cfg.Logger}
}

func (d *Dispatcher) Send(ctx context.Context, out domain.OutboundRequest) (*domain.PlatformResponse, error) {
	d.logger.Info("dispatching telegram send",
		"chat_id", out.ChatID,
		"url", redactToken(out.URL, d.token),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, out.URL, http.NoBody)
	if err != nil {
		return nil, &domain.DispatchError{Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		metrics.DispatchFailures.Inc()
		return nil, &domain.DispatchError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.DispatchFailures.Inc()
		return nil, &domain.DispatchError{Err: fmt.Errorf("telegram returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var platform domain.PlatformResponse
	if err := json.Unmarshal(body, &platform); err != nil {
		return nil, &domain.DispatchError{Err: fmt.Errorf("decode response: %w", err)}
	}

	return &platform, nil
}

// redactToken strips the bot credential from a URL before logging.
func redactToken(u, token string) string {
	if token == "" {
		return u
	}
	return strings.ReplaceAll(u, token, "***")
}

package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"floodbot/internal/config"
	"floodbot/internal/domain"
)

type fakeRelay struct {
	lastMsg    domain.InboundMessage
	lastReport domain.Report
	replyCalls int
	thankCalls int
	resp       *domain.PlatformResponse
	err        error
}

func (f *fakeRelay) SendReply(_ context.Context, msg domain.InboundMessage) (*domain.PlatformResponse, error) {
	f.replyCalls++
	f.lastMsg = msg
	return f.resp, f.err
}

func (f *fakeRelay) SendThanks(_ context.Context, report domain.Report) (*domain.PlatformResponse, error) {
	f.thankCalls++
	f.lastReport = report
	return f.resp, f.err
}

func testServer(relay *fakeRelay) *Server {
	return New(Config{
		Server: config.ServerConfig{
			WebhookPath: "/webhook/telegram",
			ReportPath:  "/webhook/report",
		},
		Metrics: config.MetricsConfig{Enabled: true, Endpoint: "/metrics"},
		Relay:   relay,
		Logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	})
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_Success(t *testing.T) {
	relay := &fakeRelay{resp: &domain.PlatformResponse{OK: true}}
	h := testServer(relay).Routes()

	body := `{"message":{"chat":{"id":123},"text":"/flood","from":{"language_code":"pt-BR"}}}`
	rec := post(t, h, "/webhook/telegram", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if relay.replyCalls != 1 {
		t.Fatalf("expected one reply call, got %d", relay.replyCalls)
	}
	if relay.lastMsg.ChatID != "123" {
		t.Fatalf("unexpected chat id: %q", relay.lastMsg.ChatID)
	}
	if relay.lastMsg.Text != "/flood" {
		t.Fatalf("unexpected text: %q", relay.lastMsg.Text)
	}
	if relay.lastMsg.LanguageTag != "pt-BR" {
		t.Fatalf("unexpected language tag: %q", relay.lastMsg.LanguageTag)
	}

	var resp domain.PlatformResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK {
		t.Fatal("expected ok response body")
	}
}

func TestWebhook_NoFromOmitsLanguage(t *testing.T) {
	relay := &fakeRelay{resp: &domain.PlatformResponse{OK: true}}
	h := testServer(relay).Routes()

	rec := post(t, h, "/webhook/telegram", `{"message":{"chat":{"id":7},"text":"hello"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if relay.lastMsg.LanguageTag != "" {
		t.Fatalf("expected empty language tag, got %q", relay.lastMsg.LanguageTag)
	}
}

func TestWebhook_InvalidJSON(t *testing.T) {
	relay := &fakeRelay{}
	h := testServer(relay).Routes()

	rec := post(t, h, "/webhook/telegram", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if relay.replyCalls != 0 {
		t.Fatal("relay must not be called for malformed bodies")
	}
}

func TestWebhook_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"no message", `{}`, "message is required"},
		{"no chat", `{"message":{"text":"/flood"}}`, "message.chat.id is required"},
		{"zero chat id", `{"message":{"chat":{"id":0},"text":"/flood"}}`, "message.chat.id is required"},
		{"no text", `{"message":{"chat":{"id":5}}}`, "message.text is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			relay := &fakeRelay{}
			rec := post(t, testServer(relay).Routes(), "/webhook/telegram", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Fatalf("expected %q in body, got %s", tc.want, rec.Body.String())
			}
			if relay.replyCalls != 0 {
				t.Fatal("relay must not be called")
			}
		})
	}
}

func TestWebhook_RelayValidationErrorIs400(t *testing.T) {
	relay := &fakeRelay{err: &domain.ValidationError{Field: "message.chat.id", Reason: "is required"}}
	rec := post(t, testServer(relay).Routes(), "/webhook/telegram", `{"message":{"chat":{"id":1},"text":"hi"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWebhook_DispatchErrorIs500(t *testing.T) {
	relay := &fakeRelay{err: &domain.DispatchError{Err: context.DeadlineExceeded}}
	rec := post(t, testServer(relay).Routes(), "/webhook/telegram", `{"message":{"chat":{"id":1},"text":"/flood"}}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "dispatch failed") {
		t.Fatalf("expected error message in body, got %s", rec.Body.String())
	}
}

func TestReport_Success(t *testing.T) {
	relay := &fakeRelay{resp: &domain.PlatformResponse{OK: true}}
	body := `{"userId":"456","reportId":"99","instanceRegionCode":"jbd","language":"en"}`
	rec := post(t, testServer(relay).Routes(), "/webhook/report", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if relay.thankCalls != 1 {
		t.Fatalf("expected one thanks call, got %d", relay.thankCalls)
	}
	if relay.lastReport.ReportID != "99" || relay.lastReport.InstanceRegionCode != "jbd" {
		t.Fatalf("unexpected report: %+v", relay.lastReport)
	}
}

func TestReport_MissingUserID(t *testing.T) {
	relay := &fakeRelay{}
	rec := post(t, testServer(relay).Routes(), "/webhook/report", `{"reportId":"99"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if relay.thankCalls != 0 {
		t.Fatal("relay must not be called")
	}
}

func TestReport_InvalidJSON(t *testing.T) {
	rec := post(t, testServer(&fakeRelay{}).Routes(), "/webhook/report", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	testServer(&fakeRelay{}).Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	testServer(&fakeRelay{}).Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "floodbot_uptime_seconds") {
		t.Fatalf("expected metrics exposition, got %s", rec.Body.String())
	}
}

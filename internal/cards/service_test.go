package cards

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"floodbot/internal/domain"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	dir := writeTestBundle(t, "id")
	b, err := LoadBundle(dir, "id", "en", testBundleLogger())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func testService(t *testing.T, apiBase string) *Service {
	t.Helper()
	return NewService(ServiceConfig{
		APIBase:     apiBase,
		APIKey:      "test-key",
		CardBaseURL: "https://cards.example/",
		PrepBaseURL: "https://cards.example/prep/",
		MapBaseURL:  "https://map.example/",
		Bundle:      testBundle(t),
		Logger:      testBundleLogger(),
	})
}

func TestServiceCard_FetchesCardID(t *testing.T) {
	var gotBody cardRequest
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cards" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("X-API-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(cardResponse{CardID: "abc123"})
	}))
	defer srv.Close()

	s := testService(t, srv.URL)
	card, err := s.Card(context.Background(), domain.ReplyProperties{
		UserID:   "123",
		Language: "en",
		Network:  domain.NetworkTelegram,
	})
	if err != nil {
		t.Fatalf("card: %v", err)
	}

	if gotKey != "test-key" {
		t.Fatalf("expected API key header, got %q", gotKey)
	}
	if gotBody.Username != "123" || gotBody.Network != "telegram" || gotBody.Language != "en" {
		t.Fatalf("unexpected card request body: %+v", gotBody)
	}
	if card.Text != "Please report your flood situation" {
		t.Fatalf("unexpected text: %q", card.Text)
	}
	if card.Link != "https://cards.example/abc123" {
		t.Fatalf("unexpected link: %q", card.Link)
	}
	if card.PrepLink != "https://cards.example/prep/abc123" {
		t.Fatalf("unexpected prep link: %q", card.PrepLink)
	}
}

func TestServiceCard_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := testService(t, srv.URL)
	_, err := s.Card(context.Background(), domain.ReplyProperties{UserID: "1", Language: "en"})
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestServiceCard_EmptyCardID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(cardResponse{})
	}))
	defer srv.Close()

	s := testService(t, srv.URL)
	_, err := s.Card(context.Background(), domain.ReplyProperties{UserID: "1", Language: "en"})
	if err == nil {
		t.Fatal("expected error for empty card id")
	}
}

func TestServiceDefault_NoNetworkCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	s := testService(t, srv.URL)
	card, err := s.Default(context.Background(), domain.ReplyProperties{Language: "id"})
	if err != nil {
		t.Fatal(err)
	}
	if card.Text != "Hai! Ketik /flood untuk melapor." {
		t.Fatalf("unexpected text: %q", card.Text)
	}
	if card.Link != "" {
		t.Fatalf("default card must not carry a link: %q", card.Link)
	}
	if calls != 0 {
		t.Fatalf("default must not reach the cards api, got %d calls", calls)
	}
}

func TestServiceThanks_SubstitutesReportID(t *testing.T) {
	s := testService(t, "http://unused.invalid")
	card, err := s.Thanks(context.Background(), domain.Report{
		UserID:             "456",
		ReportID:           "99",
		InstanceRegionCode: "jbd",
		Language:           "en",
	})
	if err != nil {
		t.Fatal(err)
	}
	if card.Text != "Thanks! Report 99 received." {
		t.Fatalf("report id not substituted: %q", card.Text)
	}
	if card.Link != "https://map.example/jbd/99" {
		t.Fatalf("unexpected map link: %q", card.Link)
	}
}

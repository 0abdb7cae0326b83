package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"floodbot/internal/domain"
	"floodbot/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxBodyBytes = 1 << 20 // 1MB

// handleTelegramWebhook accepts a Telegram update envelope. Validation
// requires message, message.chat.id and message.text; the historical
// integration accepted any object, which is deliberately tightened here.
func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Reason: "cannot be read"})
		return
	}
	defer r.Body.Close()

	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Reason: "must be a JSON update envelope"})
		return
	}
	if update.Message == nil {
		s.writeError(w, &domain.ValidationError{Field: "message", Reason: "is required"})
		return
	}
	if update.Message.Chat == nil || update.Message.Chat.ID == 0 {
		s.writeError(w, &domain.ValidationError{Field: "message.chat.id", Reason: "is required"})
		return
	}
	if update.Message.Text == "" {
		s.writeError(w, &domain.ValidationError{Field: "message.text", Reason: "is required"})
		return
	}

	msg := domain.InboundMessage{
		ChatID: strconv.FormatInt(update.Message.Chat.ID, 10),
		Text:   update.Message.Text,
	}
	if update.Message.From != nil {
		msg.LanguageTag = update.Message.From.LanguageCode
	}

	resp, err := s.relay.SendReply(r.Context(), msg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleReport accepts a submitted-report record and sends the thank-you
// reply for it.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Reason: "cannot be read"})
		return
	}
	defer r.Body.Close()

	var report domain.Report
	if err := json.Unmarshal(body, &report); err != nil {
		s.writeError(w, &domain.ValidationError{Field: "body", Reason: "must be a JSON report record"})
		return
	}
	if report.UserID == "" {
		s.writeError(w, &domain.ValidationError{Field: "userId", Reason: "is required"})
		return
	}

	resp, err := s.relay.SendThanks(r.Context(), report)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps the error taxonomy to transport responses: validation
// failures are 400, everything else 500. Only the message string leaves
// the process.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		metrics.ValidationFailures.Inc()
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
		return
	}
	s.logger.Error("pipeline failed", "err", err)
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

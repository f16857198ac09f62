package messenger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// EventReceived is the acknowledgement body returned for every page envelope.
const EventReceived = "EVENT_RECEIVED"

// EventHandler receives the messaging events extracted from a webhook envelope.
// Implementations must not block on outbound calls: the webhook is acknowledged
// only after every event has been handed over.
type EventHandler interface {
	HandleMessage(ctx context.Context, psid string, msg Message)
	HandlePostback(ctx context.Context, psid string, pb Postback)
}

type WebhookHandler struct {
	verifyToken string
	events      EventHandler
}

func NewWebhookHandler(verifyToken string, events EventHandler) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		events:      events,
	}
}

// HandleVerify handles the GET subscription handshake from Meta.
// Reference: https://developers.facebook.com/docs/messenger-platform/webhooks#verification-requests
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	logger.Debug().
		Str("mode", mode).
		Str("token", MaskToken(token)).
		Msg("webhook verification request")

	if mode == "" || token == "" {
		http.Error(w, "missing hub.mode or hub.verify_token", http.StatusBadRequest)
		return
	}

	if mode != "subscribe" || token != h.verifyToken {
		logger.Warn().Str("mode", mode).Str("token", MaskToken(token)).Msg("webhook verification failed")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	logger.Info().Msg("webhook verified")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// HandleIncoming processes webhook POST notifications.
// Reference: https://developers.facebook.com/docs/messenger-platform/webhooks#event-notifications
func (h *WebhookHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)

	// Only the top level is typed here: a body that is JSON but not shaped like an
	// envelope must still get 404 or the acknowledgement, never 400.
	var head struct {
		Object json.RawMessage `json:"object"`
		Entry  json.RawMessage `json:"entry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&head); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn().Int64("limit", tooLarge.Limit).Msg("webhook payload too large")
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			logger.Debug().Err(err).Msg("ignoring webhook payload that is not an envelope")
			http.NotFound(w, r)
			return
		}
		logger.Warn().Err(err).Msg("failed to decode webhook payload")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var object string
	if err := json.Unmarshal(head.Object, &object); err != nil || object != "page" {
		logger.Debug().RawJSON("object", rawOrNull(head.Object)).Msg("ignoring non-page webhook")
		http.NotFound(w, r)
		return
	}

	for _, entry := range decodeEntries(logger, head.Entry) {
		events := entry.Events()
		if len(events) == 0 {
			logger.Debug().Str("entry_id", entry.ID).Msg("entry has no messaging events")
			continue
		}
		for _, event := range events {
			h.dispatch(ctx, event)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(EventReceived))
}

// decodeEntries returns the entries that decode cleanly. An entry with unexpected
// field types is dropped whole so that no half-filled event is dispatched.
func decodeEntries(logger *zerolog.Logger, raw json.RawMessage) []Entry {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn().Err(err).Msg("webhook entry is not a list, nothing to dispatch")
		return nil
	}
	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		var entry Entry
		if err := json.Unmarshal(item, &entry); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping malformed webhook entry")
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

func (h *WebhookHandler) dispatch(ctx context.Context, event MessagingEvent) {
	psid := event.Sender.ID
	switch {
	case event.Message != nil:
		h.events.HandleMessage(ctx, psid, *event.Message)
	case event.Postback != nil:
		h.events.HandlePostback(ctx, psid, *event.Postback)
	default:
		zerolog.Ctx(ctx).Debug().Str("psid", psid).Msg("event is neither message nor postback")
	}
}

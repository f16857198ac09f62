package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/covidtrackerpr/messenger-relay/internal/messenger"
	"github.com/covidtrackerpr/messenger-relay/internal/store"
	"github.com/rs/zerolog"
)

type Sender interface {
	Send(ctx context.Context, psid string, msg messenger.OutboundMessage) error
}

type Registrar interface {
	Register(ctx context.Context, psid string) (json.RawMessage, error)
}

// Scheduler runs fn in the background and returns a task id.
type Scheduler interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context) error) string
}

type Recorder interface {
	RecordRegistration(r store.Registration) error
}

// Handler turns messaging events into replies and registrations.
type Handler struct {
	sender    Sender
	registrar Registrar
	tasks     Scheduler
	journal   Recorder // optional
}

func NewHandler(sender Sender, registrar Registrar, tasks Scheduler, journal Recorder) *Handler {
	return &Handler{
		sender:    sender,
		registrar: registrar,
		tasks:     tasks,
		journal:   journal,
	}
}

// HandleMessage replies to any text with the subscription card and to a picture
// with a confirmation card. Messages with neither are ignored.
func (h *Handler) HandleMessage(ctx context.Context, psid string, msg messenger.Message) {
	logger := zerolog.Ctx(ctx)

	var reply messenger.OutboundMessage
	if msg.Text != "" {
		reply = CardResponse()
	} else if att, ok := msg.FirstAttachment(); ok {
		reply = ConfirmPictureResponse(att.Payload.URL)
	}

	if reply == nil {
		logger.Warn().Str("psid", psid).Str("mid", msg.MID).Msg("bot: message has neither text nor attachments, not replying")
		return
	}
	h.reply(ctx, psid, reply)
}

// HandlePostback registers the user on "yes" and acknowledges; "no" asks for another picture.
func (h *Handler) HandlePostback(ctx context.Context, psid string, pb messenger.Postback) {
	switch pb.Payload {
	case PayloadYes:
		h.register(ctx, psid)
		h.reply(ctx, psid, AcknowledgementResponse())
	case PayloadNo:
		h.reply(ctx, psid, RetryPromptResponse())
	default:
		zerolog.Ctx(ctx).Warn().Str("psid", psid).Str("payload", pb.Payload).Msg("bot: unknown postback payload, not replying")
	}
}

func (h *Handler) reply(ctx context.Context, psid string, msg messenger.OutboundMessage) {
	h.tasks.Go(ctx, "send", func(ctx context.Context) error {
		if err := h.sender.Send(ctx, psid, msg); err != nil {
			return fmt.Errorf("sending reply to %s: %w", psid, err)
		}
		zerolog.Ctx(ctx).Info().Str("psid", psid).Msg("bot: message sent")
		return nil
	})
}

func (h *Handler) register(ctx context.Context, psid string) {
	h.tasks.Go(ctx, "register", func(ctx context.Context) error {
		resp, err := h.registrar.Register(ctx, psid)
		h.record(ctx, psid, resp, err)
		if err != nil {
			return fmt.Errorf("registering %s: %w", psid, err)
		}
		zerolog.Ctx(ctx).Info().Str("psid", psid).RawJSON("response", resp).Msg("bot: psid registered")
		return nil
	})
}

func (h *Handler) record(ctx context.Context, psid string, resp json.RawMessage, regErr error) {
	if h.journal == nil {
		return
	}
	r := store.Registration{
		PSID:        psid,
		LastAttempt: time.Now().UTC(),
		Succeeded:   regErr == nil,
		Response:    resp,
	}
	if regErr != nil {
		r.Error = regErr.Error()
	}
	if err := h.journal.RecordRegistration(r); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("psid", psid).Msg("bot: failed to journal registration")
	}
}

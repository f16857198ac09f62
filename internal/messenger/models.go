package messenger

import "encoding/json"

// ProcessFirstOnly makes the dispatcher consume only the first messaging event of
// every entry, and the message handler only the first attachment of a message.
const ProcessFirstOnly = true

// --- Incoming webhook payload ---
// Reference: https://developers.facebook.com/docs/messenger-platform/webhooks

type WebhookEnvelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// Events returns the messaging events the dispatcher acts on.
func (e Entry) Events() []MessagingEvent {
	if ProcessFirstOnly && len(e.Messaging) > 1 {
		return e.Messaging[:1]
	}
	return e.Messaging
}

type MessagingEvent struct {
	Sender    User      `json:"sender"`
	Recipient User      `json:"recipient"`
	Timestamp int64     `json:"timestamp"`
	Message   *Message  `json:"message,omitempty"`
	Postback  *Postback `json:"postback,omitempty"`
}

// User carries a page-scoped id (PSID).
type User struct {
	ID string `json:"id"`
}

type Message struct {
	MID         string       `json:"mid"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// FirstAttachment returns the attachment consulted by the message handler.
func (m Message) FirstAttachment() (Attachment, bool) {
	if len(m.Attachments) == 0 {
		return Attachment{}, false
	}
	return m.Attachments[0], true
}

type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

type AttachmentPayload struct {
	URL string `json:"url"`
}

type Postback struct {
	Title   string `json:"title,omitempty"`
	Payload string `json:"payload"`
}

// --- Outgoing send message ---
// Reference: https://developers.facebook.com/docs/messenger-platform/reference/send-api

// OutboundMessage is either a TextMessage or a TemplateMessage.
type OutboundMessage interface {
	json.Marshaler
	outbound()
}

type TextMessage struct {
	Text         string
	QuickReplies []QuickReply
}

func (TextMessage) outbound() {}

func (m TextMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Text         string       `json:"text"`
		QuickReplies []QuickReply `json:"quick_replies,omitempty"`
	}{m.Text, m.QuickReplies})
}

type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

type TemplateMessage struct {
	Template GenericTemplate
}

func (TemplateMessage) outbound() {}

func (m TemplateMessage) MarshalJSON() ([]byte, error) {
	type attachment struct {
		Type    string          `json:"type"`
		Payload GenericTemplate `json:"payload"`
	}
	return json.Marshal(struct {
		Attachment attachment `json:"attachment"`
	}{attachment{Type: "template", Payload: m.Template}})
}

type GenericTemplate struct {
	Elements []Element
}

func (t GenericTemplate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TemplateType string    `json:"template_type"`
		Elements     []Element `json:"elements"`
	}{"generic", t.Elements})
}

type Element struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// PostbackButton builds a button that answers with a postback event.
func PostbackButton(title, payload string) Button {
	return Button{Type: "postback", Title: title, Payload: payload}
}

type SendRequest struct {
	Recipient User            `json:"recipient"`
	Message   OutboundMessage `json:"message"`
}

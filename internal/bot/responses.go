package bot

import "github.com/covidtrackerpr/messenger-relay/internal/messenger"

const (
	PayloadYes = "yes"
	PayloadNo  = "no"

	cardImageURL = "https://covidtrackerpr.com/static/media/logo192.cc5edc6d.png"

	acknowledgementText = "Thanks!"
	retryPromptText     = "Oops, try sending another image."
)

// CardResponse asks whether the user wants daily notifications.
func CardResponse() messenger.OutboundMessage {
	return messenger.TemplateMessage{Template: messenger.GenericTemplate{
		Elements: []messenger.Element{{
			Title:    "¿Desea recibir notificaciones diarias?",
			Subtitle: "Toque un botón para contestar",
			ImageURL: cardImageURL,
			Buttons: []messenger.Button{
				messenger.PostbackButton("Si", PayloadYes),
				messenger.PostbackButton("No!", PayloadNo),
			},
		}},
	}}
}

// QuickRepliesResponse is the quick-reply variant of the subscription prompt.
func QuickRepliesResponse() messenger.OutboundMessage {
	return messenger.TextMessage{
		Text: "¿Desea inscribirse?",
		QuickReplies: []messenger.QuickReply{
			{ContentType: "text", Title: "Sí", Payload: PayloadYes},
			{ContentType: "text", Title: "No", Payload: PayloadNo},
		},
	}
}

// ConfirmPictureResponse asks the user to confirm the picture at imageURL.
func ConfirmPictureResponse(imageURL string) messenger.OutboundMessage {
	return messenger.TemplateMessage{Template: messenger.GenericTemplate{
		Elements: []messenger.Element{{
			Title:    "Is this the right picture?",
			Subtitle: "Tap a button to answer.",
			ImageURL: imageURL,
			Buttons: []messenger.Button{
				messenger.PostbackButton("Yes!", PayloadYes),
				messenger.PostbackButton("No!", PayloadNo),
			},
		}},
	}}
}

func AcknowledgementResponse() messenger.OutboundMessage {
	return messenger.TextMessage{Text: acknowledgementText}
}

func RetryPromptResponse() messenger.OutboundMessage {
	return messenger.TextMessage{Text: retryPromptText}
}

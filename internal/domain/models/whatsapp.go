package models

// WebhookPayload mirrors the structure sent by Meta's WhatsApp Cloud API webhook callbacks.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// MessageCount is the number of user messages across all entries.
func (p WebhookPayload) MessageCount() int {
	n := 0
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			n += len(change.Value.Messages)
		}
	}
	return n
}

// WebhookEntry represents one entry payload within the webhook body.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange captures the notification contents.
type WebhookChange struct {
	Value WebhookValue `json:"value"`
	Field string       `json:"field"`
}

// WebhookValue carries the messages sent by users. Delivery statuses are ignored.
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Messages         []InboundMessage `json:"messages"`
}

// Metadata contains WhatsApp phone identifiers for the business account.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// InboundMessage keeps the message shapes that can carry a command.
type InboundMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
}

// TextContent contains text messages body.
type TextContent struct {
	Body string `json:"body"`
}

// InteractiveContent represents button/list replies. Their IDs are command strings.
type InteractiveContent struct {
	Type        string      `json:"type"`
	ButtonReply *ReplyValue `json:"button_reply,omitempty"`
	ListReply   *ReplyValue `json:"list_reply,omitempty"`
}

// ReplyValue models a pressed button or a selected list item.
type ReplyValue struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// OutboundMessageRequest is a text notification. An empty To means the farm manager.
type OutboundMessageRequest struct {
	To         string `json:"to"`
	Message    string `json:"message"`
	PreviewURL bool   `json:"preview_url"`
}

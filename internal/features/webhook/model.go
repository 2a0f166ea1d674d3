package webhook

// NotificationPayload is the normalized shape the upstream gateway delivers.
// Provider-specific event formats are flattened before they reach us, so one
// schema covers both messages and reactions.
type NotificationPayload struct {
	Event      string `json:"event"` // "message" | "reaction"
	InstanceID string `json:"instance_id"`
	ChatID     string `json:"chat_id"`
	MessageID  string `json:"message_id"`
	SenderJID  string `json:"sender_jid"`
	ReactorJID string `json:"reactor_jid,omitempty"`
	Emoji      string `json:"emoji,omitempty"`
	Content    string `json:"content,omitempty"`
	Timestamp  int64  `json:"timestamp"` // unix seconds
}

package realtime

import "encoding/json"

// Client-to-server event names.
const (
	EventSendMessage = "send_message"
	EventTypingStart = "typing_start"
	EventTypingStop  = "typing_stop"
)

// Server-to-client event names.
const (
	EventNewMessage   = "new_message"
	EventMessageSent  = "message_sent"
	EventMessageError = "message_error"
	EventUserTyping   = "user_typing"
	EventUserOnline   = "user_online"
	EventUserOffline  = "user_offline"
)

// Event is a server-to-client frame.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Envelope is a client-to-server frame; payload decoding is event-specific.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PresencePayload announces an account going online or offline.
type PresencePayload struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
}

// TypingPayload relays a typing indicator to the recipient.
type TypingPayload struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

// ErrorPayload is emitted as a message_error event; the connection stays open.
type ErrorPayload struct {
	Error string `json:"error"`
}

package store

import (
	"strings"
	"time"
)

// GroupSuffix is the JID domain suffix that marks a multi-party group chat.
const GroupSuffix = "@g.us"

// UserSuffix is the JID domain suffix for one-to-one conversations.
const UserSuffix = "@s.whatsapp.net"

// Message is one persisted chat message. (chat_jid, id) is unique.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	IsFromMe  bool      `json:"is_from_me"`
	ChatJID   string    `json:"chat_jid"`
	ID        string    `json:"id"`
	ChatName  *string   `json:"chat_name,omitempty"`
	MediaType *string   `json:"media_type,omitempty"`
}

// Chat is one conversation. The last_* fields are a denormalized summary of
// the most recent message; the bridge keeps them best-effort, so they may lag
// behind the messages table.
type Chat struct {
	JID             string     `json:"jid"`
	Name            *string    `json:"name,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	LastMessage     *string    `json:"last_message,omitempty"`
	LastSender      *string    `json:"last_sender,omitempty"`
	LastIsFromMe    *bool      `json:"last_is_from_me,omitempty"`
}

// IsGroup reports whether the chat is a multi-party group, derived from the
// JID suffix convention.
func (c *Chat) IsGroup() bool {
	return strings.HasSuffix(c.JID, GroupSuffix)
}

// Contact is a known party, with or without an associated one-to-one chat.
type Contact struct {
	PhoneNumber string  `json:"phone_number"`
	Name        *string `json:"name,omitempty"`
	JID         string  `json:"jid"`
}

// MessageContext is the chronological neighborhood of a single message within
// its chat: up to N messages before and M after, both oldest-first.
// Query-time only, never persisted.
type MessageContext struct {
	Message Message   `json:"message"`
	Before  []Message `json:"before"`
	After   []Message `json:"after"`
}

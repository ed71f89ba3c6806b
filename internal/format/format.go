// Package format renders messages into the stable human-readable line format
// returned by the message tools.
package format

import (
	"fmt"
	"strings"

	"github.com/matheus3301/wamcp/internal/store"
)

// timeLayout is the fixed timestamp layout in rendered messages.
const timeLayout = "2006-01-02 15:04:05"

// NameResolver resolves a sender JID to a display name. The returned name
// must always be usable; implementations fall back to the raw JID and use the
// error only to report a degraded lookup.
type NameResolver interface {
	SenderName(jid string) (string, error)
}

// Message renders one message as a single line: optional chat-name tag,
// "You" or the resolved sender name with the timestamp, an optional
// upper-cased media tag, then the content. Terminated by one newline.
//
// A failed name lookup never aborts rendering; the raw JID is used instead.
func Message(m store.Message, names NameResolver, showChatInfo bool) string {
	var parts []string

	if showChatInfo && m.ChatName != nil && *m.ChatName != "" {
		parts = append(parts, "["+*m.ChatName+"]")
	}

	ts := m.Timestamp.Format(timeLayout)
	if m.IsFromMe {
		parts = append(parts, fmt.Sprintf("You (%s)", ts))
	} else {
		name, _ := names.SenderName(m.Sender)
		parts = append(parts, fmt.Sprintf("%s (%s)", name, ts))
	}

	if m.MediaType != nil && *m.MediaType != "" {
		parts = append(parts, "["+strings.ToUpper(*m.MediaType)+"]")
	}

	parts = append(parts, ": "+m.Content)

	return strings.Join(parts, " ") + "\n"
}

// Messages renders a list of messages in order.
func Messages(msgs []store.Message, names NameResolver, showChatInfo bool) string {
	if len(msgs) == 0 {
		return "No messages to display."
	}
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(Message(m, names, showChatInfo))
	}
	return b.String()
}

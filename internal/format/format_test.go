package format

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/wamcp/internal/store"
)

type stubResolver struct {
	names map[string]string
	err   error
}

func (r *stubResolver) SenderName(jid string) (string, error) {
	if name, ok := r.names[jid]; ok {
		return name, r.err
	}
	return jid, r.err
}

func ptr(s string) *string { return &s }

func baseMessage() store.Message {
	return store.Message{
		Timestamp: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		Sender:    "5511999@s.whatsapp.net",
		Content:   "hello there",
		ChatJID:   "5511999@s.whatsapp.net",
		ID:        "m1",
	}
}

func TestMessageFromMeRendersYou(t *testing.T) {
	m := baseMessage()
	m.IsFromMe = true
	// Even with a resolvable sender, outgoing messages render as "You".
	r := &stubResolver{names: map[string]string{m.Sender: "Ana García"}}

	got := Message(m, r, true)
	want := "You (2024-05-01 10:30:00) : hello there\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMessageResolvesSenderName(t *testing.T) {
	m := baseMessage()
	r := &stubResolver{names: map[string]string{m.Sender: "Ana García"}}

	got := Message(m, r, true)
	want := "Ana García (2024-05-01 10:30:00) : hello there\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMessageFallsBackToRawJID(t *testing.T) {
	m := baseMessage()
	r := &stubResolver{}

	got := Message(m, r, true)
	if !strings.HasPrefix(got, m.Sender+" (") {
		t.Errorf("got %q, want raw JID prefix", got)
	}
}

func TestMessageResolverFailureDoesNotAbort(t *testing.T) {
	m := baseMessage()
	r := &stubResolver{err: errors.New("store unavailable")}

	got := Message(m, r, true)
	want := "5511999@s.whatsapp.net (2024-05-01 10:30:00) : hello there\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMessageChatInfoAndMediaTag(t *testing.T) {
	m := baseMessage()
	m.ChatName = ptr("Familia")
	m.MediaType = ptr("image")
	r := &stubResolver{names: map[string]string{m.Sender: "Ana"}}

	got := Message(m, r, true)
	want := "[Familia] Ana (2024-05-01 10:30:00) [IMAGE] : hello there\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// show_chat_info=false drops the chat tag but keeps the media tag.
	got = Message(m, r, false)
	want = "Ana (2024-05-01 10:30:00) [IMAGE] : hello there\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMessagesEmptyList(t *testing.T) {
	got := Messages(nil, &stubResolver{}, true)
	if got != "No messages to display." {
		t.Errorf("got %q", got)
	}
}

func TestMessagesConcatenatesInOrder(t *testing.T) {
	m1 := baseMessage()
	m2 := baseMessage()
	m2.ID = "m2"
	m2.Content = "second"
	m2.Timestamp = m1.Timestamp.Add(time.Minute)

	got := Messages([]store.Message{m1, m2}, &stubResolver{}, true)
	if strings.Count(got, "\n") != 2 {
		t.Errorf("got %d newlines, want 2", strings.Count(got, "\n"))
	}
	if strings.Index(got, "hello there") > strings.Index(got, "second") {
		t.Error("messages rendered out of order")
	}
}

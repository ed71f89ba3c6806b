package store

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseBoundLayouts(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", "2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), false},
		{"rfc3339 with offset", "2024-05-01T12:00:00+02:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), false},
		{"no zone", "2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), false},
		{"space separator", "2024-05-01 10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), false},
		{"date only", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "yesterday", time.Time{}, true},
		{"partial", "2024-05", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBound("after", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBound(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseBound(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseBoundErrorNamesFieldAndValue(t *testing.T) {
	_, err := parseBound("before", "not-a-date")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	if verr.Field != "before" || verr.Value != "not-a-date" {
		t.Errorf("got field %q value %q", verr.Field, verr.Value)
	}
	if !strings.Contains(err.Error(), "before") || !strings.Contains(err.Error(), "not-a-date") {
		t.Errorf("message %q should name the field and value", err.Error())
	}
}

func TestFilterClauses(t *testing.T) {
	empty := MessageFilter{}
	where, args, err := empty.clauses()
	if err != nil {
		t.Fatal(err)
	}
	if len(where) != 0 || len(args) != 0 {
		t.Errorf("empty filter produced %d clauses, %d args", len(where), len(args))
	}

	full := MessageFilter{
		After:   "2024-05-01",
		Before:  "2024-06-01",
		Sender:  "5511999999999",
		ChatJID: "5511999999999@s.whatsapp.net",
		Query:   "hello",
	}
	where, args, err = full.clauses()
	if err != nil {
		t.Fatal(err)
	}
	if len(where) != 5 || len(args) != 5 {
		t.Fatalf("got %d clauses, %d args, want 5 each", len(where), len(args))
	}
	if where[0] != "messages.timestamp > ?" {
		t.Errorf("after clause = %q, want strict >", where[0])
	}
	if where[1] != "messages.timestamp < ?" {
		t.Errorf("before clause = %q, want strict <", where[1])
	}
	if args[4] != "%hello%" {
		t.Errorf("query arg = %v, want unanchored pattern", args[4])
	}
}

func TestFilterClausesBadBound(t *testing.T) {
	_, _, err := MessageFilter{After: "nope"}.clauses()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{1, 1},
		{100, 100},
		{101, MaxLimit},
		{100000, MaxLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPageOffset(t *testing.T) {
	if got := pageOffset(-1, 20); got != 0 {
		t.Errorf("pageOffset(-1, 20) = %d, want 0", got)
	}
	if got := pageOffset(3, 20); got != 60 {
		t.Errorf("pageOffset(3, 20) = %d, want 60", got)
	}
}

func TestTimeBoundsAreExclusive(t *testing.T) {
	db := testDB(t)
	chat := "100@s.whatsapp.net"
	seedChat(t, db, chat, "Alice", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seedMessage(t, db, "m1", chat, chat, "first", t1, false)
	seedMessage(t, db, "m2", chat, chat, "second", t2, false)
	seedMessage(t, db, "m3", chat, chat, "third", t3, false)

	// A message exactly at the bound must not appear on either side.
	after, err := db.ListMessages(MessageFilter{After: "2024-05-01 11:00:00"}, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 || after[0].ID != "m3" {
		t.Errorf("after bound: got %v, want only m3", messageIDs(after))
	}

	before, err := db.ListMessages(MessageFilter{Before: "2024-05-01 11:00:00"}, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != 1 || before[0].ID != "m1" {
		t.Errorf("before bound: got %v, want only m1", messageIDs(before))
	}
}

func messageIDs(msgs []Message) []string {
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	return ids
}

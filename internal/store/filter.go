package store

import "time"

// MessageFilter is an arbitrary combination of optional message criteria.
// Zero-valued fields are omitted from the predicate; present criteria are
// ANDed together.
type MessageFilter struct {
	After   string // exclusive lower time bound, ISO-8601
	Before  string // exclusive upper time bound, ISO-8601
	Sender  string // exact sender JID / phone number
	ChatJID string // exact chat
	Query   string // case-insensitive content substring
}

// Accepted layouts for time bounds. Layouts without a zone are read as UTC.
var boundLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseBound(field, value string) (time.Time, error) {
	for _, layout := range boundLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &ValidationError{Field: field, Value: value}
}

// clauses translates the filter into WHERE fragments plus a positional
// parameter list. Values are always bound, never interpolated.
//
// Both time bounds are strict: a message exactly at a bound timestamp is
// excluded by that bound. Shifting-window pagination depends on this.
func (f MessageFilter) clauses() ([]string, []any, error) {
	var where []string
	var args []any

	if f.After != "" {
		t, err := parseBound("after", f.After)
		if err != nil {
			return nil, nil, err
		}
		where = append(where, "messages.timestamp > ?")
		args = append(args, t)
	}
	if f.Before != "" {
		t, err := parseBound("before", f.Before)
		if err != nil {
			return nil, nil, err
		}
		where = append(where, "messages.timestamp < ?")
		args = append(args, t)
	}
	if f.Sender != "" {
		where = append(where, "messages.sender = ?")
		args = append(args, f.Sender)
	}
	if f.ChatJID != "" {
		where = append(where, "messages.chat_jid = ?")
		args = append(args, f.ChatJID)
	}
	if f.Query != "" {
		where = append(where, "LOWER(messages.content) LIKE LOWER(?)")
		args = append(args, "%"+f.Query+"%")
	}
	return where, args, nil
}

const (
	// DefaultLimit is the page size applied when the caller gives none.
	DefaultLimit = 20
	// MaxLimit bounds resource use per call regardless of what was asked for.
	MaxLimit = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// pageOffset computes the row offset for a zero-based page index.
func pageOffset(page, limit int) int {
	if page <= 0 {
		return 0
	}
	return page * limit
}

package store

import "fmt"

// MessageContext returns the chronologically ordered window of messages
// surrounding the target within its chat: up to before older messages and up
// to after newer ones. Window sizes are best-effort; running out of history
// in either direction is not an error.
//
// The bounds are strict (timestamp < / > target), so the target itself never
// reappears inside its own window.
func (db *DB) MessageContext(id string, before, after int) (*MessageContext, error) {
	target, err := db.GetMessage(id)
	if err != nil {
		return nil, err
	}
	if before < 0 {
		before = 0
	}
	if after < 0 {
		after = 0
	}

	// Fetch the preceding window newest-first so LIMIT picks the messages
	// closest to the target, then reverse into chronological order.
	rows, err := db.Query(messageSelect+`
		WHERE messages.chat_jid = ? AND messages.timestamp < ?
		ORDER BY messages.timestamp DESC
		LIMIT ?`, target.ChatJID, target.Timestamp, before)
	if err != nil {
		return nil, fmt.Errorf("context before: %w", err)
	}
	beforeMsgs, err := collectMessages(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(beforeMsgs)-1; i < j; i, j = i+1, j-1 {
		beforeMsgs[i], beforeMsgs[j] = beforeMsgs[j], beforeMsgs[i]
	}

	rows, err = db.Query(messageSelect+`
		WHERE messages.chat_jid = ? AND messages.timestamp > ?
		ORDER BY messages.timestamp ASC
		LIMIT ?`, target.ChatJID, target.Timestamp, after)
	if err != nil {
		return nil, fmt.Errorf("context after: %w", err)
	}
	afterMsgs, err := collectMessages(rows)
	if err != nil {
		return nil, err
	}

	return &MessageContext{
		Message: *target,
		Before:  beforeMsgs,
		After:   afterMsgs,
	}, nil
}

// ExpandContext flattens each message into its own (before..., message,
// after...) window and concatenates the windows in the input order. Windows
// of nearby matches can overlap; overlapping messages are emitted once per
// window, not deduplicated.
func (db *DB) ExpandContext(msgs []Message, before, after int) ([]Message, error) {
	var out []Message
	for _, m := range msgs {
		window, err := db.MessageContext(m.ID, before, after)
		if err != nil {
			return nil, err
		}
		out = append(out, window.Before...)
		out = append(out, window.Message)
		out = append(out, window.After...)
	}
	return out, nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// messageSelect is the shared projection for message queries. The LEFT JOIN
// denormalizes the owning chat's display name into each row.
const messageSelect = `
	SELECT messages.timestamp, messages.sender, chats.name,
	       messages.content, messages.is_from_me, messages.chat_jid,
	       messages.id, messages.media_type
	FROM messages
	LEFT JOIN chats ON messages.chat_jid = chats.jid`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanMessage maps one raw row into a Message, applying the null-coalescing
// rules uniformly. A row that fails to scan fails the whole query; skipping
// rows would mask store corruption.
func scanMessage(row rowScanner) (*Message, error) {
	var (
		m         Message
		chatName  sql.NullString
		content   sql.NullString
		mediaType sql.NullString
	)
	if err := row.Scan(&m.Timestamp, &m.Sender, &chatName, &content,
		&m.IsFromMe, &m.ChatJID, &m.ID, &mediaType); err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	m.Content = content.String
	if chatName.Valid && chatName.String != "" {
		m.ChatName = &chatName.String
	}
	if mediaType.Valid && mediaType.String != "" {
		m.MediaType = &mediaType.String
	}
	return &m, nil
}

func collectMessages(rows *sql.Rows) ([]Message, error) {
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}

// ListMessages returns messages matching the filter, newest first, paginated
// with a zero-based page index. Ties on identical timestamps have no
// guaranteed order.
func (db *DB) ListMessages(f MessageFilter, limit, page int) ([]Message, error) {
	where, args, err := f.clauses()
	if err != nil {
		return nil, err
	}

	q := messageSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	limit = clampLimit(limit)
	q += " ORDER BY messages.timestamp DESC LIMIT ? OFFSET ?"
	args = append(args, limit, pageOffset(page, limit))

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return collectMessages(rows)
}

// GetMessage resolves a single message by id. The store keys messages by
// (chat_jid, id); lookup by bare id takes the first match, same as the
// context-target resolution callers rely on.
func (db *DB) GetMessage(id string) (*Message, error) {
	row := db.QueryRow(messageSelect+" WHERE messages.id = ?", id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "message", Key: id}
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const (
	chatSelect = `
		SELECT chats.jid, chats.name, chats.last_message_time,
		       chats.last_message, chats.last_sender, chats.last_is_from_me
		FROM chats`
	// Same shape with the last-message summary blanked out, so callers that
	// skip it still get uniform rows.
	chatSelectNoLast = `
		SELECT chats.jid, chats.name, chats.last_message_time,
		       NULL, NULL, NULL
		FROM chats`
)

func scanChat(row rowScanner) (*Chat, error) {
	var (
		c            Chat
		name         sql.NullString
		lastTime     sql.NullTime
		lastMessage  sql.NullString
		lastSender   sql.NullString
		lastIsFromMe sql.NullBool
	)
	if err := row.Scan(&c.JID, &name, &lastTime, &lastMessage, &lastSender, &lastIsFromMe); err != nil {
		return nil, fmt.Errorf("scan chat: %w", err)
	}
	if name.Valid && name.String != "" {
		c.Name = &name.String
	}
	if lastTime.Valid {
		c.LastMessageTime = &lastTime.Time
	}
	if lastMessage.Valid {
		c.LastMessage = &lastMessage.String
	}
	if lastSender.Valid {
		c.LastSender = &lastSender.String
	}
	if lastIsFromMe.Valid {
		c.LastIsFromMe = &lastIsFromMe.Bool
	}
	return &c, nil
}

func collectChats(rows *sql.Rows) ([]Chat, error) {
	defer func() { _ = rows.Close() }()

	var chats []Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *c)
	}
	return chats, rows.Err()
}

// ListChats returns chats optionally filtered by a case-insensitive name
// substring. sortBy recognizes "last_active" (most recent first) and "name"
// (ascending); any other value applies no explicit ordering, which is the
// long-observed behavior callers get today rather than a silent default.
func (db *DB) ListChats(nameQuery string, limit, page int, includeLastMessage bool, sortBy string) ([]Chat, error) {
	q := chatSelect
	if !includeLastMessage {
		q = chatSelectNoLast
	}

	var where []string
	var args []any
	if nameQuery != "" {
		where = append(where, "LOWER(chats.name) LIKE LOWER(?)")
		args = append(args, "%"+nameQuery+"%")
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	switch sortBy {
	case "last_active":
		q += " ORDER BY chats.last_message_time DESC"
	case "name":
		q += " ORDER BY chats.name ASC"
	}

	limit = clampLimit(limit)
	q += " LIMIT ? OFFSET ?"
	args = append(args, limit, pageOffset(page, limit))

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return collectChats(rows)
}

// GetChat returns chat metadata by JID.
func (db *DB) GetChat(jid string, includeLastMessage bool) (*Chat, error) {
	q := chatSelect
	if !includeLastMessage {
		q = chatSelectNoLast
	}
	c, err := scanChat(db.QueryRow(q+" WHERE chats.jid = ?", jid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "chat", Key: jid}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetContactChats returns the distinct chats the given JID participates in,
// either as a message sender (group membership) or as the chat's own
// identifier (the direct conversation), most recent first.
func (db *DB) GetContactChats(jid string, limit, page int) ([]Chat, error) {
	limit = clampLimit(limit)
	rows, err := db.Query(`
		SELECT DISTINCT chats.jid, chats.name, chats.last_message_time,
		                chats.last_message, chats.last_sender, chats.last_is_from_me
		FROM chats
		JOIN messages ON chats.jid = messages.chat_jid
		WHERE messages.sender = ? OR chats.jid = ?
		ORDER BY chats.last_message_time DESC
		LIMIT ? OFFSET ?`, jid, jid, limit, pageOffset(page, limit))
	if err != nil {
		return nil, fmt.Errorf("contact chats: %w", err)
	}
	return collectChats(rows)
}

// GetDirectChatByContact resolves a phone number to its one-to-one chat by
// pivoting on any message that number has sent into a non-group chat. A
// direct chat with no messages from that sender is invisible to this lookup.
func (db *DB) GetDirectChatByContact(phoneNumber string) (*Chat, error) {
	var jid string
	err := db.QueryRow(`
		SELECT DISTINCT chat_jid
		FROM messages
		WHERE sender = ? AND chat_jid LIKE '%`+UserSuffix+`'
		LIMIT 1`, phoneNumber).Scan(&jid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "direct chat for", Key: phoneNumber}
	}
	if err != nil {
		return nil, fmt.Errorf("direct chat lookup: %w", err)
	}
	return db.GetChat(jid, true)
}

// LastInteraction returns the most recent message involving the given JID,
// as sender or as the chat itself.
func (db *DB) LastInteraction(jid string) (*Message, error) {
	row := db.QueryRow(messageSelect+`
		WHERE messages.sender = ? OR messages.chat_jid = ?
		ORDER BY messages.timestamp DESC
		LIMIT 1`, jid, jid)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: "interaction with", Key: jid}
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

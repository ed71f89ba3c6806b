package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// maxContactResults hard-caps contact searches regardless of what was asked.
const maxContactResults = 50

// SearchContacts matches contacts whose name or phone number contains the
// query as a literal substring (the two predicates are ORed). Phone numbers
// are matched against the raw query string, not a normalized form.
func (db *DB) SearchContacts(query string) ([]Contact, error) {
	rows, err := db.Query(`
		SELECT phone_number, name, jid
		FROM contacts
		WHERE LOWER(name) LIKE LOWER(?) OR phone_number LIKE ?
		ORDER BY name ASC
		LIMIT ?`, "%"+query+"%", "%"+query+"%", maxContactResults)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var contacts []Contact
	for rows.Next() {
		var (
			c     Contact
			phone sql.NullString
			name  sql.NullString
		)
		if err := rows.Scan(&phone, &name, &c.JID); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.PhoneNumber = phone.String
		if name.Valid && name.String != "" {
			c.Name = &name.String
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// SenderName resolves a sender JID to a display name via the contacts table,
// matching on either identifier field. The returned name is always usable:
// when no contact matches, or the lookup itself fails, it falls back to the
// raw JID. The error reports a degraded lookup without invalidating the name.
func (db *DB) SenderName(jid string) (string, error) {
	var name sql.NullString
	err := db.QueryRow(`
		SELECT name FROM contacts
		WHERE jid = ? OR phone_number = ?`, jid, jid).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return jid, nil
	}
	if err != nil {
		return jid, fmt.Errorf("sender name lookup: %w", err)
	}
	if name.Valid && name.String != "" {
		return name.String, nil
	}
	return jid, nil
}

package store

import (
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Seed helpers write directly with SQL: this package has no write API by
// design (the bridge owns the write path).

func seedChat(t *testing.T, db *DB, jid, name string, lastTime time.Time) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO chats (jid, name, last_message_time, last_message, last_sender, last_is_from_me)
		VALUES (?, ?, ?, ?, ?, ?)`,
		jid, name, lastTime.UTC(), "last in "+jid, jid, false)
	if err != nil {
		t.Fatalf("seed chat %s: %v", jid, err)
	}
}

func seedMessage(t *testing.T, db *DB, id, chatJID, sender, content string, ts time.Time, fromMe bool) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO messages (id, chat_jid, sender, content, timestamp, is_from_me, media_type)
		VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		id, chatJID, sender, content, ts.UTC(), fromMe)
	if err != nil {
		t.Fatalf("seed message %s: %v", id, err)
	}
}

func seedMediaMessage(t *testing.T, db *DB, id, chatJID, sender, content, mediaType string, ts time.Time) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO messages (id, chat_jid, sender, content, timestamp, is_from_me, media_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, chatJID, sender, content, ts.UTC(), false, mediaType)
	if err != nil {
		t.Fatalf("seed media message %s: %v", id, err)
	}
}

func seedContact(t *testing.T, db *DB, jid, phone, name string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO contacts (jid, phone_number, name) VALUES (?, ?, ?)`,
		jid, phone, name)
	if err != nil {
		t.Fatalf("seed contact %s: %v", jid, err)
	}
}

func TestMigrateAppliesOnFreshDB(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate; a second run must be a no-op.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 2 {
		t.Errorf("version = %d, want 2 (init + indexes)", result.Version)
	}
}

func TestMigrateSchemaHasRequiredColumns(t *testing.T) {
	db := testDB(t)

	requiredOps := []struct {
		desc  string
		query string
		args  []any
	}{
		{"insert chat", "INSERT INTO chats (jid, name, last_message_time, last_message, last_sender, last_is_from_me) VALUES (?, ?, ?, ?, ?, ?)", []any{"c@s.whatsapp.net", "Test", time.Now().UTC(), "hi", "c@s.whatsapp.net", false}},
		{"insert message", "INSERT INTO messages (id, chat_jid, sender, content, timestamp, is_from_me, media_type) VALUES (?, ?, ?, ?, ?, ?, ?)", []any{"m1", "c@s.whatsapp.net", "c@s.whatsapp.net", "hello", time.Now().UTC(), false, "image"}},
		{"insert contact", "INSERT INTO contacts (jid, phone_number, name) VALUES (?, ?, ?)", []any{"j@s.whatsapp.net", "5511999999999", "Name"}},
	}

	for _, op := range requiredOps {
		t.Run(op.desc, func(t *testing.T) {
			if _, err := db.Exec(op.query, op.args...); err != nil {
				t.Fatalf("%s failed: %v", op.desc, err)
			}
		})
	}
}

func TestOpenMissingDirectoryFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no", "such", "dir", "messages.db"))
	if err == nil {
		t.Error("Open() expected error for unreachable store path")
	}
}

package cache

import (
	"fmt"
	"time"

	"github.com/wanderstay/wander-chat/internal/chat"
)

// ReplaceMessages swaps the cached thread for one conversation. The store
// replaces threads wholesale on every refresh, so the cache mirrors that
// instead of merging.
func (db *DB) ReplaceMessages(conversationID string, msgs []chat.Message) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("clear thread: %w", err)
	}
	for _, m := range msgs {
		var updatedAt int64
		if !m.UpdatedAt.IsZero() {
			updatedAt = m.UpdatedAt.UnixMilli()
		}
		if _, err := tx.Exec(`
			INSERT INTO messages (conversation_id, msg_id, role, body, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			conversationID, m.ID, string(m.Role), m.Body, m.CreatedAt.UnixMilli(), updatedAt); err != nil {
			return fmt.Errorf("insert message %q: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// ListMessages returns the cached thread in chronological order.
func (db *DB) ListMessages(conversationID string) ([]chat.Message, error) {
	rows, err := db.Query(`
		SELECT msg_id, role, body, created_at, updated_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, msg_id ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		var role string
		var createdAt, updatedAt int64
		if err := rows.Scan(&m.ID, &role, &m.Body, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		m.Role = chat.Role(role)
		m.CreatedAt = time.UnixMilli(createdAt)
		if updatedAt != 0 {
			m.UpdatedAt = time.UnixMilli(updatedAt)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

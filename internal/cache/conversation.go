package cache

import (
	"fmt"
	"time"

	"github.com/wanderstay/wander-chat/internal/chat"
)

// UpsertConversations writes a snapshot of projected conversations in one
// transaction. Unread counts are deliberately not persisted; they are
// session-local state.
func (db *DB) UpsertConversations(convs []chat.Conversation) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UnixMilli()
	for _, c := range convs {
		var lastID, lastRole, lastBody string
		var lastAt int64
		if c.LastMessage != nil {
			lastID = c.LastMessage.ID
			lastRole = string(c.LastMessage.Role)
			lastBody = c.LastMessage.Body
			lastAt = c.LastMessage.CreatedAt.UnixMilli()
		}
		if _, err := tx.Exec(`
			INSERT INTO conversations (id, other_user_id, other_user_first_name, other_user_last_name, other_user_avatar,
				last_message_id, last_message_role, last_message_body, last_message_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				other_user_id = excluded.other_user_id,
				other_user_first_name = excluded.other_user_first_name,
				other_user_last_name = excluded.other_user_last_name,
				other_user_avatar = excluded.other_user_avatar,
				last_message_id = excluded.last_message_id,
				last_message_role = excluded.last_message_role,
				last_message_body = excluded.last_message_body,
				last_message_at = excluded.last_message_at,
				updated_at = excluded.updated_at`,
			c.ID, c.OtherUser.ID, c.OtherUser.FirstName, c.OtherUser.LastName, c.OtherUser.Avatar,
			lastID, lastRole, lastBody, lastAt, c.CreatedAt.UnixMilli(), now); err != nil {
			return fmt.Errorf("upsert conversation %q: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// ListConversations returns cached conversations, most recent activity
// first.
func (db *DB) ListConversations() ([]chat.Conversation, error) {
	rows, err := db.Query(`
		SELECT id, other_user_id, other_user_first_name, other_user_last_name, other_user_avatar,
			last_message_id, last_message_role, last_message_body, last_message_at, created_at
		FROM conversations
		ORDER BY last_message_at DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var convs []chat.Conversation
	for rows.Next() {
		var c chat.Conversation
		var lastID, lastRole, lastBody string
		var lastAt, createdAt int64
		if err := rows.Scan(&c.ID, &c.OtherUser.ID, &c.OtherUser.FirstName, &c.OtherUser.LastName, &c.OtherUser.Avatar,
			&lastID, &lastRole, &lastBody, &lastAt, &createdAt); err != nil {
			return nil, err
		}
		c.ContactID = c.ID
		c.CreatedAt = time.UnixMilli(createdAt)
		if lastID != "" {
			c.LastMessage = &chat.Message{
				ID:        lastID,
				Role:      chat.Role(lastRole),
				Body:      lastBody,
				CreatedAt: time.UnixMilli(lastAt),
			}
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// ConversationCount returns the number of cached conversations.
func (db *DB) ConversationCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count)
	return count, err
}

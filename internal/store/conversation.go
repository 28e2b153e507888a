package store

import (
	"fmt"
	"time"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

// ReplaceConversations replaces the cached conversation list wholesale,
// preserving the server-given order via the position column.
func (db *DB) ReplaceConversations(convos []api.Conversation) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM conversations`); err != nil {
		return fmt.Errorf("clear conversations: %w", err)
	}

	now := time.Now().UnixMilli()
	for i, c := range convos {
		if _, err := tx.Exec(`
			INSERT INTO conversations (partner_id, partner_nickname, partner_avatar_url,
				last_content, last_created_at, last_is_mine, unread_count, position, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Partner.ID, c.Partner.Nickname, c.Partner.AvatarURL,
			c.LastMessage.Content, c.LastMessage.CreatedAt, c.LastMessage.IsMine,
			c.UnreadCount, i, now); err != nil {
			return fmt.Errorf("insert conversation %q: %w", c.Partner.ID, err)
		}
	}
	return tx.Commit()
}

// Conversations returns the cached conversation list in server order.
func (db *DB) Conversations() ([]api.Conversation, error) {
	rows, err := db.Query(`
		SELECT partner_id, partner_nickname, partner_avatar_url,
			last_content, last_created_at, last_is_mine, unread_count
		FROM conversations
		ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var convos []api.Conversation
	for rows.Next() {
		var c api.Conversation
		if err := rows.Scan(&c.Partner.ID, &c.Partner.Nickname, &c.Partner.AvatarURL,
			&c.LastMessage.Content, &c.LastMessage.CreatedAt, &c.LastMessage.IsMine,
			&c.UnreadCount); err != nil {
			return nil, err
		}
		convos = append(convos, c)
	}
	return convos, rows.Err()
}

// ConversationCount returns the number of cached conversations.
func (db *DB) ConversationCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count)
	return count, err
}

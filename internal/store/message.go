package store

import (
	"fmt"

	"github.com/SarahGBoland/FriendSnap/internal/api"
)

// ReplaceThread replaces the cached thread snapshot for one partner
// wholesale, mirroring the sync loop's replace-on-poll discipline.
func (db *DB) ReplaceThread(partnerID string, msgs []api.Message) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM messages WHERE partner_id = ?`, partnerID); err != nil {
		return fmt.Errorf("clear thread %q: %w", partnerID, err)
	}

	for i, m := range msgs {
		if _, err := tx.Exec(`
			INSERT INTO messages (partner_id, msg_id, sender_id, receiver_id, content, message_type, created_at, is_read, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			partnerID, m.ID, m.SenderID, m.ReceiverID, m.Content, m.MessageType, m.CreatedAt, m.IsRead, i); err != nil {
			return fmt.Errorf("insert message %q: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// Thread returns the cached thread snapshot for one partner in the order
// the server returned it.
func (db *DB) Thread(partnerID string) ([]api.Message, error) {
	rows, err := db.Query(`
		SELECT msg_id, sender_id, receiver_id, content, message_type, created_at, is_read
		FROM messages
		WHERE partner_id = ?
		ORDER BY position`, partnerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []api.Message
	for rows.Next() {
		var m api.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.MessageType, &m.CreatedAt, &m.IsRead); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MessageCount returns the total number of cached messages.
func (db *DB) MessageCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

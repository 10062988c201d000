package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/chat"
)

// SaveChat stores a chat document keyed by its id. The upsert replaces
// the whole document in one statement, so readers never observe a
// partial write; concurrent saves to the same id resolve last-writer-wins.
func (s *Store) SaveChat(ctx context.Context, c chat.Chat) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal chat %s: %w", c.ID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO chats (id, document, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document`,
		c.ID, doc, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert chat %s: %w", c.ID, err)
	}
	return nil
}

// GetChat loads the full chat document for an id. A corrupt document
// surfaces as ErrNotFound on direct access.
func (s *Store) GetChat(ctx context.Context, id string) (chat.Chat, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM chats WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Chat{}, ErrNotFound
	}
	if err != nil {
		return chat.Chat{}, fmt.Errorf("select chat %s: %w", id, err)
	}

	var c chat.Chat
	if err := json.Unmarshal(doc, &c); err != nil {
		slog.Warn("corrupt chat document", "chat_id", id, "error", err)
		return chat.Chat{}, ErrNotFound
	}
	return c, nil
}

// ListChats returns summaries for every stored chat in creation order.
// Chats whose document no longer decodes are skipped rather than
// failing the whole listing.
func (s *Store) ListChats(ctx context.Context) ([]chat.Summary, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, document FROM chats ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("select chats: %w", err)
	}
	defer rows.Close()

	summaries := []chat.Summary{}
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}
		var c chat.Chat
		if err := json.Unmarshal(doc, &c); err != nil {
			slog.Warn("skipping corrupt chat document", "chat_id", id, "error", err)
			continue
		}
		summaries = append(summaries, c.Summary())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return summaries, nil
}

// DeleteChat removes the chat document for an id. A second delete of
// the same id reports ErrNotFound, which callers treat as already gone.
func (s *Store) DeleteChat(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete chat %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

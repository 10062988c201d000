// Package events emits chat lifecycle events over NATS so downstream
// consumers (indexers, analytics) can react to uploads and deletions.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// NATS subjects for chat lifecycle events.
const (
	SubjectChatIngested = "chat.transcript.ingested"
	SubjectChatDeleted  = "chat.transcript.deleted"
)

// ChatIngested is published after a transcript upload is parsed and
// stored.
type ChatIngested struct {
	EventID          string    `json:"event_id"`
	ChatID           string    `json:"chat_id"`
	MessageCount     int       `json:"message_count"`
	ParticipantCount int       `json:"participant_count"`
	Timestamp        time.Time `json:"timestamp"`
}

// ChatDeleted is published after a chat document and its assets are
// removed.
type ChatDeleted struct {
	EventID   string    `json:"event_id"`
	ChatID    string    `json:"chat_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher wraps a NATS connection for publishing chat events.
type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewPublisher(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

func (p *Publisher) Close() {
	p.conn.Close()
}

// PublishChatIngested announces a freshly stored chat.
func (p *Publisher) PublishChatIngested(chatID string, messageCount, participantCount int) error {
	return p.publish(SubjectChatIngested, ChatIngested{
		EventID:          uuid.NewString(),
		ChatID:           chatID,
		MessageCount:     messageCount,
		ParticipantCount: participantCount,
		Timestamp:        time.Now().UTC(),
	})
}

// PublishChatDeleted announces a removed chat.
func (p *Publisher) PublishChatDeleted(chatID string) error {
	return p.publish(SubjectChatDeleted, ChatDeleted{
		EventID:   uuid.NewString(),
		ChatID:    chatID,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Publisher) publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return p.conn.Publish(subject, payload)
}

// Package chat holds the persisted chat aggregate and the in-memory
// query engine over its message sequence.
package chat

import (
	"strings"
	"time"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/transcript"
)

// Chat is the aggregate persisted per uploaded transcript. Messages are
// append-only during assembly and read-only afterwards; updates are
// whole-document replaces.
type Chat struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Messages     []transcript.Message `json:"messages"`
	Participants []string             `json:"participants"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// Summary is the listing projection of a chat. LastMessage is the final
// element of the stored sequence, not the latest by timestamp.
type Summary struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ParticipantCount int                 `json:"participantCount"`
	MessageCount     int                 `json:"messageCount"`
	LastMessage      *transcript.Message `json:"lastMessage,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// New builds a chat document from assembled messages. The display name
// is derived from the id, and participants are the distinct senders in
// first-seen order.
func New(id string, msgs []transcript.Message) Chat {
	return Chat{
		ID:           id,
		Name:         strings.ReplaceAll(id, "_", " "),
		Messages:     msgs,
		Participants: participants(msgs),
		CreatedAt:    time.Now().UTC(),
	}
}

// Summary projects the chat for listings.
func (c Chat) Summary() Summary {
	s := Summary{
		ID:               c.ID,
		Name:             c.Name,
		ParticipantCount: len(c.Participants),
		MessageCount:     len(c.Messages),
		CreatedAt:        c.CreatedAt,
	}
	if n := len(c.Messages); n > 0 {
		last := c.Messages[n-1]
		s.LastMessage = &last
	}
	return s
}

func participants(msgs []transcript.Message) []string {
	seen := make(map[string]bool, 8)
	out := make([]string, 0, 8)
	for _, m := range msgs {
		if !seen[m.Sender] {
			seen[m.Sender] = true
			out = append(out, m.Sender)
		}
	}
	return out
}

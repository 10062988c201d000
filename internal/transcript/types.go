package transcript

import "time"

// Kind classifies a parsed message.
type Kind string

const (
	KindText    Kind = "text"
	KindMedia   Kind = "media"
	KindDeleted Kind = "deleted"
	KindSystem  Kind = "system"
)

// SystemSender is assigned to messages whose header carries no sender,
// e.g. join/leave notices.
const SystemSender = "System"

// Message is a single parsed transcript message. JSON field names match
// the stored chat document format.
type Message struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Kind      Kind      `json:"type"`
	Media     string    `json:"media,omitempty"`
	MediaPath string    `json:"mediaPath,omitempty"`
	MediaType string    `json:"mediaType,omitempty"`
}

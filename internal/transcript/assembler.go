package transcript

import (
	"bufio"
	"bytes"
	"regexp"
	"time"
)

// filenameRe matches lines that end in a dot-extension, which media
// continuation lines use to carry the attachment's filename.
var filenameRe = regexp.MustCompile(`\.[a-zA-Z0-9]+$`)

// Parser assembles raw transcript bytes into ordered messages.
type Parser struct {
	now func() time.Time
}

func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// Parse walks the transcript line by line, opening a new message on
// every boundary line and folding everything else into the current one.
// Parsing is total: malformed lines degrade to continuation text or a
// best-effort message with a fallback timestamp, never an error. The
// returned ids are dense starting at 1 even when notices are
// suppressed, because ids are assigned as messages are flushed.
func (p *Parser) Parse(raw []byte) []Message {
	var messages []Message
	var current *Message

	flush := func() {
		if current != nil {
			current.ID = len(messages) + 1
			messages = append(messages, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := NormalizeLine(scanner.Text())
		if line == "" {
			continue
		}

		b, ok := matchBoundary(line)
		if !ok {
			if current != nil {
				appendContinuation(current, line)
			}
			continue
		}

		flush()
		current = p.startMessage(b)
	}
	flush()

	return messages
}

// startMessage builds a draft from captured header fields and runs it
// through the classification rules. Returns nil when a rule suppresses
// the message.
func (p *Parser) startMessage(b boundary) *Message {
	hasSender := b.sender != ""
	m := &Message{
		Timestamp: p.timestamp(b.date, b.clock),
		Sender:    SystemSender,
		Content:   b.body,
		Kind:      KindSystem,
	}
	if hasSender {
		m.Sender = b.sender
		m.Kind = KindText
	}

	for _, rule := range classifyRules {
		if !rule(m, hasSender) {
			return nil
		}
	}
	return m
}

// timestamp applies the documented fallback: a header whose date or
// clock does not parse keeps its message, stamped with the current
// time. This breaks chronological ordering for malformed inputs and is
// an accepted data-quality tradeoff, not something to tighten.
func (p *Parser) timestamp(date, clock string) time.Time {
	ts, err := ParseTimestamp(date, clock)
	if err != nil {
		return p.now().UTC()
	}
	return ts
}

// appendContinuation folds a non-boundary line into the open message.
// A media message still missing its filename claims a bare-filename
// line; everything else is appended to the body on a new line.
func appendContinuation(m *Message, line string) {
	if m.Kind == KindMedia && m.Media == "" && filenameRe.MatchString(line) {
		m.Media = line
		return
	}
	m.Content += "\n" + line
}

// Package markup renders WhatsApp inline emphasis markers as HTML tags.
package markup

import (
	"regexp"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/transcript"
)

// Each span must not itself contain its own marker, which keeps the
// matching non-greedy and non-nested.
var (
	strongRe = regexp.MustCompile(`\*([^*]+)\*`)
	emRe     = regexp.MustCompile(`_([^_]+)_`)
	delRe    = regexp.MustCompile(`~([^~]+)~`)
	codeRe   = regexp.MustCompile("`([^`]+)`")
)

// Format wraps *bold*, _italic_, ~strike~ and `code` spans in the
// corresponding HTML tags. Text free of the four markers passes through
// unchanged, which makes the transform idempotent on already-formatted
// content.
func Format(s string) string {
	s = strongRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = emRe.ReplaceAllString(s, "<em>$1</em>")
	s = delRe.ReplaceAllString(s, "<del>$1</del>")
	s = codeRe.ReplaceAllString(s, "<code>$1</code>")
	return s
}

// FormatMessages formats the body of every text message. Media, deleted
// and system bodies carry exporter phrases, not user markup, and are
// left alone.
func FormatMessages(msgs []transcript.Message) []transcript.Message {
	for i := range msgs {
		if msgs[i].Kind == transcript.KindText {
			msgs[i].Content = Format(msgs[i].Content)
		}
	}
	return msgs
}

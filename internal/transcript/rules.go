package transcript

import (
	"regexp"
	"strings"
)

// Phrases the exporter emits for non-text messages.
const (
	mediaOmitted     = "<media omitted>"
	fileAttached     = "(file attached)"
	deletedByOther   = "This message was deleted"
	deletedBySelf    = "You deleted this message"
	deletedCanonical = "This message was deleted"
	encryptionNotice = "Messages and calls are end-to-end encrypted"
)

var attachedRe = regexp.MustCompile(`(?i)^<attached:\s*(.+?)>$`)

// classifyRule refines a freshly started message draft. Returning false
// discards the draft entirely.
type classifyRule func(m *Message, hasSender bool) bool

// classifyRules run in order on every boundary line; later rules
// override earlier ones.
var classifyRules = []classifyRule{detectMedia, detectDeleted, suppressNotice}

// detectMedia reclassifies attachment placeholders. The "<attached:"
// and "(file attached)" forms carry the filename inline; the
// "<Media omitted>" form leaves it to be recovered from a continuation
// line or by the correlator.
func detectMedia(m *Message, _ bool) bool {
	body := m.Content
	switch {
	case strings.EqualFold(body, mediaOmitted):
		m.Kind = KindMedia
	case strings.HasPrefix(strings.ToLower(body), "<attached:"):
		m.Kind = KindMedia
		if g := attachedRe.FindStringSubmatch(body); g != nil {
			m.Media = strings.TrimSpace(g[1])
		}
	case strings.HasSuffix(body, fileAttached):
		m.Kind = KindMedia
		m.Media = strings.TrimSpace(strings.TrimSuffix(body, fileAttached))
	}
	return true
}

// detectDeleted normalizes both parties' deletion wording to one
// canonical phrase. Runs after media detection and overrides it.
func detectDeleted(m *Message, _ bool) bool {
	if strings.Contains(m.Content, deletedByOther) || strings.Contains(m.Content, deletedBySelf) {
		m.Kind = KindDeleted
		m.Content = deletedCanonical
	}
	return true
}

// suppressNotice drops the end-to-end-encryption banner, which carries
// no conversational value.
func suppressNotice(m *Message, hasSender bool) bool {
	return hasSender || !strings.Contains(m.Content, encryptionNotice)
}

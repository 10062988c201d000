package media

import (
	"path/filepath"
	"strings"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/transcript"
)

// Asset is an uploaded file sitting next to the transcript, in upload
// order.
type Asset struct {
	OriginalName string `json:"originalName"`
	StoredName   string `json:"storedName"`
	SizeBytes    int64  `json:"sizeBytes"`
}

// Correlate links media messages to uploaded assets. Messages that
// resolved a filename during parsing are matched by name; the rest
// consume assets positionally, one per message in upload order. This is
// a best-effort heuristic: a message with no match keeps whatever
// filename string it resolved and stays without a path or type.
func Correlate(msgs []transcript.Message, assets []Asset, chatID string) []transcript.Message {
	next := 0
	for i := range msgs {
		m := &msgs[i]
		if m.Kind != transcript.KindMedia {
			continue
		}
		if m.Media != "" {
			if a, ok := findByName(assets, m.Media); ok {
				attach(m, a, chatID)
			}
			continue
		}
		if next < len(assets) {
			attach(m, assets[next], chatID)
			next++
		}
	}
	return msgs
}

// findByName tries, in priority order: exact filename equality, equal
// file stem, then uploaded stem containing the wanted stem. All
// comparisons are case-insensitive; ties go to upload order.
func findByName(assets []Asset, name string) (Asset, bool) {
	want := strings.ToLower(name)
	wantStem := stem(want)

	for _, a := range assets {
		if strings.ToLower(a.OriginalName) == want {
			return a, true
		}
	}
	for _, a := range assets {
		if stem(strings.ToLower(a.OriginalName)) == wantStem {
			return a, true
		}
	}
	for _, a := range assets {
		if strings.Contains(stem(strings.ToLower(a.OriginalName)), wantStem) {
			return a, true
		}
	}
	return Asset{}, false
}

func attach(m *transcript.Message, a Asset, chatID string) {
	m.MediaPath = "/uploads/" + chatID + "/" + a.StoredName
	m.MediaType = TypeForFile(a.StoredName)
	m.Media = a.OriginalName
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

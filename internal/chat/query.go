package chat

import (
	"strings"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/transcript"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// Pagination describes one page of a filtered message sequence.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// Query filters messages by a case-insensitive substring over content
// and sender, then slices out the requested 1-based page in stored
// order. Out-of-range pages clamp to an empty slice rather than
// failing.
func Query(msgs []transcript.Message, page, limit int, search string) ([]transcript.Message, Pagination) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	filtered := msgs
	if search != "" {
		term := strings.ToLower(search)
		filtered = make([]transcript.Message, 0, len(msgs))
		for _, m := range msgs {
			if strings.Contains(strings.ToLower(m.Content), term) ||
				strings.Contains(strings.ToLower(m.Sender), term) {
				filtered = append(filtered, m)
			}
		}
	}

	total := len(filtered)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	p := Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   (total + limit - 1) / limit,
		HasNext: (page-1)*limit+limit < total,
		HasPrev: page > 1,
	}
	return filtered[start:end], p
}

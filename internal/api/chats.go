package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/chat"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/store"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/transcript"
)

// ChatPage is the paginated chat payload returned by GET /api/chat/{id}.
type ChatPage struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Participants []string             `json:"participants"`
	CreatedAt    time.Time            `json:"createdAt"`
	Messages     []transcript.Message `json:"messages"`
	Pagination   chat.Pagination      `json:"pagination"`
}

func (s *Server) listChats(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListChats(r.Context())
	if err != nil {
		s.logger.Error("list chats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch chats")
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) getChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	page := queryInt(r, "page", chat.DefaultPage)
	limit := queryInt(r, "limit", chat.DefaultLimit)
	search := r.URL.Query().Get("search")

	c, err := s.store.GetChat(r.Context(), chatID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		s.logger.Error("get chat failed", "chat_id", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch chat")
		return
	}

	msgs, pagination := chat.Query(c.Messages, page, limit, search)
	writeJSON(w, http.StatusOK, ChatPage{
		ID:           c.ID,
		Name:         c.Name,
		Participants: c.Participants,
		CreatedAt:    c.CreatedAt,
		Messages:     msgs,
		Pagination:   pagination,
	})
}

func (s *Server) deleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	err := s.store.DeleteChat(r.Context(), chatID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if err != nil {
		s.logger.Error("delete chat failed", "chat_id", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}

	if err := s.assets.RemoveChat(chatID); err != nil {
		s.logger.Warn("failed to remove chat assets", "chat_id", chatID, "error", err)
	}
	if s.events != nil {
		if err := s.events.PublishChatDeleted(chatID); err != nil {
			s.logger.Warn("failed to publish chat deleted event", "chat_id", chatID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// queryInt parses a positive integer query parameter, falling back to
// the default on anything missing, malformed, or non-positive.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

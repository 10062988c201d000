package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/assets"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/chat"
)

// ChatStore is the persistence surface the API needs. *store.Store
// satisfies it; tests substitute an in-memory fake.
type ChatStore interface {
	SaveChat(ctx context.Context, c chat.Chat) error
	GetChat(ctx context.Context, id string) (chat.Chat, error)
	ListChats(ctx context.Context) ([]chat.Summary, error)
	DeleteChat(ctx context.Context, id string) error
}

// EventPublisher announces chat lifecycle changes. Nil when NATS is not
// configured; the API works without it.
type EventPublisher interface {
	PublishChatIngested(chatID string, messageCount, participantCount int) error
	PublishChatDeleted(chatID string) error
}

type Server struct {
	router *chi.Mux
	port   int
	store  ChatStore
	assets *assets.Store
	events EventPublisher
	logger *slog.Logger
}

func NewServer(port int, store ChatStore, assetStore *assets.Store, events EventPublisher, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s := &Server{
		router: router,
		port:   port,
		store:  store,
		assets: assetStore,
		events: events,
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Post("/api/upload", s.uploadChat)
	router.Post("/api/upload/{chatID}", s.uploadChat)
	router.Get("/api/chats", s.listChats)
	router.Get("/api/chat/{chatID}", s.getChat)
	router.Delete("/api/chat/{chatID}", s.deleteChat)

	// Media is served straight from the upload directory, matching the
	// /uploads paths the correlator writes into messages.
	fileServer := http.FileServer(http.Dir(assetStore.Root()))
	router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/assets"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/chat"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/store"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/transcript"
)

// memStore is an in-memory ChatStore for handler tests.
type memStore struct {
	mu    sync.Mutex
	chats map[string]chat.Chat
}

func newMemStore() *memStore {
	return &memStore{chats: make(map[string]chat.Chat)}
}

func (m *memStore) SaveChat(_ context.Context, c chat.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[c.ID] = c
	return nil
}

func (m *memStore) GetChat(_ context.Context, id string) (chat.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[id]
	if !ok {
		return chat.Chat{}, store.ErrNotFound
	}
	return c, nil
}

func (m *memStore) ListChats(_ context.Context) ([]chat.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summaries := []chat.Summary{}
	for _, c := range m.chats {
		summaries = append(summaries, c.Summary())
	}
	return summaries, nil
}

func (m *memStore) DeleteChat(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chats[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.chats, id)
	return nil
}

// recordingEvents captures published events.
type recordingEvents struct {
	ingested []string
	deleted  []string
}

func (r *recordingEvents) PublishChatIngested(chatID string, _, _ int) error {
	r.ingested = append(r.ingested, chatID)
	return nil
}

func (r *recordingEvents) PublishChatDeleted(chatID string) error {
	r.deleted = append(r.deleted, chatID)
	return nil
}

func newTestServer(t *testing.T) (*Server, *memStore, *recordingEvents) {
	t.Helper()
	assetStore, err := assets.NewStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("asset store: %v", err)
	}
	db := newMemStore()
	events := &recordingEvents{}
	return NewServer(3001, db, assetStore, events, slog.Default()), db, events
}

type uploadFile struct {
	name string
	data []byte
}

func multipartBody(t *testing.T, files []uploadFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestUploadChat_EndToEnd(t *testing.T) {
	srv, db, events := newTestServer(t)

	transcriptText := "12/5/23, 4:30 PM - Alice: Hello *world*\n" +
		"12/5/23, 4:31 PM - Bob: <Media omitted>\n" +
		"photo.jpg\n"
	body, contentType := multipartBody(t, []uploadFile{
		{name: "chat.txt", data: []byte(transcriptText)},
		{name: "photo.jpg", data: []byte("jpegdata")},
	})

	req := httptest.NewRequest("POST", "/api/upload/trip_2023", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp UploadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.ChatID != "trip_2023" || resp.MessageCount != 2 {
		t.Errorf("response = %+v", resp)
	}

	c, err := db.GetChat(context.Background(), "trip_2023")
	if err != nil {
		t.Fatalf("chat not stored: %v", err)
	}
	if c.Name != "trip 2023" {
		t.Errorf("name = %q, want 'trip 2023'", c.Name)
	}
	if c.Messages[0].Content != "Hello <strong>world</strong>" {
		t.Errorf("formatted content = %q", c.Messages[0].Content)
	}
	m := c.Messages[1]
	if m.Kind != transcript.KindMedia {
		t.Errorf("kind = %q, want media", m.Kind)
	}
	if m.MediaPath != "/uploads/trip_2023/photo.jpg" {
		t.Errorf("mediaPath = %q", m.MediaPath)
	}
	if m.MediaType != "image" {
		t.Errorf("mediaType = %q, want image", m.MediaType)
	}

	if _, err := os.Stat(filepath.Join(srv.assets.Root(), "trip_2023", "photo.jpg")); err != nil {
		t.Errorf("asset not on disk: %v", err)
	}
	if len(events.ingested) != 1 || events.ingested[0] != "trip_2023" {
		t.Errorf("ingested events = %v", events.ingested)
	}
}

func TestUploadChat_GeneratesChatID(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body, contentType := multipartBody(t, []uploadFile{
		{name: "chat.txt", data: []byte("12/5/23, 4:30 PM - Alice: hi\n")},
	})
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp UploadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ChatID == "" {
		t.Error("expected a generated chat id")
	}
}

func TestUploadChat_NoFiles(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest("POST", "/api/upload/c1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUploadChat_NoTranscript(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body, contentType := multipartBody(t, []uploadFile{
		{name: "photo.jpg", data: []byte("jpegdata")},
	})
	req := httptest.NewRequest("POST", "/api/upload/c1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	var body2 map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body2); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body2["error"] != "No .txt chat file found" {
		t.Errorf("error = %q", body2["error"])
	}
}

func TestGetChat_NotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/chat/nope", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGetChat_SearchAndPagination(t *testing.T) {
	srv, db, _ := newTestServer(t)

	msgs := make([]transcript.Message, 0, 150)
	for i := 0; i < 120; i++ {
		msgs = append(msgs, transcript.Message{
			ID: len(msgs) + 1, Sender: "Alice", Kind: transcript.KindText,
			Content: fmt.Sprintf("hello %d", i+1),
		})
	}
	for i := 0; i < 30; i++ {
		msgs = append(msgs, transcript.Message{
			ID: len(msgs) + 1, Sender: "Bob", Kind: transcript.KindText,
			Content: "bye",
		})
	}
	db.SaveChat(context.Background(), chat.New("big_chat", msgs))

	req := httptest.NewRequest("GET", "/api/chat/big_chat?page=2&limit=50&search=hello", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var page ChatPage
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(page.Messages) != 50 {
		t.Fatalf("messages = %d, want 50", len(page.Messages))
	}
	if page.Messages[0].Content != "hello 51" {
		t.Errorf("first = %q, want hello 51", page.Messages[0].Content)
	}
	p := page.Pagination
	if p.Total != 120 || p.Pages != 3 || !p.HasNext || !p.HasPrev {
		t.Errorf("pagination = %+v", p)
	}
}

func TestListChats(t *testing.T) {
	srv, db, _ := newTestServer(t)
	db.SaveChat(context.Background(), chat.New("c1", []transcript.Message{
		{ID: 1, Sender: "Alice", Content: "hi", Kind: transcript.KindText},
	}))

	req := httptest.NewRequest("GET", "/api/chats", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var summaries []chat.Summary
	if err := json.NewDecoder(w.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(summaries))
	}
	s := summaries[0]
	if s.ID != "c1" || s.MessageCount != 1 || s.ParticipantCount != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.LastMessage == nil || s.LastMessage.Content != "hi" {
		t.Errorf("lastMessage = %+v", s.LastMessage)
	}
}

func TestDeleteChat_Twice(t *testing.T) {
	srv, db, events := newTestServer(t)
	db.SaveChat(context.Background(), chat.New("gone_soon", nil))
	if _, err := srv.assets.Save("gone_soon", "a.jpg", []byte("x")); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	req := httptest.NewRequest("DELETE", "/api/chat/gone_soon", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first delete: expected 200, got %d", w.Code)
	}
	if _, err := os.Stat(filepath.Join(srv.assets.Root(), "gone_soon")); !os.IsNotExist(err) {
		t.Error("asset dir must be removed with the chat")
	}
	if len(events.deleted) != 1 {
		t.Errorf("deleted events = %v", events.deleted)
	}

	req = httptest.NewRequest("DELETE", "/api/chat/gone_soon", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}

func TestServesUploadedAssets(t *testing.T) {
	srv, _, _ := newTestServer(t)
	if _, err := srv.assets.Save("c1", "photo.jpg", []byte("jpegdata")); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	req := httptest.NewRequest("GET", "/uploads/c1/photo.jpg", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "jpegdata" {
		t.Errorf("body = %q", w.Body.String())
	}
}

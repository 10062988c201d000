package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yvishwas40/Whatsapp-Visualizer/internal/chat"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/markup"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/media"
	"github.com/yvishwas40/Whatsapp-Visualizer/internal/transcript"
)

// maxUploadBytes bounds the in-memory portion of a multipart upload;
// larger parts spill to temp files.
const maxUploadBytes = 64 << 20

// UploadResponse is returned by POST /api/upload/{chatID}.
type UploadResponse struct {
	Success      bool   `json:"success"`
	ChatID       string `json:"chatId"`
	MessageCount int    `json:"messageCount"`
}

// uploadChat ingests one exported chat: the .txt member of the form is
// the transcript, every other member is a media asset saved to the
// chat's directory in form order. The parsed messages are correlated
// against the assets, formatted, and stored as one chat document.
func (s *Server) uploadChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	if chatID == "" {
		chatID = uuid.NewString()
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No files uploaded")
		return
	}

	var raw []byte
	uploaded := make([]media.Asset, 0, len(files))
	for _, fh := range files {
		if strings.HasSuffix(strings.ToLower(fh.Filename), ".txt") {
			if raw != nil {
				continue // only the first transcript counts
			}
			data, err := readUpload(fh)
			if err != nil {
				s.logger.Error("read transcript failed", "file", fh.Filename, "error", err)
				writeError(w, http.StatusBadRequest, "invalid file")
				return
			}
			raw = data
			continue
		}

		data, err := readUpload(fh)
		if err != nil {
			s.logger.Error("read upload failed", "file", fh.Filename, "error", err)
			writeError(w, http.StatusBadRequest, "invalid file")
			return
		}
		stored, err := s.assets.Save(chatID, fh.Filename, data)
		if err != nil {
			s.logger.Error("store asset failed", "chat_id", chatID, "file", fh.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to process chat upload")
			return
		}
		uploaded = append(uploaded, media.Asset{
			OriginalName: fh.Filename,
			StoredName:   stored,
			SizeBytes:    fh.Size,
		})
	}
	if raw == nil {
		writeError(w, http.StatusBadRequest, "No .txt chat file found")
		return
	}

	msgs := transcript.NewParser().Parse(raw)
	msgs = media.Correlate(msgs, uploaded, chatID)
	msgs = markup.FormatMessages(msgs)

	c := chat.New(chatID, msgs)
	if err := s.store.SaveChat(r.Context(), c); err != nil {
		s.logger.Error("save chat failed", "chat_id", chatID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process chat upload")
		return
	}

	if s.events != nil {
		if err := s.events.PublishChatIngested(chatID, len(msgs), len(c.Participants)); err != nil {
			s.logger.Warn("failed to publish chat ingested event", "chat_id", chatID, "error", err)
		}
	}

	s.logger.Info("chat ingested",
		"chat_id", chatID,
		"messages", len(msgs),
		"assets", len(uploaded),
	)
	writeJSON(w, http.StatusOK, UploadResponse{
		Success:      true,
		ChatID:       chatID,
		MessageCount: len(msgs),
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}

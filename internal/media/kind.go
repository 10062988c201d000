package media

import (
	"path/filepath"
	"strings"
)

// TypeForFile maps a filename extension to a coarse media category used
// by viewers to pick a renderer.
func TypeForFile(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return "image"
	case ".mp4", ".mov", ".avi":
		return "video"
	case ".mp3", ".wav", ".ogg":
		return "audio"
	case ".pdf":
		return "pdf"
	case ".doc", ".docx":
		return "document"
	case ".xls", ".xlsx":
		return "spreadsheet"
	default:
		return "file"
	}
}

// Package assets keeps uploaded media files on disk, one directory per
// chat, mirroring the /uploads/<chatID>/<file> layout the API serves.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the directory the store writes under.
func (s *Store) Root() string {
	return s.root
}

// Save writes one uploaded file into the chat's directory and returns
// the stored name. Both the chat id and the filename are reduced to
// their base component so a crafted name cannot escape the directory.
func (s *Store) Save(chatID, name string, data []byte) (string, error) {
	stored := filepath.Base(name)
	if stored == "." || stored == ".." || stored == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename %q", name)
	}

	dir := filepath.Join(s.root, filepath.Base(chatID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chat dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, stored), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", stored, err)
	}
	return stored, nil
}

// RemoveChat deletes a chat's entire asset directory. Removing a chat
// that never stored assets is not an error.
func (s *Store) RemoveChat(chatID string) error {
	if err := os.RemoveAll(filepath.Join(s.root, filepath.Base(chatID))); err != nil {
		return fmt.Errorf("remove chat dir: %w", err)
	}
	return nil
}

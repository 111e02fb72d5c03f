package storage

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes uploaded files beneath a root directory, one
// subdirectory per task. Stored names carry a random prefix so repeated
// uploads of the same filename never collide on disk.
type LocalStore struct {
	root string
}

// NewLocalStore returns a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

// Save streams content to a new file scoped to the given task and returns
// the path of the stored file.
func (s *LocalStore) Save(taskID uint, filename string, content io.Reader) (string, error) {
	dir := filepath.Join(s.root, fmt.Sprintf("task_%d", taskID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, uuid.NewString()+"_"+filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	return path, f.Close()
}

// Delete removes a stored file. Removal is best-effort: failures are
// logged and never surfaced, so record mutations are not blocked by
// filesystem cleanup.
func (s *LocalStore) Delete(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Println("file delete failed:", err)
	}
}

package position

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the record set in a single JSON file, replaced atomically
// on save via a temp file and rename.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed record store at path. The file is
// created on first save; a missing file loads as an empty book.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (Book, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	book := Book{}
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	return book, nil
}

func (s *FileStore) Save(ctx context.Context, book Book) error {
	data, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".records-*.json")
	if err != nil {
		return fmt.Errorf("creating temp records file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing records: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing records: %w", err)
	}
	return nil
}

// MemoryStore is an in-process record store for tests and dry runs.
type MemoryStore struct {
	mu   sync.Mutex
	book Book
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{book: Book{}}
}

func (s *MemoryStore) Load(ctx context.Context) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Book{}
	for k, v := range s.book {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, book Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.book = Book{}
	for k, v := range book {
		s.book[k] = v
	}
	return nil
}

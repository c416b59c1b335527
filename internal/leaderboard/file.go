package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/victornm/quizboard/internal/domain"
)

// FileStore keeps the leaderboard in a local JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) ([]domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.read()
	if err != nil {
		return nil, err
	}

	return decodeOrEmpty(ctx, b), nil
}

func (s *FileStore) Append(ctx context.Context, r domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.read()
	if err != nil {
		return err
	}

	nb, err := encode(append(decodeOrEmpty(ctx, b), r))
	if err != nil {
		return err
	}

	return s.write(nb)
}

func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("leaderboard: clear %s: %w", s.path, err)
	}

	return nil
}

func (s *FileStore) read() ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leaderboard: read %s: %w", s.path, err)
	}

	return b, nil
}

// write replaces the file through a rename so readers never see a partial value.
func (s *FileStore) write(b []byte) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("leaderboard: create dir %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("leaderboard: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(f.Name()))
		}
	}()

	if _, err = f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("leaderboard: write temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("leaderboard: sync temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("leaderboard: close temp file: %w", err)
	}

	if err = os.Rename(f.Name(), s.path); err != nil {
		return fmt.Errorf("leaderboard: replace %s: %w", s.path, err)
	}

	return nil
}

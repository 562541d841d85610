package profile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csvlayout/internal/logging"
)

// FileStore keeps all profiles in one document on disk. The document is
// re-read on every call, so edits made by hand or by another process are
// picked up. Writes replace the file atomically.
type FileStore struct {
	path   string
	format Format
	now    func() time.Time

	mu sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first write; a missing file reads as an empty store.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		format: FormatFor(path),
		now:    time.Now,
	}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// load reads the document. Legacy entries without an id are assigned one and
// the document is rewritten. Caller must hold s.mu.
func (s *FileStore) load(ctx context.Context) ([]Profile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	profiles, changed, err := ParseDocument(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	if changed {
		logging.FromContext(ctx).Info("assigned ids to legacy profiles", "path", s.path)
		if err := s.save(profiles); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// save writes the document through a temp file in the same directory.
// Caller must hold s.mu.
func (s *FileStore) save(profiles []Profile) error {
	data, err := EncodeDocument(profiles, s.format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".profiles-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace profiles: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	return profiles, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Profile, error) {
	return s.find(ctx, func(p Profile) bool { return p.ID == id }, "id "+id)
}

func (s *FileStore) GetByName(ctx context.Context, name string) (*Profile, error) {
	return s.find(ctx, func(p Profile) bool { return p.Name == name }, "name "+name)
}

func (s *FileStore) find(ctx context.Context, match func(Profile) bool, what string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if match(p) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, what)
}

func (s *FileStore) Create(ctx context.Context, p Profile) (*Profile, error) {
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range profiles {
		if existing.Name == p.Name {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, p.Name)
		}
	}

	now := s.now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now

	if err := s.save(append(profiles, p)); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *FileStore) Update(ctx context.Context, p Profile) (*Profile, error) {
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, existing := range profiles {
		switch {
		case existing.ID == p.ID:
			idx = i
		case existing.Name == p.Name:
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, p.Name)
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, p.ID)
	}

	p.CreatedAt = profiles[idx].CreatedAt
	p.UpdatedAt = s.now().UTC()
	profiles[idx] = p

	if err := s.save(profiles); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i, p := range profiles {
		if p.ID == id {
			return s.save(append(profiles[:i], profiles[i+1:]...))
		}
	}
	return fmt.Errorf("%w: id %s", ErrNotFound, id)
}

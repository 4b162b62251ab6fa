// Package storage persists rendered artifacts outside the per-attempt
// scratch directory. The pipeline itself never names files; it hands
// artifacts to a Store and the store decides layout and bookkeeping.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"diagen/internal/render"
)

// Entry is one stored artifact as recorded in the manifest.
type Entry struct {
	ID        string    `yaml:"id"`
	Diagram   string    `yaml:"diagram"`
	Format    string    `yaml:"format"`
	File      string    `yaml:"file"`
	Checksum  string    `yaml:"checksum"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Store is the artifact persistence collaborator.
type Store interface {
	Put(art render.Artifact) (Entry, error)
	List() ([]Entry, error)
}

const manifestName = "manifest.yaml"

// FileStore writes artifacts under a base directory as
// <diagram>-<id8>.<format> and keeps a yaml manifest alongside them.
type FileStore struct {
	base string
}

// NewFileStore creates the base directory when missing.
func NewFileStore(base string) (*FileStore, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create base dir: %w", err)
	}
	return &FileStore{base: base}, nil
}

// Put writes the artifact bytes and appends a manifest entry.
func (s *FileStore) Put(art render.Artifact) (Entry, error) {
	id := art.ID.String()
	name := fmt.Sprintf("%s-%s.%s", slug(art.Diagram), id[:8], art.Format)
	if err := os.WriteFile(filepath.Join(s.base, name), art.Bytes, 0o644); err != nil {
		return Entry{}, fmt.Errorf("storage: write artifact: %w", err)
	}

	entry := Entry{
		ID:        id,
		Diagram:   art.Diagram,
		Format:    string(art.Format),
		File:      name,
		Checksum:  art.Checksum,
		CreatedAt: time.Now().UTC(),
	}
	entries, err := s.List()
	if err != nil {
		return Entry{}, err
	}
	entries = append(entries, entry)
	if err := s.writeManifest(entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns the manifest entries in stored order. A missing manifest
// means an empty store.
func (s *FileStore) List() ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(s.base, manifestName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read manifest: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("storage: parse manifest: %w", err)
	}
	return entries, nil
}

func (s *FileStore) writeManifest(entries []Entry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("storage: encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.base, manifestName), data, 0o644); err != nil {
		return fmt.Errorf("storage: write manifest: %w", err)
	}
	return nil
}

// slug reduces a diagram name to a safe filename stem.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "diagram"
	}
	return out
}

// Package file implements ports.DocumentStore on the local filesystem, one file per
// workspace.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/heddle/pkg/document"
	"github.com/aretw0/heddle/pkg/domain"
)

// DefaultDir is where workspaces are kept when no directory is configured.
var DefaultDir = filepath.Join(".heddle", "workspaces")

// Store keeps each workspace document as <id>.json or <id>.yaml under BasePath.
type Store struct {
	BasePath string
	Format   document.Format
}

// Option configures a Store.
type Option func(*Store)

// WithFormat selects the encoding of new files (default JSON).
func WithFormat(f document.Format) Option {
	return func(s *Store) {
		s.Format = f
	}
}

// New creates a Store rooted at basePath, or DefaultDir when basePath is empty.
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	s := &Store{BasePath: basePath, Format: document.JSON}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ext() string {
	if s.Format == document.YAML {
		return ".yaml"
	}
	return ".json"
}

func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("workspace id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid workspace id %q", id)
	}
	return nil
}

// Save writes the document atomically: to a temp file in the same directory, synced,
// then renamed over the destination.
func (s *Store) Save(ctx context.Context, id string, doc *domain.Document) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure workspace directory: %w", err)
	}

	data, err := document.Marshal(doc, s.Format)
	if err != nil {
		return fmt.Errorf("failed to encode workspace: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, "tmp-"+id+"-*"+s.ext())
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// a copy in the other format would shadow this one on Load
	for _, p := range s.paths(id) {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to replace workspace file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, filepath.Join(s.BasePath, id+s.ext())); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (s *Store) paths(id string) []string {
	return []string{
		filepath.Join(s.BasePath, id+".json"),
		filepath.Join(s.BasePath, id+".yaml"),
		filepath.Join(s.BasePath, id+".yml"),
	}
}

// Load reads the document stored under id in whichever format it was written.
func (s *Store) Load(ctx context.Context, id string) (*domain.Document, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	for _, p := range s.paths(id) {
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read workspace file: %w", err)
		}
		return document.Unmarshal(data, document.FormatFromPath(p))
	}
	return nil, domain.ErrWorkspaceNotFound
}

// Delete removes the workspace file.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	for _, p := range s.paths(id) {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete workspace file: %w", err)
		}
	}
	return nil
}

// List returns the ids of every workspace file in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "tmp-") {
			continue
		}
		switch ext := filepath.Ext(name); ext {
		case ".json", ".yaml", ".yml":
			id := strings.TrimSuffix(name, ext)
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Package storage is the file-asset store for uploaded book files and
// cover images. Assets live under a configured media root, addressed by
// generated relative paths; the placeholder cover is a reserved asset
// that is never deleted.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	bookFilesDir  = "book_files"
	bookImagesDir = "book_images"
)

// Store persists uploaded assets under the media root.
type Store struct {
	root         string
	defaultImage string
}

// NewStore creates the media root and its subdirectories if needed.
func NewStore(root, defaultImage string) (*Store, error) {
	for _, dir := range []string{root, filepath.Join(root, bookFilesDir), filepath.Join(root, bookImagesDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create media dir: %w", err)
		}
	}
	return &Store{root: root, defaultImage: defaultImage}, nil
}

// DefaultImagePath returns the relative path of the reserved
// placeholder cover.
func (s *Store) DefaultImagePath() string {
	return s.defaultImage
}

// SaveBookFile writes an uploaded book file and returns its relative
// asset path.
func (s *Store) SaveBookFile(slug, originalName string, r io.Reader) (string, error) {
	return s.save(bookFilesDir, slug, originalName, r)
}

// SaveCoverImage writes an uploaded cover image and returns its
// relative asset path.
func (s *Store) SaveCoverImage(slug, originalName string, r io.Reader) (string, error) {
	return s.save(bookImagesDir, slug, originalName, r)
}

// save writes the asset to a temp file first and renames it into place,
// so a failed upload never leaves a partial asset behind.
func (s *Store) save(dir, slug, originalName string, r io.Reader) (string, error) {
	name := assetName(slug, originalName)
	relPath := path.Join(dir, name)
	absPath := filepath.Join(s.root, dir, name)

	tmp, err := os.CreateTemp(filepath.Join(s.root, dir), "upload_tmp_")
	if err != nil {
		return "", fmt.Errorf("create temp asset: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath) // no-op after successful rename
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close asset: %w", err)
	}

	if err := os.Rename(tmpPath, absPath); err != nil {
		return "", fmt.Errorf("store asset: %w", err)
	}
	return relPath, nil
}

// Remove deletes a stored asset. The reserved placeholder image and
// empty paths are skipped; a missing file is not an error.
func (s *Store) Remove(relPath string) error {
	if relPath == "" || relPath == s.defaultImage {
		return nil
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(relPath))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove asset: %w", err)
	}
	return nil
}

// Abs resolves a relative asset path against the media root.
func (s *Store) Abs(relPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(relPath))
}

// Root returns the media root directory.
func (s *Store) Root() string {
	return s.root
}

// assetName builds a unique filename from the owning book's slug, a
// short random suffix and the original extension.
func assetName(slug, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%s%s", slug, suffix, ext)
}

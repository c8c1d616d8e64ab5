package filesystem

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/models"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Storage keeps photos as plain files in a single directory. There is no
// index: every call looks at the directory as it is right now.
type Storage struct {
	dir            string
	maxUploadBytes int64
}

// New resolves dir to an absolute path and makes sure it exists.
func New(dir string, maxUploadBytes int64) (*Storage, error) {
	const op = "storage.filesystem.New"

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{
		dir:            absDir,
		maxUploadBytes: maxUploadBytes,
	}

	if err = s.EnsureDir(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func (s *Storage) EnsureDir() error {
	const op = "storage.filesystem.EnsureDir"

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) ListImages(ctx context.Context) ([]models.Image, error) {
	const op = "storage.filesystem.ListImages"

	if err := s.EnsureDir(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	found := make([]listedImage, 0, len(entries))

	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		if _, ok := storage.MimeTypeFromName(name); !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		found = append(found, listedImage{
			name:      name,
			createdAt: createdAt(filepath.Join(s.dir, name), info),
		})
	}

	sortNewestFirst(found)

	images := make([]models.Image, 0, len(found))
	for _, f := range found {
		images = append(images, models.Image{
			ID:        f.name,
			URL:       storage.ImageURL(f.name),
			CreatedAt: f.createdAt.Truncate(time.Millisecond),
		})
	}

	return images, nil
}

type listedImage struct {
	name      string
	createdAt time.Time
}

// sortNewestFirst orders by full-precision creation time; equal times keep
// directory order.
func sortNewestFirst(found []listedImage) {
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].createdAt.After(found[j].createdAt)
	})
}

// ReadImage never reports why a read failed: an invalid id, a missing file and
// an unreadable file are all storage.ErrImageNotFound.
func (s *Storage) ReadImage(ctx context.Context, id string) (*models.ImageFile, error) {
	const op = "storage.filesystem.ReadImage"

	if !storage.ValidateID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrImageNotFound)
	}

	mimeType, _ := storage.MimeTypeFromName(id)

	body, err := os.ReadFile(filepath.Join(s.dir, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrImageNotFound)
	}

	return &models.ImageFile{
		Body:     body,
		MimeType: mimeType,
	}, nil
}

func (s *Storage) SaveImage(ctx context.Context, data []byte, mimeType string) (*models.UploadedImage, error) {
	const op = "storage.filesystem.SaveImage"

	ext, ok := storage.ExtensionForMimeType(mimeType)
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, mimeType, storage.ErrInvalidMIME)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEmptyFile)
	}

	if int64(len(data)) > s.maxUploadBytes {
		return nil, fmt.Errorf("%s: %d bytes: %w", op, len(data), storage.ErrMaxSizeExceeded)
	}

	if err := s.EnsureDir(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id := newImageID(ext)

	if err := s.writeFile(id, data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.UploadedImage{
		ID:  id,
		URL: storage.ImageURL(id),
	}, nil
}

// writeFile stages data in a hidden temp file that ListImages ignores and only
// renames it to id once every byte is on disk.
func (s *Storage) writeFile(id string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".upload-*.part")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err = os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err = os.Rename(tmpName, filepath.Join(s.dir, id)); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return nil
}

func (s *Storage) DeleteImage(ctx context.Context, id string) error {
	const op = "storage.filesystem.DeleteImage"

	if !storage.ValidateID(id) {
		return fmt.Errorf("%s: %w", op, storage.ErrImageNotFound)
	}

	fullPath := filepath.Join(s.dir, id)

	info, err := os.Lstat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", op, storage.ErrImageNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", op, storage.ErrImageNotFound)
	}

	if err = os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", op, storage.ErrImageNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func newImageID(ext string) string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + uuid.NewString() + "." + ext
}

// createdAt prefers the birth time and falls back to the modification time on
// filesystems that do not record one.
func createdAt(path string, info fs.FileInfo) time.Time {
	t, ok := birthTime(path, info)
	if !ok {
		t = info.ModTime()
	}
	return t.UTC()
}

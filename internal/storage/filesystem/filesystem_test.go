package filesystem_test

import (
	"bytes"
	"context"
	"github.com/google/uuid"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage/filesystem"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

const testMaxBytes = 1024

func newStorage(t *testing.T) *filesystem.Storage {
	t.Helper()

	s, err := filesystem.New(t.TempDir(), testMaxBytes)
	require.NoError(t, err)

	return s
}

func TestNewCreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")

	s, err := filesystem.New(dir, testMaxBytes)
	require.NoError(t, err)
	require.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.NoError(t, s.EnsureDir())
}

func TestListRecreatesRemovedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")

	s, err := filesystem.New(dir, testMaxBytes)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	images, err := s.ListImages(context.Background())
	require.NoError(t, err)
	require.NotNil(t, images)
	require.Empty(t, images)
}

func TestSaveImage(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		mimeType string
		ext      string
	}{
		{name: "jpeg", mimeType: storage.MimeJPEG, ext: ".jpg"},
		{name: "png", mimeType: storage.MimePNG, ext: ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStorage(t)
			data := bytes.Repeat([]byte{0xAB}, testMaxBytes)

			saved, err := s.SaveImage(ctx, data, tt.mimeType)
			require.NoError(t, err)
			require.Equal(t, tt.ext, filepath.Ext(saved.ID))
			require.Equal(t, storage.ImageURL(saved.ID), saved.URL)
			require.True(t, storage.ValidateID(saved.ID))

			images, err := s.ListImages(ctx)
			require.NoError(t, err)
			require.Len(t, images, 1)
			require.Equal(t, saved.ID, images[0].ID)
			require.Equal(t, saved.URL, images[0].URL)

			file, err := s.ReadImage(ctx, saved.ID)
			require.NoError(t, err)
			require.Equal(t, data, file.Body)
			require.Equal(t, tt.mimeType, file.MimeType)
		})
	}
}

func TestSaveImageIDFormat(t *testing.T) {
	s := newStorage(t)

	before := time.Now().UnixMilli()
	saved, err := s.SaveImage(context.Background(), []byte("x"), storage.MimeJPEG)
	require.NoError(t, err)
	after := time.Now().UnixMilli()

	stamp, rest, ok := strings.Cut(saved.ID, "_")
	require.True(t, ok)

	ms, err := strconv.ParseInt(stamp, 10, 64)
	require.NoError(t, err)
	require.GreaterOrEqual(t, ms, before)
	require.LessOrEqual(t, ms, after)

	_, err = uuid.Parse(strings.TrimSuffix(rest, ".jpg"))
	require.NoError(t, err)
}

func TestSaveImageFreshIDs(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		saved, err := s.SaveImage(ctx, []byte{byte(i)}, storage.MimePNG)
		require.NoError(t, err)

		_, dup := seen[saved.ID]
		require.False(t, dup)
		seen[saved.ID] = struct{}{}
	}

	images, err := s.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, images, 20)
}

func TestSaveImageRejects(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mimeType string
		wantErr  error
	}{
		{name: "gif", data: []byte("GIF89a"), mimeType: "image/gif", wantErr: storage.ErrInvalidMIME},
		{name: "octet stream", data: []byte("x"), mimeType: "application/octet-stream", wantErr: storage.ErrInvalidMIME},
		{name: "mime with params", data: []byte("x"), mimeType: "image/jpeg; q=1", wantErr: storage.ErrInvalidMIME},
		{name: "invalid mime wins over empty", data: nil, mimeType: "text/plain", wantErr: storage.ErrInvalidMIME},
		{name: "empty", data: []byte{}, mimeType: storage.MimeJPEG, wantErr: storage.ErrEmptyFile},
		{name: "too large", data: make([]byte, testMaxBytes+1), mimeType: storage.MimePNG, wantErr: storage.ErrMaxSizeExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStorage(t)

			saved, err := s.SaveImage(context.Background(), tt.data, tt.mimeType)
			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, saved)

			entries, err := os.ReadDir(s.Dir())
			require.NoError(t, err)
			require.Empty(t, entries)
		})
	}
}

func TestListImagesNewestFirst(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		saved, err := s.SaveImage(ctx, []byte{byte(i + 1)}, storage.MimeJPEG)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
		time.Sleep(20 * time.Millisecond)
	}

	images, err := s.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, images, 3)
	require.Equal(t, ids[2], images[0].ID)
	require.Equal(t, ids[1], images[1].ID)
	require.Equal(t, ids[0], images[2].ID)

	require.False(t, images[0].CreatedAt.Before(images[1].CreatedAt))
	require.False(t, images[1].CreatedAt.Before(images[2].CreatedAt))

	again, err := s.ListImages(ctx)
	require.NoError(t, err)
	require.Equal(t, images, again)
}

func TestListImagesFiltersEntries(t *testing.T) {
	s := newStorage(t)
	dir := s.Dir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.JPEG"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.png"), []byte("c"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".upload-123.part"), []byte("p"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.jpg"), 0o755))

	images, err := s.ListImages(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, img := range images {
		ids = append(ids, img.ID)
		require.False(t, img.CreatedAt.IsZero())
	}
	require.ElementsMatch(t, []string{"a.jpg", "b.JPEG", "c.png"}, ids)
}

func TestReadImageNotFound(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "images")

	s, err := filesystem.New(dir, testMaxBytes)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.jpg"), []byte("outside"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("inside"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.png"), 0o755))

	ids := []string{
		"missing.jpg",
		"../secret.jpg",
		"..%2Fsecret.jpg",
		"sub/a.jpg",
		`..\secret.jpg`,
		"/etc/passwd",
		"notes.txt",
		"folder.png",
		"",
		"..",
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			file, err := s.ReadImage(context.Background(), id)
			require.ErrorIs(t, err, storage.ErrImageNotFound)
			require.Nil(t, file)
		})
	}
}

func TestReadImageDerivesMimeFromExtension(t *testing.T) {
	s := newStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "manual.JPEG"), []byte("jpeg"), 0o644))

	file, err := s.ReadImage(context.Background(), "manual.JPEG")
	require.NoError(t, err)
	require.Equal(t, storage.MimeJPEG, file.MimeType)
	require.Equal(t, []byte("jpeg"), file.Body)
}

func TestDeleteImage(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	saved, err := s.SaveImage(ctx, []byte("photo"), storage.MimeJPEG)
	require.NoError(t, err)

	require.NoError(t, s.DeleteImage(ctx, saved.ID))

	images, err := s.ListImages(ctx)
	require.NoError(t, err)
	require.Empty(t, images)

	_, err = s.ReadImage(ctx, saved.ID)
	require.ErrorIs(t, err, storage.ErrImageNotFound)

	err = s.DeleteImage(ctx, saved.ID)
	require.ErrorIs(t, err, storage.ErrImageNotFound)
}

func TestDeleteImageNotFound(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "images")

	s, err := filesystem.New(dir, testMaxBytes)
	require.NoError(t, err)

	outside := filepath.Join(parent, "keep.jpg")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.jpg"), 0o755))

	for _, id := range []string{"missing.jpg", "../keep.jpg", "sub/x.png", "readme.md", "folder.jpg"} {
		t.Run(id, func(t *testing.T) {
			err := s.DeleteImage(context.Background(), id)
			require.ErrorIs(t, err, storage.ErrImageNotFound)
		})
	}

	_, err = os.Stat(outside)
	require.NoError(t, err)
}

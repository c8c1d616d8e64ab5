package storage

import (
	"errors"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidMIME     = errors.New("invalid mime type")
	ErrEmptyFile       = errors.New("empty file")
	ErrMaxSizeExceeded = errors.New("max upload size exceeded")
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// ImageURLPrefix is the public path under which stored images are served.
const ImageURLPrefix = "/api/images/"

var allowedExtensions = map[string]string{
	".jpg":  MimeJPEG,
	".jpeg": MimeJPEG,
	".png":  MimePNG,
}

var extensionsByMime = map[string]string{
	MimeJPEG: "jpg",
	MimePNG:  "png",
}

// MimeTypeFromName derives the content type of a stored file from its extension.
func MimeTypeFromName(name string) (string, bool) {
	mimeType, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return mimeType, ok
}

// ExtensionForMimeType returns the extension, without the dot, used for newly
// written files of the given declared type.
func ExtensionForMimeType(mimeType string) (string, bool) {
	ext, ok := extensionsByMime[mimeType]
	return ext, ok
}

// ValidateID reports whether id names a plain file with an allowed extension.
// Any directory component, in either separator style, makes the id invalid.
func ValidateID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	if strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return false
	}
	if filepath.Base(id) != id || path.Base(id) != id {
		return false
	}
	_, ok := MimeTypeFromName(id)
	return ok
}

func ImageURL(id string) string {
	return ImageURLPrefix + url.PathEscape(id)
}

package models

import (
	"time"
)

// Image describes one stored photo. Everything except the bytes is derived
// from the file name and its filesystem metadata.
type Image struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type UploadedImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type ImageFile struct {
	Body     []byte
	MimeType string
}

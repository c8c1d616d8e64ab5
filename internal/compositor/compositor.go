package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/disintegration/imaging"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/frames"
	"image"
	"strconv"
	"time"
)

var ErrUnknownFrame = errors.New("unknown frame")

// Compose draws base onto a surface of exactly its own size and, when overlay
// is not nil, stretches overlay to the same size and blends it on top.
func Compose(base, overlay image.Image) *image.NRGBA {
	dst := imaging.Clone(base)
	if overlay == nil {
		return dst
	}

	size := dst.Bounds().Size()
	fitted := imaging.Resize(overlay, size.X, size.Y, imaging.Lanczos)

	return imaging.Overlay(dst, fitted, image.Pt(0, 0), 1.0)
}

// IsLandscape reports whether img is wider than it is tall.
func IsLandscape(img image.Image) bool {
	size := img.Bounds().Size()
	return size.X > size.Y
}

// Render decodes base, composes it with the catalog frame matching the photo
// orientation and returns the result encoded as PNG. Nothing is returned
// unless every step succeeded.
func Render(base []byte, catalog *frames.Catalog, frameID string) ([]byte, error) {
	const op = "compositor.Render"

	frame, ok := catalog.Get(frameID)
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, frameID, ErrUnknownFrame)
	}

	src, err := imaging.Decode(bytes.NewReader(base), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%s: decode base: %w", op, err)
	}

	var overlay image.Image

	overlayData, err := catalog.Overlay(frame, IsLandscape(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if overlayData != nil {
		overlay, err = imaging.Decode(bytes.NewReader(overlayData))
		if err != nil {
			return nil, fmt.Errorf("%s: decode frame %s: %w", op, frame.ID, err)
		}
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, Compose(src, overlay), imaging.PNG); err != nil {
		return nil, fmt.Errorf("%s: encode: %w", op, err)
	}

	return buf.Bytes(), nil
}

// FileName is the download name of a composed photo.
func FileName(frameID string, at time.Time) string {
	return "kisscam-" + frameID + "-" + strconv.FormatInt(at.UnixMilli(), 10) + ".png"
}

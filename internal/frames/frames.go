package frames

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// NoneID selects no overlay at all.
const NoneID = "none"

var ErrAssetNotFound = errors.New("frame asset not found")

//go:embed assets/*.png
var embedded embed.FS

// Frame is a decorative overlay. Portrait and Landscape name assets inside the
// catalog filesystem; either may be empty.
type Frame struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Portrait  string `json:"portrait,omitempty"`
	Landscape string `json:"landscape,omitempty"`
}

// Source picks the asset for a photo of the given orientation, falling back
// to whichever variant exists. It returns "" for frames without assets.
func (f Frame) Source(landscape bool) string {
	if landscape {
		if f.Landscape != "" {
			return f.Landscape
		}
		return f.Portrait
	}
	if f.Portrait != "" {
		return f.Portrait
	}
	return f.Landscape
}

func (f Frame) IsNone() bool {
	return f.Portrait == "" && f.Landscape == ""
}

var defaultFrames = []Frame{
	{ID: NoneID, Label: "Sin marco"},
	{ID: "frame-1", Label: "Corazones", Portrait: "frame-1-portrait.png", Landscape: "frame-1-landscape.png"},
	{ID: "frame-2", Label: "Lazos", Portrait: "frame-2-portrait.png", Landscape: "frame-2-landscape.png"},
	{ID: "frame-3", Label: "Brillos", Portrait: "frame-3-portrait.png", Landscape: "frame-3-landscape.png"},
	{ID: "frame-4", Label: "Flores", Portrait: "frame-4-portrait.png", Landscape: "frame-4-landscape.png"},
	{ID: "frame-5", Label: "Doble borde", Portrait: "frame-5-portrait.png", Landscape: "frame-5-landscape.png"},
	{ID: "frame-6", Label: "Noche romantica", Portrait: "frame-6-portrait.png", Landscape: "frame-6-landscape.png"},
}

type Catalog struct {
	frames []Frame
	assets fs.FS
}

func NewCatalog(assets fs.FS, frames []Frame) *Catalog {
	list := make([]Frame, len(frames))
	copy(list, frames)

	return &Catalog{
		frames: list,
		assets: assets,
	}
}

// Default returns the built-in frames backed by the embedded assets.
func Default() *Catalog {
	assets, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	return NewCatalog(assets, defaultFrames)
}

// FromDir returns the built-in frames with assets read from dir, which must
// contain files named like the embedded ones.
func FromDir(dir string) (*Catalog, error) {
	const op = "frames.FromDir"

	assets := os.DirFS(dir)
	for _, f := range defaultFrames {
		for _, name := range []string{f.Portrait, f.Landscape} {
			if name == "" {
				continue
			}
			if _, err := fs.Stat(assets, name); err != nil {
				return nil, fmt.Errorf("%s: %s: %w", op, name, err)
			}
		}
	}

	return NewCatalog(assets, defaultFrames), nil
}

func (c *Catalog) List() []Frame {
	list := make([]Frame, len(c.frames))
	copy(list, c.frames)
	return list
}

func (c *Catalog) Get(id string) (Frame, bool) {
	for _, f := range c.frames {
		if f.ID == id {
			return f, true
		}
	}
	return Frame{}, false
}

func (c *Catalog) Assets() fs.FS {
	return c.assets
}

// Overlay returns the encoded asset for f in the given orientation, or nil
// when f has no assets.
func (c *Catalog) Overlay(f Frame, landscape bool) ([]byte, error) {
	const op = "frames.Catalog.Overlay"

	name := f.Source(landscape)
	if name == "" {
		return nil, nil
	}

	data, err := fs.ReadFile(c.assets, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %s: %w", op, name, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("%s: %s: %w", op, name, err)
	}

	return data, nil
}

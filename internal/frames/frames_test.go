package frames_test

import (
	"bytes"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/frames"
	"github.com/stretchr/testify/require"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestFrameSource(t *testing.T) {
	both := frames.Frame{ID: "both", Portrait: "p.png", Landscape: "l.png"}
	portraitOnly := frames.Frame{ID: "p", Portrait: "p.png"}
	landscapeOnly := frames.Frame{ID: "l", Landscape: "l.png"}
	none := frames.Frame{ID: frames.NoneID}

	require.Equal(t, "p.png", both.Source(false))
	require.Equal(t, "l.png", both.Source(true))
	require.Equal(t, "p.png", portraitOnly.Source(true))
	require.Equal(t, "l.png", landscapeOnly.Source(false))
	require.Equal(t, "", none.Source(true))
	require.Equal(t, "", none.Source(false))
	require.True(t, none.IsNone())
	require.False(t, portraitOnly.IsNone())
}

func TestDefaultCatalog(t *testing.T) {
	c := frames.Default()

	list := c.List()
	require.Len(t, list, 7)
	require.Equal(t, frames.NoneID, list[0].ID)

	none, ok := c.Get(frames.NoneID)
	require.True(t, ok)
	require.True(t, none.IsNone())

	_, ok = c.Get("frame-99")
	require.False(t, ok)

	for _, f := range list[1:] {
		for _, landscape := range []bool{false, true} {
			data, err := c.Overlay(f, landscape)
			require.NoError(t, err, f.ID)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err, f.ID)
			require.Equal(t, "png", format)
			require.Equal(t, landscape, cfg.Width > cfg.Height, f.ID)
		}
	}
}

func TestCatalogListIsACopy(t *testing.T) {
	c := frames.Default()

	list := c.List()
	list[1].Label = "changed"

	f, ok := c.Get(list[1].ID)
	require.True(t, ok)
	require.NotEqual(t, "changed", f.Label)
}

func TestOverlayNone(t *testing.T) {
	c := frames.Default()
	none, _ := c.Get(frames.NoneID)

	data, err := c.Overlay(none, true)
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestOverlayMissingAsset(t *testing.T) {
	c := frames.NewCatalog(fstest.MapFS{}, []frames.Frame{{ID: "x", Portrait: "x.png"}})
	f, _ := c.Get("x")

	_, err := c.Overlay(f, false)
	require.ErrorIs(t, err, frames.ErrAssetNotFound)
}

func TestOverlayFallsBackToExistingVariant(t *testing.T) {
	assets := fstest.MapFS{"only-portrait.png": {Data: []byte("portrait")}}
	c := frames.NewCatalog(assets, []frames.Frame{{ID: "p", Portrait: "only-portrait.png"}})
	f, _ := c.Get("p")

	data, err := c.Overlay(f, true)
	require.NoError(t, err)
	require.Equal(t, []byte("portrait"), data)
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()

	_, err := frames.FromDir(dir)
	require.Error(t, err)

	for _, f := range frames.Default().List() {
		for _, name := range []string{f.Portrait, f.Landscape} {
			if name == "" {
				continue
			}
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
		}
	}

	c, err := frames.FromDir(dir)
	require.NoError(t, err)

	f, ok := c.Get("frame-2")
	require.True(t, ok)

	data, err := c.Overlay(f, true)
	require.NoError(t, err)
	require.Equal(t, []byte("frame-2-landscape.png"), data)
}

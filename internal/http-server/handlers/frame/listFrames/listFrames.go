package listFrames

import (
	"github.com/go-chi/render"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/frames"
	"log/slog"
	"net/http"
)

// AssetPrefix is where the router serves the frame assets.
const AssetPrefix = "/frames/"

type Item struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	PortraitURL  string `json:"portraitUrl,omitempty"`
	LandscapeURL string `json:"landscapeUrl,omitempty"`
}

// New lists the frames a photo can be composed with.
// @Summary      Lists frames
// @Tags         frames
// @Produce      json
// @Success      200  {array}  Item
// @Router       /api/frames [get]
func New(log *slog.Logger, catalog *frames.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.frame.listFrames.New"

		list := catalog.List()

		items := make([]Item, 0, len(list))
		for _, f := range list {
			items = append(items, Item{
				ID:           f.ID,
				Label:        f.Label,
				PortraitURL:  assetURL(f.Portrait),
				LandscapeURL: assetURL(f.Landscape),
			})
		}

		log.Debug("frames listed", slog.String("op", op), slog.Int("count", len(items)))

		render.JSON(w, r, items)
	}
}

func assetURL(name string) string {
	if name == "" {
		return ""
	}
	return AssetPrefix + name
}

package framedImage

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/compositor"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/frames"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/params"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/response"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/models"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const QueryFrame = "frame"

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageGetter
type ImageGetter interface {
	ReadImage(ctx context.Context, id string) (*models.ImageFile, error)
}

// New renders a stored photo with a frame and offers it as a PNG download.
// @Summary      Downloads a framed photo
// @Description  Composes the photo with the chosen frame and returns a PNG attachment
// @Tags         images
// @Produce      image/png
// @Param        id     path      string  true   "Image ID"
// @Param        frame  query     string  false  "Frame ID (default none)"
// @Success      200  {file}    binary
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/images/{id}/framed [get]
func New(log *slog.Logger, imageGetter ImageGetter, catalog *frames.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.framedImage.New"

		log := log.With(slog.String("op", op))

		id := params.ImageID(r)

		frameID := r.URL.Query().Get(QueryFrame)
		if frameID == "" {
			frameID = frames.NoneID
		}

		w.Header().Set("Cache-Control", "no-store")

		if _, ok := catalog.Get(frameID); !ok {
			log.Info("unknown frame requested", slog.String("frame", frameID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown frame"))
			return
		}

		image, err := imageGetter.ReadImage(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrImageNotFound) {
				log.Info("image not found", slog.String("image_id", id))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("image not found"))
				return
			}

			log.Error("failed to read image", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to load image"))
			return
		}

		out, err := compositor.Render(image.Body, catalog, frameID)
		if err != nil {
			log.Error("failed to compose image", slog.String("image_id", id), slog.String("frame", frameID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to compose image"))
			return
		}

		name := compositor.FileName(frameID, time.Now())

		w.Header().Set("Content-Type", storage.MimePNG)
		w.Header().Set("Content-Length", strconv.Itoa(len(out)))
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.WriteHeader(http.StatusOK)

		if _, err = w.Write(out); err != nil {
			log.Warn("failed to write framed image", slog.String("image_id", id), sl.Err(err))
		}
	}
}

package getImage

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/params"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/response"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/models"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage"
	"log/slog"
	"net/http"
	"strconv"
)

// CacheControl applies to image bytes; a stored id never changes content.
const CacheControl = "public, max-age=60"

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageGetter
type ImageGetter interface {
	ReadImage(ctx context.Context, id string) (*models.ImageFile, error)
}

// New serves the bytes of a stored photo.
// @Summary      Gets a photo
// @Description  Returns the raw bytes of a stored photo
// @Tags         images
// @Produce      image/jpeg,image/png
// @Param        id   path      string  true  "Image ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /api/images/{id} [get]
func New(log *slog.Logger, imageGetter ImageGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.getImage.New"

		log := log.With(slog.String("op", op))

		id := params.ImageID(r)

		image, err := imageGetter.ReadImage(r.Context(), id)
		if err != nil {
			w.Header().Set("Cache-Control", "no-store")

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

		w.Header().Set("Content-Type", image.MimeType)
		w.Header().Set("Content-Length", strconv.Itoa(len(image.Body)))
		w.Header().Set("Cache-Control", CacheControl)
		w.WriteHeader(http.StatusOK)

		if _, err = w.Write(image.Body); err != nil {
			log.Warn("failed to write image body", slog.String("image_id", id), sl.Err(err))
		}
	}
}

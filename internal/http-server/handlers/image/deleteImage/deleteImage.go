package deleteImage

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/events"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/params"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/response"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage"
	"log/slog"
	"net/http"
	"time"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageDeleter
type ImageDeleter interface {
	DeleteImage(ctx context.Context, id string) error
}

type Response struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// New removes a stored photo.
// @Summary      Deletes a photo
// @Tags         images
// @Produce      json
// @Param        X-Upload-Token  header    string  true  "Shared upload secret"
// @Param        id              path      string  true  "Image ID"
// @Success      200  {object}  Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/images/{id} [delete]
func New(log *slog.Logger, imageDeleter ImageDeleter, publisher events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.deleteImage.New"

		log := log.With(slog.String("op", op))

		id := params.ImageID(r)

		log.Info("attempting to delete image", slog.String("image_id", id))

		err := imageDeleter.DeleteImage(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrImageNotFound) {
				log.Warn("image not found for deletion", slog.String("image_id", id))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("image not found"))
				return
			}

			log.Error("failed to delete image from storage", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete image"))
			return
		}

		log.Info("image deleted successfully", slog.String("image_id", id))

		event := events.Event{
			Type:    events.TypeDeleted,
			ImageID: id,
			URL:     storage.ImageURL(id),
			At:      time.Now().UTC(),
		}
		publishCtx, cancel := context.WithTimeout(r.Context(), events.PublishTimeout)
		err = publisher.Publish(publishCtx, event)
		cancel()
		if err != nil {
			log.Warn("failed to publish delete event", slog.String("image_id", id), sl.Err(err))
		}

		render.JSON(w, r, Response{
			OK: true,
			ID: id,
		})
	}
}

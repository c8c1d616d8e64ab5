package listImages

import (
	"context"
	"github.com/go-chi/render"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/response"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/models"
	"log/slog"
	"net/http"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImagesLister
type ImagesLister interface {
	ListImages(ctx context.Context) ([]models.Image, error)
}

// New lists stored photos.
// @Summary      Lists photos
// @Description  Returns every stored photo, newest first
// @Tags         images
// @Produce      json
// @Success      200  {array}   models.Image
// @Failure      500  {object}  response.Response
// @Router       /api/images [get]
func New(log *slog.Logger, imagesLister ImagesLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.listImages.New"

		log := log.With(slog.String("op", op))

		images, err := imagesLister.ListImages(r.Context())
		if err != nil {
			log.Error("failed to list images", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list images"))
			return
		}

		if images == nil {
			images = []models.Image{}
		}

		log.Debug("images listed", slog.Int("count", len(images)))

		render.JSON(w, r, images)
	}
}

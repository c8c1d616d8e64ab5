package saveImage

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/events"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/response"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/models"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// FieldName is the multipart field carrying the photo.
	FieldName = "photo"

	maxMemory         = 32 << 20
	multipartOverhead = 1 << 20
)

type Response struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageSaver
type ImageSaver interface {
	SaveImage(ctx context.Context, data []byte, mimeType string) (*models.UploadedImage, error)
}

// New uploads a photo.
// @Summary      Uploads a photo
// @Description  Stores a JPEG or PNG sent as the multipart field "photo" and returns its id
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Upload-Token  header    string  true  "Shared upload secret"
// @Param        photo           formData  file    true  "JPEG or PNG photo"
// @Success      201  {object}  saveImage.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/upload [post]
func New(log *slog.Logger, imageSaver ImageSaver, publisher events.Publisher, maxUploadBytes int64) http.HandlerFunc {
	tooLarge := fmt.Sprintf("file exceeds %s MB", strconv.FormatFloat(float64(maxUploadBytes)/(1024*1024), 'f', -1, 64))

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.image.saveImage.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		contentType := r.Header.Get("Content-Type")
		if !strings.Contains(strings.ToLower(contentType), "multipart/form-data") {
			log.Info("upload is not multipart", slog.String("content_type", contentType))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("multipart/form-data is required"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+multipartOverhead)

		if err := r.ParseMultipartForm(maxMemory); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				log.Info("upload body too large", slog.Int64("limit", maxErr.Limit))
				render.Status(r, http.StatusRequestEntityTooLarge)
				render.JSON(w, r, response.Error(tooLarge))
				return
			}

			log.Info("failed to parse multipart form", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid multipart body"))
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		file, header, err := r.FormFile(FieldName)
		if err != nil {
			log.Info("missing photo field", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("missing or invalid 'photo' field"))
			return
		}
		defer func() {
			_ = file.Close()
		}()

		data, err := io.ReadAll(file)
		if err != nil {
			log.Error("failed to read uploaded file", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to upload photo"))
			return
		}

		mimeType := header.Header.Get("Content-Type")

		image, err := imageSaver.SaveImage(r.Context(), data, mimeType)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrInvalidMIME):
				log.Info("rejected upload mime type", slog.String("mime_type", mimeType))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("only image/jpeg or image/png are allowed"))
			case errors.Is(err, storage.ErrEmptyFile):
				log.Info("rejected empty upload")
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("file is empty"))
			case errors.Is(err, storage.ErrMaxSizeExceeded):
				log.Info("rejected oversized upload", slog.Int("size", len(data)))
				render.Status(r, http.StatusRequestEntityTooLarge)
				render.JSON(w, r, response.Error(tooLarge))
			default:
				log.Error("failed to save image", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to upload photo"))
			}
			return
		}

		log.Info("image uploaded", slog.String("image_id", image.ID), slog.Int("size", len(data)))

		event := events.Event{
			Type:    events.TypeUploaded,
			ImageID: image.ID,
			URL:     image.URL,
			At:      time.Now().UTC(),
		}
		publishCtx, cancel := context.WithTimeout(r.Context(), events.PublishTimeout)
		err = publisher.Publish(publishCtx, event)
		cancel()
		if err != nil {
			log.Error("failed to publish upload event", slog.String("image_id", image.ID), sl.Err(err))
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			ID:  image.ID,
			URL: image.URL,
		})
	}
}

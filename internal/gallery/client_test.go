package gallery_test

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/config"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/gallery"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/response"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/models"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testToken = "event-secret"

type fakeAPI struct {
	images       []models.Image
	uploadedMIME string
	uploadedData []byte
	deletedID    string
}

func (f *fakeAPI) handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/images", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, f.images)
	})
	r.Get("/api/images/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "a.png" {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("image not found"))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	})
	r.Post("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Upload-Token") != testToken {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid X-Upload-Token"))
			return
		}
		file, header, err := r.FormFile("photo")
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("missing or invalid 'photo' field"))
			return
		}
		defer file.Close()
		f.uploadedMIME = header.Header.Get("Content-Type")
		f.uploadedData, _ = io.ReadAll(file)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, models.UploadedImage{ID: "1_x.jpg", URL: "/api/images/1_x.jpg"})
	})
	r.Delete("/api/images/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.deletedID = chi.URLParam(r, "id")
		render.JSON(w, r, map[string]any{"ok": true, "id": f.deletedID})
	})

	return r
}

func newClient(t *testing.T, api *fakeAPI, token string) *gallery.Client {
	t.Helper()

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	return gallery.NewClient(srv.URL+"/", token, 5*time.Second)
}

func TestClientListImages(t *testing.T) {
	created := time.Date(2026, 2, 14, 20, 0, 0, 0, time.UTC)
	api := &fakeAPI{images: []models.Image{{ID: "a.png", URL: "/api/images/a.png", CreatedAt: created}}}

	images, err := newClient(t, api, "").ListImages(context.Background())
	require.NoError(t, err)
	require.Equal(t, api.images, images)
}

func TestClientListImagesNullBody(t *testing.T) {
	images, err := newClient(t, &fakeAPI{}, "").ListImages(context.Background())
	require.NoError(t, err)
	require.NotNil(t, images)
	require.Empty(t, images)
}

func TestClientFetchImage(t *testing.T) {
	c := newClient(t, &fakeAPI{}, "")

	file, err := c.FetchImage(context.Background(), "a.png")
	require.NoError(t, err)
	require.Equal(t, "image/png", file.MimeType)
	require.Equal(t, []byte("png-bytes"), file.Body)

	_, err = c.FetchImage(context.Background(), "missing.jpg")
	require.True(t, gallery.IsNotFound(err))

	var apiErr *gallery.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "image not found", apiErr.Message)
}

func TestClientUpload(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(t, api, testToken)

	uploaded, err := c.Upload(context.Background(), "photo.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "1_x.jpg", uploaded.ID)
	require.Equal(t, "image/jpeg", api.uploadedMIME)
	require.Equal(t, []byte("jpeg"), api.uploadedData)
}

func TestClientUploadWrongToken(t *testing.T) {
	_, err := newClient(t, &fakeAPI{}, "nope").Upload(context.Background(), "photo.jpg", []byte("jpeg"), "image/jpeg")

	var apiErr *gallery.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "invalid X-Upload-Token", apiErr.Message)
}

func TestClientRefusesWithoutToken(t *testing.T) {
	for _, token := range []string{"", config.PlaceholderToken} {
		api := &fakeAPI{}
		c := newClient(t, api, token)

		_, err := c.Upload(context.Background(), "photo.jpg", []byte("jpeg"), "image/jpeg")
		require.True(t, errors.Is(err, gallery.ErrTokenNotConfigured))

		err = c.Delete(context.Background(), "a.png")
		require.True(t, errors.Is(err, gallery.ErrTokenNotConfigured))
		require.Empty(t, api.deletedID)
	}
}

func TestClientDelete(t *testing.T) {
	api := &fakeAPI{}

	require.NoError(t, newClient(t, api, testToken).Delete(context.Background(), "a b.png"))
	require.Equal(t, "a b.png", api.deletedID)
}

func TestNewClientFromConfig(t *testing.T) {
	c := gallery.NewClientFromConfig(&config.Client{
		BaseURL:     "https://kisscam.example",
		UploadToken: config.PlaceholderToken,
		Timeout:     time.Second,
	})

	require.Equal(t, "https://kisscam.example/api/images/a.png", c.ImageURL("a.png"))

	err := c.Delete(context.Background(), "a.png")
	require.ErrorIs(t, err, gallery.ErrTokenNotConfigured)
}

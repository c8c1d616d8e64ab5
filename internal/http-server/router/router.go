package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/marcoSSantander0/kisscam-fzdomain/docs"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/events"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/frames"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/handlers/frame/listFrames"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/handlers/image/deleteImage"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/handlers/image/framedImage"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/handlers/image/getImage"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/handlers/image/listImages"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/handlers/image/saveImage"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/middleware/mwlogger"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/middleware/mwmetrics"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/middleware/uploadtoken"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"log/slog"
	"net/http"
)

type ImageStore interface {
	listImages.ImagesLister
	getImage.ImageGetter
	saveImage.ImageSaver
	deleteImage.ImageDeleter
}

type Deps struct {
	Log            *slog.Logger
	Store          ImageStore
	Catalog        *frames.Catalog
	Publisher      events.Publisher
	Registry       *prometheus.Registry
	UploadToken    string
	MaxUploadBytes int64
}

// New builds the HTTP API. Listing and every write are never cached; reads
// of image bytes carry their own cache headers.
func New(deps Deps) http.Handler {
	log := deps.Log

	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwlogger.New(log))
	router.Use(mwmetrics.New(metrics.New(registry)))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", uploadtoken.Header},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Group(func(r chi.Router) {
		r.Use(middleware.NoCache)

		r.Get("/api/images", listImages.New(log, deps.Store))

		r.Group(func(r chi.Router) {
			r.Use(uploadtoken.New(log, deps.UploadToken))

			r.Post("/api/upload", saveImage.New(log, deps.Store, publisher, deps.MaxUploadBytes))
			r.Delete("/api/images/{id}", deleteImage.New(log, deps.Store, publisher))
		})
	})

	router.Get("/api/images/{id}", getImage.New(log, deps.Store))
	router.Get("/api/images/{id}/framed", framedImage.New(log, deps.Store, deps.Catalog))
	router.Get("/api/frames", listFrames.New(log, deps.Catalog))

	router.Handle(listFrames.AssetPrefix+"*", http.StripPrefix(listFrames.AssetPrefix, http.FileServer(http.FS(deps.Catalog.Assets()))))

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return router
}

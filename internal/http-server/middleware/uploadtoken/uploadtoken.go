package uploadtoken

import (
	"crypto/subtle"
	"github.com/go-chi/render"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/response"
	"log/slog"
	"net/http"
)

const Header = "X-Upload-Token"

// New guards operator endpoints with the shared secret. An empty secret is a
// server misconfiguration and rejects every request with 500.
func New(log *slog.Logger, token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(
			slog.String("component", "middleware/uploadtoken"),
		)

		if token == "" {
			log.Warn("upload token is not configured, operator endpoints will fail")
		}

		fn := func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				log.Error("rejecting request, upload token is not configured", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("upload token is not configured on the server"))
				return
			}

			provided := r.Header.Get(Header)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				log.Info("invalid upload token", slog.String("path", r.URL.Path))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid X-Upload-Token"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

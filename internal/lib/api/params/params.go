package params

import (
	"github.com/go-chi/chi/v5"
	"net/http"
	"net/url"
)

// ImageID returns the percent-decoded {id} route parameter. A value that does
// not decode is returned as is; the store rejects it later if it is unsafe.
func ImageID(r *http.Request) string {
	raw := chi.URLParam(r, "id")

	id, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}

	return id
}

package params_test

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/params"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestImageID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "1_abc.jpg", want: "1_abc.jpg"},
		{name: "encoded", raw: "a%20b.png", want: "a b.png"},
		{name: "encoded traversal", raw: "..%2Fsecret.jpg", want: "../secret.jpg"},
		{name: "malformed escape", raw: "bad%zz.jpg", want: "bad%zz.jpg"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/images/x", nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.raw)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			require.Equal(t, tt.want, params.ImageID(req))
		})
	}
}

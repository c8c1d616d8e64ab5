package uploadtoken_test

import (
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/middleware/uploadtoken"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/handlers/slogdiscard"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUploadToken(t *testing.T) {
	tests := []struct {
		name           string
		serverToken    string
		headerToken    string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Valid Token",
			serverToken:    "s3cret",
			headerToken:    "s3cret",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Missing Header",
			serverToken:    "s3cret",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"invalid X-Upload-Token"}`,
		},
		{
			name:           "Wrong Token",
			serverToken:    "s3cret",
			headerToken:    "s3cre",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"invalid X-Upload-Token"}`,
		},
		{
			name:           "Server Token Not Configured",
			headerToken:    "anything",
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"upload token is not configured on the server"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
			if tt.headerToken != "" {
				req.Header.Set(uploadtoken.Header, tt.headerToken)
			}
			rr := httptest.NewRecorder()

			uploadtoken.New(slogdiscard.NewDiscardLogger(), tt.serverToken)(next).ServeHTTP(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)
			require.Equal(t, tt.expectedStatus == http.StatusNoContent, called)
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, rr.Body.String())
			}
		})
	}
}

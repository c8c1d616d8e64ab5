package listImages_test

import (
	"bytes"
	"errors"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/handlers/image/listImages"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/http-server/handlers/image/listImages/mocks"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListImages(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(bytes.NewBuffer(nil), nil))

	created := time.Date(2026, 2, 14, 21, 30, 0, 123000000, time.UTC)

	tests := []struct {
		name           string
		mockImages     []models.Image
		mockErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			mockImages: []models.Image{
				{ID: "2_b.png", URL: "/api/images/2_b.png", CreatedAt: created.Add(time.Second)},
				{ID: "1_a.jpg", URL: "/api/images/1_a.jpg", CreatedAt: created},
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{"id":"2_b.png","url":"/api/images/2_b.png","createdAt":"2026-02-14T21:30:01.123Z"},` +
				`{"id":"1_a.jpg","url":"/api/images/1_a.jpg","createdAt":"2026-02-14T21:30:00.123Z"}]`,
		},
		{
			name:           "Empty",
			mockImages:     nil,
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "Storage Failure",
			mockErr:        errors.New("permission denied"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to list images"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imagesListerMock := mocks.NewImagesLister(t)
			imagesListerMock.On("ListImages", mock.Anything).Return(tt.mockImages, tt.mockErr).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
			rr := httptest.NewRecorder()

			handler := listImages.New(log, imagesListerMock)
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)
			require.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

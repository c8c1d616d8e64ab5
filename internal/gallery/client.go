package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/config"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/api/response"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/models"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/storage"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	uploadTokenHeader = "X-Upload-Token"
	photoField        = "photo"
)

var ErrTokenNotConfigured = errors.New("upload token is not configured")

// APIError is a non-2xx answer of the server. Message carries the server's
// error text when the body was the usual JSON envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("kisscam api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("kisscam api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientFromConfig builds a client for the configured deployment.
func NewClientFromConfig(cfg *config.Client) *Client {
	c := NewClient(cfg.BaseURL, "", cfg.Timeout)
	if cfg.TokenConfigured() {
		c.token = cfg.UploadToken
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ImageURL is the absolute address of the image bytes.
func (c *Client) ImageURL(id string) string {
	return c.baseURL + storage.ImageURL(id)
}

func (c *Client) tokenConfigured() bool {
	return c.token != "" && c.token != config.PlaceholderToken
}

func (c *Client) ListImages(ctx context.Context) ([]models.Image, error) {
	const op = "gallery.Client.ListImages"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/images", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	var images []models.Image
	if err = c.doJSON(req, &images); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if images == nil {
		images = []models.Image{}
	}

	return images, nil
}

// FetchImage downloads the original bytes of a stored photo.
func (c *Client) FetchImage(ctx context.Context, id string) (*models.ImageFile, error) {
	const op = "gallery.Client.FetchImage"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err = checkStatus(resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if fromName, ok := storage.MimeTypeFromName(id); ok && mimeType == "" {
		mimeType = fromName
	}

	return &models.ImageFile{
		Body:     body,
		MimeType: mimeType,
	}, nil
}

// Upload sends one photo as the multipart field "photo".
func (c *Client) Upload(ctx context.Context, fileName string, data []byte, mimeType string) (*models.UploadedImage, error) {
	const op = "gallery.Client.Upload"

	if !c.tokenConfigured() {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenNotConfigured)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, photoField, fileName))
	h.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = part.Write(data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(uploadTokenHeader, c.token)

	var uploaded models.UploadedImage
	if err = c.doJSON(req, &uploaded); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &uploaded, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	const op = "gallery.Client.Delete"

	if !c.tokenConfigured() {
		return fmt.Errorf("%s: %w", op, ErrTokenNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.ImageURL(id), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set(uploadTokenHeader, c.token)

	if err = c.doJSON(req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err = checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope response.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&envelope); err == nil {
		apiErr.Message = envelope.Error
	}

	return apiErr
}

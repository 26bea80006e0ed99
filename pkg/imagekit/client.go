package imagekit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tokopintar/catalog-backend/pkg/config"
	"github.com/tokopintar/catalog-backend/pkg/logger"
)

const pingTimeout = 5 * time.Second

// UploadResult captures the hosted file identity returned by the media API.
type UploadResult struct {
	FileID   string `json:"fileId"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	FilePath string `json:"filePath"`
}

// Deleter removes hosted files, used by orphan reconciliation.
type Deleter interface {
	Delete(ctx context.Context, fileID string) error
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Client talks to the ImageKit media API over plain HTTP.
type Client struct {
	httpClient *http.Client
	privateKey string
	uploadURL  string
	apiBaseURL string
	folder     string
}

// NewClient validates the configuration and returns a ready client. It does
// not call out; use Ping to verify credentials.
func NewClient(cfg config.ImageKitConfig, logg *logger.Logger) (*Client, error) {
	if cfg.PrivateKey == "" {
		return nil, errors.New("imagekit private key is required")
	}
	if cfg.UploadURL == "" || cfg.APIBaseURL == "" {
		return nil, errors.New("imagekit endpoints are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		privateKey: cfg.PrivateKey,
		uploadURL:  cfg.UploadURL,
		apiBaseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		folder:     cfg.Folder,
	}

	if logg != nil {
		ctx := logg.WithField(context.Background(), "folder", cfg.Folder)
		logg.Info(ctx, "imagekit client initialized")
	}

	return client, nil
}

// Upload pushes raw image bytes and returns the hosted file identity.
func (c *Client) Upload(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	if fileName == "" {
		return nil, errors.New("file name is required")
	}
	if len(data) == 0 {
		return nil, errors.New("file data is empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	fields := map[string]string{
		"fileName":          fileName,
		"useUniqueFileName": "true",
	}
	if c.folder != "" {
		fields["folder"] = c.folder
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("building multipart body: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading %q: %w", fileName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apiError("upload", resp)
	}

	var result UploadResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	if result.FileID == "" || result.URL == "" {
		return nil, errors.New("upload response missing file identity")
	}
	return &result, nil
}

// Delete removes a hosted file by its file ID.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return errors.New("file id is required")
	}

	endpoint := fmt.Sprintf("%s/files/%s", c.apiBaseURL, url.PathEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deleting %q: %w", fileID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		// A missing file means the delete already happened.
		return nil
	}
	return apiError("delete", resp)
}

// Ping lists a single file to verify the credentials and connectivity.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/files?limit=1", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return apiError("ping", resp)
	}
	return nil
}

func apiError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("imagekit %s failed: %s: %s", op, resp.Status, payload.Message)
	}
	if len(b) > 0 {
		return fmt.Errorf("imagekit %s failed: %s: %s", op, resp.Status, strings.TrimSpace(string(b)))
	}
	return fmt.Errorf("imagekit %s failed: %s", op, resp.Status)
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ImgBBStorage forwards images to the ImgBB upload API.
type ImgBBStorage struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      *zap.Logger
}

type imgbbResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
}

// NewImgBBStorage creates an ImgBB client. A nil httpClient gets a 30s timeout default.
func NewImgBBStorage(endpoint, apiKey string, httpClient *http.Client, log *zap.Logger) *ImgBBStorage {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ImgBBStorage{endpoint: endpoint, apiKey: apiKey, client: httpClient, log: log}
}

// SaveImage posts the base64 encoded image as a form. ImgBB names the object itself,
// so objectKey is only used for logging.
func (s *ImgBBStorage) SaveImage(ctx context.Context, objectKey, _ string, data []byte) (string, error) {
	form := url.Values{}
	form.Set("key", s.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build imgbb request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imgbb upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read imgbb response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("imgbb rejected upload",
			zap.String("object", objectKey),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return "", fmt.Errorf("imgbb upload: status %d", resp.StatusCode)
	}

	var parsed imgbbResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode imgbb response: %w", err)
	}
	if parsed.Data.URL == "" {
		return "", fmt.Errorf("imgbb upload: response without url")
	}

	s.log.Info("image uploaded", zap.String("object", objectKey), zap.String("url", parsed.Data.URL))
	return parsed.Data.URL, nil
}

package storage

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/config"
)

func TestImgBBStorage_SaveImage(t *testing.T) {
	payload := []byte("\x89PNG\r\n\x1a\nfake")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostForm.Get("key"))
		assert.Equal(t, base64.StdEncoding.EncodeToString(payload), r.PostForm.Get("image"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/abc/photo.png"}}`))
	}))
	defer srv.Close()

	store := NewImgBBStorage(srv.URL, "secret", srv.Client(), nil)
	url, err := store.SaveImage(context.Background(), "photo.png", "image/png", payload)
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/abc/photo.png", url)
}

func TestImgBBStorage_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "host error", status: http.StatusBadRequest, body: `{"error":{"message":"Invalid API v1 key."}}`},
		{name: "missing url", status: http.StatusOK, body: `{"success":true,"data":{}}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			store := NewImgBBStorage(srv.URL, "secret", srv.Client(), nil)
			_, err := store.SaveImage(context.Background(), "x.png", "image/png", []byte("x"))
			assert.Error(t, err)
		})
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	store, err := New(config.ImageStoreConfig{Driver: "imgbb", ImgBBEndpoint: "http://localhost"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ImgBBStorage{}, store)

	store, err = New(config.ImageStoreConfig{
		Driver:         "minio",
		MinioEndpoint:  "localhost:9000",
		MinioAccessKey: "minioadmin",
		MinioSecretKey: "minioadmin",
		MinioBucket:    "listing-images",
	}, nil)
	require.NoError(t, err)
	require.IsType(t, &MinioStorage{}, store)
	assert.Equal(t, "http://localhost:9000/listing-images/a.png", store.(*MinioStorage).ObjectURL("a.png"))

	_, err = New(config.ImageStoreConfig{Driver: "ftp"}, nil)
	assert.Error(t, err)
}

package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"marketplace/internal/model"
)

// UserAPI covers public profiles and image upload.
type UserAPI struct {
	c *Client
}

// Get returns a public profile.
func (u *UserAPI) Get(ctx context.Context, id uint) (*model.User, error) {
	var out model.User
	if err := u.c.doJSON(ctx, http.MethodGet, idPath("/users/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every user.
func (u *UserAPI) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := u.c.doJSON(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadImage sends data as the multipart field "image" and returns the
// hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/upload-image", nil, &buf, w.FormDataContentType(), &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

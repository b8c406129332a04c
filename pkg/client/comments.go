package client

import (
	"context"
	"net/http"

	"marketplace/internal/model"
)

// CommentAPI covers listing comments.
type CommentAPI struct {
	c *Client
}

type commentEnvelope struct {
	Message string         `json:"message"`
	Comment *model.Comment `json:"comment"`
}

// List returns the comments on a listing, newest first.
func (a *CommentAPI) List(ctx context.Context, listingID uint) ([]model.Comment, error) {
	var out []model.Comment
	if err := a.c.doJSON(ctx, http.MethodGet, idPath("/listings/%d/comments", listingID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a comment as the session user.
func (a *CommentAPI) Create(ctx context.Context, listingID uint, body string) (*model.Comment, error) {
	in := map[string]string{"body": body}
	var out commentEnvelope
	if err := a.c.doJSON(ctx, http.MethodPost, idPath("/listings/%d/comments", listingID), nil, in, &out); err != nil {
		return nil, err
	}
	return out.Comment, nil
}

// Delete removes a comment written by the session user.
func (a *CommentAPI) Delete(ctx context.Context, id uint) error {
	return a.c.doJSON(ctx, http.MethodDelete, idPath("/comments/%d", id), nil, nil, nil)
}

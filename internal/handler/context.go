package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"marketplace/internal/authz"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/middleware"
	"marketplace/internal/model"
)

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListingEnvelope wraps a listing returned by a mutation.
type ListingEnvelope struct {
	Message string         `json:"message"`
	Listing *model.Listing `json:"listing"`
}

// CommentEnvelope wraps a newly created comment.
type CommentEnvelope struct {
	Message string         `json:"message"`
	Comment *model.Comment `json:"comment"`
}

func currentIdentity(c echo.Context) (authz.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return authz.Identity{}, apperrors.ErrUnauthenticated
	}
	return identity, nil
}

// parseID reads a positive numeric path parameter. Anything else addresses
// nothing, so notFound is returned.
func parseID(c echo.Context, name string, notFound error) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return uint(id), nil
}

// nonNil keeps empty collections rendering as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	return c.Validate(req)
}

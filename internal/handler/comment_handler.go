package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest represents a new comment.
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

// List godoc
// @Summary Comments on a listing
// @Description Newest first, each with its author.
// @Tags comments
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {array} model.Comment
// @Failure 404 {object} errors.ErrorResponse
// @Router /listings/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	listingID, err := parseID(c, "id", apperrors.ErrListingNotFound)
	if err != nil {
		return err
	}

	comments, err := h.commentService.ListByListing(c.Request().Context(), listingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(comments))
}

// Create godoc
// @Summary Comment on a listing
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} CommentEnvelope
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /listings/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	listingID, err := parseID(c, "id", apperrors.ErrListingNotFound)
	if err != nil {
		return err
	}

	var req CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.Create(c.Request().Context(), identity, listingID, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CommentEnvelope{Message: "Comment added successfully", Comment: comment})
}

// Delete godoc
// @Summary Delete comment
// @Description Author only; the listing owner cannot remove other users' comments.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	commentID, err := parseID(c, "id", apperrors.ErrCommentNotFound)
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Request().Context(), identity, commentID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Comment deleted successfully"})
}

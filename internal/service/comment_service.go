package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"marketplace/internal/authz"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// CommentService handles comments on listings.
type CommentService interface {
	Create(ctx context.Context, identity authz.Identity, listingID uint, body string) (*model.Comment, error)
	ListByListing(ctx context.Context, listingID uint) ([]model.Comment, error)
	Delete(ctx context.Context, identity authz.Identity, commentID uint) error
}

type commentService struct {
	comments repository.CommentRepository
	listings repository.ListingRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, listings repository.ListingRepository) CommentService {
	return &commentService{comments: comments, listings: listings}
}

func (s *commentService) Create(ctx context.Context, identity authz.Identity, listingID uint, body string) (*model.Comment, error) {
	if identity.UserID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("body", "The body field is required.")
	}
	if len([]rune(body)) > model.CommentBodyMaxLength {
		return nil, apperrors.NewValidationError("body", fmt.Sprintf("The body field must not be greater than %d characters.", model.CommentBodyMaxLength))
	}

	exists, err := s.listings.Exists(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("check listing: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrListingNotFound
	}

	comment := &model.Comment{
		ListingID: listingID,
		UserID:    identity.UserID,
		Body:      body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			// listing deleted between the check and the insert
			return nil, apperrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) ListByListing(ctx context.Context, listingID uint) ([]model.Comment, error) {
	return s.comments.ListByListing(ctx, listingID)
}

func (s *commentService) Delete(ctx context.Context, identity authz.Identity, commentID uint) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("find comment: %w", err)
	}

	if err := authz.Authorize(identity, comment, apperrors.ErrCommentNotFound); err != nil {
		return err
	}

	if err := s.comments.DeleteOwned(ctx, comment.ID, identity.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

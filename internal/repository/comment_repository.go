package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace/internal/model"
)

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	ListByListing(ctx context.Context, listingID uint) ([]model.Comment, error)
	// DeleteOwned removes the comment only if authorID wrote it.
	// It returns gorm.ErrRecordNotFound when no such comment exists.
	DeleteOwned(ctx context.Context, id, authorID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create creates a new comment and attaches its author.
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return err
		}
		var author model.User
		if err := tx.First(&author, comment.UserID).Error; err != nil {
			return err
		}
		comment.User = &author
		return nil
	})
}

// FindByID finds a comment by ID.
func (r *commentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByListing returns the comments of a listing, newest first, with authors attached.
func (r *commentRepository) ListByListing(ctx context.Context, listingID uint) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("listing_id = ?", listingID).
		Order(newestFirst).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteOwned deletes with the author condition in the statement itself.
func (r *commentRepository) DeleteOwned(ctx context.Context, id, authorID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, authorID).Delete(&model.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

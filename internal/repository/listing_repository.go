package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace/internal/model"
)

// newestFirst orders by creation time with id as a tie breaker.
const newestFirst = "created_at DESC, id DESC"

// ListingRepository defines listing persistence operations.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id uint) (*model.Listing, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]model.Listing, error)
	ListByCategory(ctx context.Context, q model.CategoryQuery) ([]model.Listing, error)
	ListByPriceRange(ctx context.Context, r model.PriceRange) ([]model.Listing, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Listing, error)
	// UpdateOwned applies changes to the listing only if ownerID owns it.
	// It returns gorm.ErrRecordNotFound when no such owned listing exists.
	// Callers run it inside WithTransaction.
	UpdateOwned(ctx context.Context, id, ownerID uint, changes model.ListingChanges) error
	// DeleteOwned removes the listing and all of its comments only if ownerID owns it.
	// It returns gorm.ErrRecordNotFound when no such owned listing exists.
	// Callers run it inside WithTransaction.
	DeleteOwned(ctx context.Context, id, ownerID uint) error
	// NormalizeConditions sets an empty or missing condition to "Used".
	NormalizeConditions(ctx context.Context) (int64, error)
	// WithTransaction runs fn against a repository bound to one transaction.
	// The transaction rolls back when fn returns an error.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ListingRepository) error) error
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User")
}

// Create creates a new listing. Associations are never upserted.
func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(listing).Error
}

// FindByID finds a listing by ID with its owner attached.
func (r *listingRepository) FindByID(ctx context.Context, id uint) (*model.Listing, error) {
	var listing model.Listing
	if err := r.withOwner(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// Exists reports whether a listing with id is stored.
func (r *listingRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Listing{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns every listing, newest first.
func (r *listingRepository) List(ctx context.Context) ([]model.Listing, error) {
	var listings []model.Listing
	if err := r.withOwner(ctx).Order(newestFirst).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListByCategory returns listings of one category, newest first.
func (r *listingRepository) ListByCategory(ctx context.Context, q model.CategoryQuery) ([]model.Listing, error) {
	tx := r.withOwner(ctx).Where("category = ?", q.Category)
	if q.ExcludeID != nil {
		tx = tx.Where("id <> ?", *q.ExcludeID)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var listings []model.Listing
	if err := tx.Order(newestFirst).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListByPriceRange returns listings priced inside the inclusive range, newest first.
func (r *listingRepository) ListByPriceRange(ctx context.Context, pr model.PriceRange) ([]model.Listing, error) {
	tx := r.withOwner(ctx).Where("price >= ?", pr.Min)
	if pr.Max != nil {
		tx = tx.Where("price <= ?", *pr.Max)
	}

	var listings []model.Listing
	if err := tx.Order(newestFirst).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListByOwner returns the listings of one user, newest first.
func (r *listingRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Listing, error) {
	var listings []model.Listing
	if err := r.withOwner(ctx).Where("user_id = ?", ownerID).Order(newestFirst).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// lockOwned locks the listing row, scoped to its owner, for the rest of the transaction.
func lockOwned(ctx context.Context, tx *gorm.DB, id, ownerID uint) error {
	var locked model.Listing
	return tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&locked).Error
}

// UpdateOwned locks the owned row, then writes the supplied columns.
// Run it inside WithTransaction so the lock covers the write.
func (r *listingRepository) UpdateOwned(ctx context.Context, id, ownerID uint, changes model.ListingChanges) error {
	tx := r.db.WithContext(ctx)
	if err := lockOwned(ctx, tx, id, ownerID); err != nil {
		return err
	}
	if changes.Empty() {
		return nil
	}
	return tx.Model(&model.Listing{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(changes.Columns()).Error
}

// DeleteOwned removes comments first, then the listing. Run it inside
// WithTransaction so a failed listing delete keeps the comments.
func (r *listingRepository) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	tx := r.db.WithContext(ctx)
	if err := lockOwned(ctx, tx, id, ownerID); err != nil {
		return err
	}
	if err := tx.Where("listing_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&model.Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NormalizeConditions backfills listings created before condition was mandatory.
func (r *listingRepository) NormalizeConditions(ctx context.Context) (int64, error) {
	column := clause.Column{Name: "condition"}
	res := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where(clause.Or(
			clause.Eq{Column: column, Value: nil},
			clause.Eq{Column: column, Value: ""},
		)).
		Update("condition", model.ConditionUsed)
	return res.RowsAffected, res.Error
}

func (r *listingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ListingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &listingRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

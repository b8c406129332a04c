package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketplace/internal/authz"
	"marketplace/internal/cache"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/repository"
)

const listingCacheTTL = 5 * time.Minute

// timeNow is swapped in tests.
var timeNow = time.Now

// ListingInput is a validated create request.
type ListingInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Images      []string
	Category    model.Category
	Condition   model.Condition
	Location    *string
}

// ListingService handles listing lifecycle and queries.
type ListingService interface {
	Create(ctx context.Context, identity authz.Identity, input ListingInput) (*model.Listing, error)
	Get(ctx context.Context, id uint) (*model.Listing, error)
	List(ctx context.Context) ([]model.Listing, error)
	ListByCategory(ctx context.Context, q model.CategoryQuery) ([]model.Listing, error)
	ListByPriceRange(ctx context.Context, r model.PriceRange) ([]model.Listing, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Listing, error)
	// Update applies changes to listing, which must already be resolved.
	Update(ctx context.Context, identity authz.Identity, listing *model.Listing, changes model.ListingChanges) (*model.Listing, error)
	// Delete removes listing and its comments.
	Delete(ctx context.Context, identity authz.Identity, listing *model.Listing) error
}

type listingService struct {
	repo  repository.ListingRepository
	cache *cache.Client
}

// NewListingService creates a new listing service.
func NewListingService(repo repository.ListingRepository, cache *cache.Client) ListingService {
	return &listingService{repo: repo, cache: cache}
}

func (s *listingService) cacheKey(id uint) string {
	return fmt.Sprintf("listing:%d", id)
}

func (s *listingService) Create(ctx context.Context, identity authz.Identity, input ListingInput) (*model.Listing, error) {
	if identity.UserID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}

	listing := &model.Listing{
		OwnerID:     identity.UserID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Images:      model.StringList(input.Images),
		Category:    input.Category,
		Condition:   input.Condition,
		Location:    input.Location,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	return s.load(ctx, listing.ID)
}

func (s *listingService) Get(ctx context.Context, id uint) (*model.Listing, error) {
	var cached model.Listing
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	listing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, s.cacheKey(id), listing, listingCacheTTL)
	return listing, nil
}

func (s *listingService) load(ctx context.Context, id uint) (*model.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return listing, nil
}

func (s *listingService) List(ctx context.Context) ([]model.Listing, error) {
	return s.repo.List(ctx)
}

func (s *listingService) ListByCategory(ctx context.Context, q model.CategoryQuery) ([]model.Listing, error) {
	return s.repo.ListByCategory(ctx, q)
}

func (s *listingService) ListByPriceRange(ctx context.Context, r model.PriceRange) ([]model.Listing, error) {
	if r.Max != nil && r.Max.LessThan(r.Min) {
		return []model.Listing{}, nil
	}
	return s.repo.ListByPriceRange(ctx, r)
}

func (s *listingService) ListByOwner(ctx context.Context, ownerID uint) ([]model.Listing, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *listingService) Update(ctx context.Context, identity authz.Identity, listing *model.Listing, changes model.ListingChanges) (*model.Listing, error) {
	if err := authz.Authorize(identity, listing, apperrors.ErrListingNotFound); err != nil {
		return nil, err
	}

	var updated *model.Listing
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.ListingRepository) error {
		if err := repo.UpdateOwned(ctx, listing.ID, identity.UserID, changes); err != nil {
			return err
		}
		found, err := repo.FindByID(ctx, listing.ID)
		if err != nil {
			return err
		}
		updated = found
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, fmt.Errorf("update listing: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(listing.ID))

	return updated, nil
}

func (s *listingService) Delete(ctx context.Context, identity authz.Identity, listing *model.Listing) error {
	if err := authz.Authorize(identity, listing, apperrors.ErrListingNotFound); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.ListingRepository) error {
		return repo.DeleteOwned(ctx, listing.ID, identity.UserID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrListingNotFound
		}
		return fmt.Errorf("delete listing: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(listing.ID))
	return nil
}

package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"marketplace/internal/authz"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
)

func ownedListing(id, owner uint) *model.Listing {
	return &model.Listing{
		ID:        id,
		OwnerID:   owner,
		Title:     "Road bike",
		Price:     decimal.NewFromInt(250),
		Category:  model.CategorySportsRecreation,
		Condition: model.ConditionGood,
		User:      &model.User{ID: owner, Name: "Owner"},
	}
}

func TestListingService_Create(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *model.Listing) bool {
		return l.OwnerID == 7 && l.Title == "Road bike" && len(l.Images) == 1
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Listing).ID = 42
	}).Return(nil)
	repo.On("FindByID", mock.Anything, uint(42)).Return(ownedListing(42, 7), nil)

	service := NewListingService(repo, nil)
	listing, err := service.Create(context.Background(), authz.Identity{UserID: 7}, ListingInput{
		Title:       "Road bike",
		Description: "Carbon frame",
		Price:       decimal.NewFromInt(250),
		Images:      []string{"https://img.example/bike.jpg"},
		Category:    model.CategorySportsRecreation,
		Condition:   model.ConditionGood,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), listing.OwnerID)
	require.NotNil(t, listing.User)
	repo.AssertExpectations(t)
}

func TestListingService_CreateRequiresIdentity(t *testing.T) {
	service := NewListingService(new(MockListingRepository), nil)
	_, err := service.Create(context.Background(), authz.Identity{}, ListingInput{Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestListingService_Get(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("FindByID", mock.Anything, uint(1)).Return(ownedListing(1, 7), nil)
	repo.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
	service := NewListingService(repo, nil)

	listing, err := service.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Road bike", listing.Title)

	_, err = service.Get(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
}

func TestListingService_Update(t *testing.T) {
	title := "Gravel bike"
	changes := model.ListingChanges{Title: &title}

	tests := []struct {
		name          string
		identity      authz.Identity
		listing       *model.Listing
		setupMock     func(*MockListingRepository)
		expectedError error
		forbidden     bool
	}{
		{
			name:     "owner updates",
			identity: authz.Identity{UserID: 7},
			listing:  ownedListing(1, 7),
			setupMock: func(m *MockListingRepository) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("UpdateOwned", mock.Anything, uint(1), uint(7), changes).Return(nil)
				updated := ownedListing(1, 7)
				updated.Title = title
				m.On("FindByID", mock.Anything, uint(1)).Return(updated, nil)
			},
		},
		{
			name:      "non-owner is forbidden",
			identity:  authz.Identity{UserID: 9},
			listing:   ownedListing(1, 7),
			setupMock: func(m *MockListingRepository) {},
			forbidden: true,
		},
		{
			name:          "missing listing",
			identity:      authz.Identity{UserID: 7},
			listing:       nil,
			setupMock:     func(m *MockListingRepository) {},
			expectedError: apperrors.ErrListingNotFound,
		},
		{
			name:     "ownership lost before the write",
			identity: authz.Identity{UserID: 7},
			listing:  ownedListing(1, 7),
			setupMock: func(m *MockListingRepository) {
				m.On("WithTransaction", mock.Anything).Return(nil)
				m.On("UpdateOwned", mock.Anything, uint(1), uint(7), changes).Return(gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrListingNotFound,
		},
		{
			name:     "transaction cannot begin",
			identity: authz.Identity{UserID: 7},
			listing:  ownedListing(1, 7),
			setupMock: func(m *MockListingRepository) {
				m.On("WithTransaction", mock.Anything).Return(gorm.ErrInvalidTransaction)
			},
			expectedError: gorm.ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockListingRepository)
			tt.setupMock(repo)
			service := NewListingService(repo, nil)

			updated, err := service.Update(context.Background(), tt.identity, tt.listing, changes)

			switch {
			case tt.forbidden:
				var forbidden *apperrors.ForbiddenError
				require.ErrorAs(t, err, &forbidden)
				assert.Equal(t, "Unauthorized. You do not own this listing.", err.Error())
				repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
				repo.AssertNotCalled(t, "UpdateOwned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			default:
				require.NoError(t, err)
				assert.Equal(t, title, updated.Title)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestListingService_Delete(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("WithTransaction", mock.Anything).Return(nil)
	repo.On("DeleteOwned", mock.Anything, uint(1), uint(7)).Return(nil)
	repo.On("DeleteOwned", mock.Anything, uint(2), uint(7)).Return(gorm.ErrRecordNotFound)
	service := NewListingService(repo, nil)

	err := service.Delete(context.Background(), authz.Identity{UserID: 9}, ownedListing(1, 7))
	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
	repo.AssertNotCalled(t, "WithTransaction", mock.Anything)

	require.NoError(t, service.Delete(context.Background(), authz.Identity{UserID: 7}, ownedListing(1, 7)))
	repo.AssertNumberOfCalls(t, "WithTransaction", 1)
	repo.AssertNumberOfCalls(t, "DeleteOwned", 1)

	err = service.Delete(context.Background(), authz.Identity{UserID: 7}, ownedListing(2, 7))
	assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
	repo.AssertNumberOfCalls(t, "WithTransaction", 2)
}

func TestListingService_PriceRange(t *testing.T) {
	repo := new(MockListingRepository)
	service := NewListingService(repo, nil)

	low, high := decimal.NewFromInt(20), decimal.NewFromInt(10)
	got, err := service.ListByPriceRange(context.Background(), model.PriceRange{Min: low, Max: &high})
	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertNotCalled(t, "ListByPriceRange", mock.Anything, mock.Anything)

	open := model.PriceRange{Min: decimal.NewFromInt(10)}
	repo.On("ListByPriceRange", mock.Anything, open).Return([]model.Listing{*ownedListing(1, 7)}, nil)
	got, err = service.ListByPriceRange(context.Background(), open)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

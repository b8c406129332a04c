package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"marketplace/internal/auth"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		nameField     string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:      "successful registration",
			email:     "Test@Example.com ",
			password:  "password123",
			nameField: "Test User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:      "user already exists",
			email:     "existing@example.com",
			password:  "password123",
			nameField: "Existing User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:      "unique index race",
			email:     "race@example.com",
			password:  "password123",
			nameField: "Racer",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			mockTokenStore := new(MockTokenStore)

			service := NewAuthService(mockRepo, jwtService, mockTokenStore)
			user, err := service.Register(context.Background(), tt.nameField, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, "test@example.com", user.Email)
				assert.Equal(t, tt.nameField, user.Name)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: 7, Email: "test@example.com", PasswordHash: string(hashedPassword)}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), uint(7), "test@example.com", auth.DefaultRefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore)

			tokens, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, tokens)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, tokens)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
				assert.Equal(t, int64(3600), tokens.ExpiresIn)
				assert.Equal(t, tt.email, user.Email)

				claims, err := jwtService.ValidateAccessToken(tokens.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, uint(7), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "test@example.com")
	require.NoError(t, err)
	accessToken, err := jwtService.GenerateAccessToken(7, "test@example.com")
	require.NoError(t, err)

	t.Run("stored refresh token issues a new access token", func(t *testing.T) {
		store := new(MockTokenStore)
		store.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(7), "test@example.com", nil)
		service := NewAuthService(new(MockUserRepository), jwtService, store)

		tokens, err := service.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)
		assert.Equal(t, refreshToken, tokens.RefreshToken)
		_, err = jwtService.ValidateAccessToken(tokens.AccessToken)
		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		store := new(MockTokenStore)
		store.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", assert.AnError)
		service := NewAuthService(new(MockUserRepository), jwtService, store)

		_, err := service.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))

		_, err := service.Refresh(context.Background(), accessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_LogoutAndAuthenticate(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(7, "test@example.com")
	require.NoError(t, err)
	claims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	refreshID, refreshToken, err := jwtService.GenerateRefreshToken(7, "test@example.com")
	require.NoError(t, err)

	store := new(MockTokenStore)
	store.On("IsAccessTokenBlacklisted", mock.Anything, claims.ID).Return(false, nil).Once()
	store.On("BlacklistAccessToken", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 59*time.Minute && ttl <= time.Hour
	})).Return(nil)
	store.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)
	store.On("IsAccessTokenBlacklisted", mock.Anything, claims.ID).Return(true, nil)

	service := NewAuthService(new(MockUserRepository), jwtService, store)
	ctx := context.Background()

	got, err := service.Authenticate(ctx, accessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)

	require.NoError(t, service.Logout(ctx, claims, refreshToken))

	_, err = service.Authenticate(ctx, accessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	store.AssertExpectations(t)
}

func TestAuthService_LogoutRejectsForeignRefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(7, "a@example.com")
	require.NoError(t, err)
	claims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	_, foreign, err := jwtService.GenerateRefreshToken(9, "b@example.com")
	require.NoError(t, err)

	store := new(MockTokenStore)
	store.On("BlacklistAccessToken", mock.Anything, claims.ID, mock.Anything).Return(nil)
	service := NewAuthService(new(MockUserRepository), jwtService, store)

	err = service.Logout(context.Background(), claims, foreign)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	store.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
}

func TestAuthService_Me(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Name: "Ada"}, nil)
	repo.On("FindByID", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)
	service := NewAuthService(repo, auth.NewJWTService("test-secret"), new(MockTokenStore))

	user, err := service.Me(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	_, err = service.Me(context.Background(), 8)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

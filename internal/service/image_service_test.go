package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestImageService_Upload(t *testing.T) {
	store := new(MockImageStore)
	store.On("SaveImage", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, ".png")
	}), "image/png", pngHeader).Return("https://i.ibb.co/x/photo.png", nil)

	service := NewImageService(store, nil)
	url, err := service.Upload(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/x/photo.png", url)
	store.AssertExpectations(t)
}

func TestImageService_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not an image", data: []byte("just some text")},
		{name: "too large", data: append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, MaxImageSize)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockImageStore)
			_, err := NewImageService(store, nil).Upload(context.Background(), tt.data)

			var invalid *apperrors.ValidationError
			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, invalid.Fields, "image")
			store.AssertNotCalled(t, "SaveImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestImageService_StoreFailure(t *testing.T) {
	store := new(MockImageStore)
	store.On("SaveImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	_, err := NewImageService(store, nil).Upload(context.Background(), pngHeader)
	assert.ErrorIs(t, err, apperrors.ErrImageUploadFailed)
}

func TestUserService_GetUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Name: "Ada"}, nil)
	repo.On("FindByID", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)
	service := NewUserService(repo, nil)

	user, err := service.GetUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	_, err = service.GetUser(context.Background(), 8)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

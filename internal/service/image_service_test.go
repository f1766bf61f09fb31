package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"pixadmin/internal/errors"
	"pixadmin/internal/model"
	"pixadmin/internal/repository"
)

// MockImageRepository is a mock implementation of ImageRepository.
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Image, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *MockImageRepository) List(ctx context.Context, f repository.ImageFilter) ([]model.Image, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Image), args.Get(1).(int64), args.Error(2)
}

func (m *MockImageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Image, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Image), args.Error(1)
}

func (m *MockImageRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Image, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Image), args.Error(1)
}

func (m *MockImageRepository) Save(ctx context.Context, image *model.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) Create(ctx context.Context, image *model.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) UpdateGallery(ctx context.Context, id uuid.UUID, likes int, category string) (int64, error) {
	args := m.Called(ctx, id, likes, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImageRepository) CountTotal(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImageRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImageRepository) CountDistinctUsersBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImageRepository) Prompts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestImageService_AddToGallery(t *testing.T) {
	imageID := uuid.New()

	tests := []struct {
		name          string
		category      string
		setupMock     func(*MockImageRepository)
		expectedError error
	}{
		{
			name:     "flags image and sets category",
			category: "portraits",
			setupMock: func(m *MockImageRepository) {
				m.On("FindByID", mock.Anything, imageID).
					Return(&model.Image{ID: imageID, Category: "old"}, nil)
				m.On("Save", mock.Anything, mock.MatchedBy(func(img *model.Image) bool {
					return img.SharedGallery && img.Category == "portraits"
				})).Return(nil)
			},
		},
		{
			name:     "empty category keeps previous one",
			category: "",
			setupMock: func(m *MockImageRepository) {
				m.On("FindByID", mock.Anything, imageID).
					Return(&model.Image{ID: imageID, Category: "old"}, nil)
				m.On("Save", mock.Anything, mock.MatchedBy(func(img *model.Image) bool {
					return img.SharedGallery && img.Category == "old"
				})).Return(nil)
			},
		},
		{
			name: "missing image",
			setupMock: func(m *MockImageRepository) {
				m.On("FindByID", mock.Anything, imageID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrImageNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockImageRepository)
			tt.setupMock(mockRepo)

			service := NewImageService(mockRepo)
			err := service.AddToGallery(context.Background(), imageID, tt.category)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestImageService_RemoveFromGallery(t *testing.T) {
	imageID := uuid.New()

	mockRepo := new(MockImageRepository)
	mockRepo.On("FindByID", mock.Anything, imageID).
		Return(&model.Image{ID: imageID, SharedGallery: true, Category: "portraits", GalleryImageLikes: 7}, nil)
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(img *model.Image) bool {
		// The flag is cleared; category and likes survive removal.
		return !img.SharedGallery && img.Category == "portraits" && img.GalleryImageLikes == 7
	})).Return(nil)

	service := NewImageService(mockRepo)
	assert.NoError(t, service.RemoveFromGallery(context.Background(), imageID))
	mockRepo.AssertExpectations(t)
}

func TestImageService_UpdateGalleryData(t *testing.T) {
	imageID := uuid.New()

	t.Run("patches likes and category", func(t *testing.T) {
		mockRepo := new(MockImageRepository)
		mockRepo.On("FindByID", mock.Anything, imageID).
			Return(&model.Image{ID: imageID}, nil)
		mockRepo.On("UpdateGallery", mock.Anything, imageID, 42, "landscapes").
			Return(int64(1), nil)

		service := NewImageService(mockRepo)
		assert.NoError(t, service.UpdateGalleryData(context.Background(), imageID, 42, "landscapes"))
		mockRepo.AssertExpectations(t)
	})

	// An update writing values identical to the stored row reports zero
	// affected rows; that must not surface as a missing image.
	t.Run("identical values still succeed", func(t *testing.T) {
		mockRepo := new(MockImageRepository)
		mockRepo.On("FindByID", mock.Anything, imageID).
			Return(&model.Image{ID: imageID, GalleryImageLikes: 42, Category: "landscapes"}, nil)
		mockRepo.On("UpdateGallery", mock.Anything, imageID, 42, "landscapes").
			Return(int64(0), nil)

		service := NewImageService(mockRepo)
		assert.NoError(t, service.UpdateGalleryData(context.Background(), imageID, 42, "landscapes"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing image", func(t *testing.T) {
		mockRepo := new(MockImageRepository)
		mockRepo.On("FindByID", mock.Anything, imageID).Return(nil, gorm.ErrRecordNotFound)

		service := NewImageService(mockRepo)
		err := service.UpdateGalleryData(context.Background(), imageID, 42, "landscapes")
		assert.Equal(t, errors.ErrImageNotFound, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestImageService_ListImages(t *testing.T) {
	inGallery := true
	mockRepo := new(MockImageRepository)
	mockRepo.On("List", mock.Anything, repository.ImageFilter{
		PromptSearch: "castle",
		InGallery:    &inGallery,
		Page:         2,
	}).Return([]model.Image(nil), int64(0), nil)

	service := NewImageService(mockRepo)
	images, total, err := service.ListImages(context.Background(), 2, "castle", &inGallery)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NotNil(t, images)
	assert.Empty(t, images)
	mockRepo.AssertExpectations(t)
}

func TestImageService_ListUserImages(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockImageRepository)
	mockRepo.On("ListByUser", mock.Anything, userID).Return([]model.Image(nil), nil)

	service := NewImageService(mockRepo)
	images, err := service.ListUserImages(context.Background(), userID)

	assert.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
	mockRepo.AssertExpectations(t)
}

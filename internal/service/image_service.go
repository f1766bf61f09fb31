package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pixadmin/internal/errors"
	"pixadmin/internal/model"
	"pixadmin/internal/repository"
)

// ImageService handles the admin image listing and gallery curation.
type ImageService interface {
	ListImages(ctx context.Context, page int, promptSearch string, inGallery *bool) ([]model.Image, int64, error)
	AddToGallery(ctx context.Context, id uuid.UUID, category string) error
	RemoveFromGallery(ctx context.Context, id uuid.UUID) error
	UpdateGalleryData(ctx context.Context, id uuid.UUID, likes int, category string) error
	ListUserImages(ctx context.Context, userID uuid.UUID) ([]model.Image, error)
}

type imageService struct {
	imageRepo repository.ImageRepository
}

// NewImageService creates a new image service.
func NewImageService(imageRepo repository.ImageRepository) ImageService {
	return &imageService{imageRepo: imageRepo}
}

// ListImages returns one page of text-to-image generations, newest first,
// plus the total matching count. An empty page is a valid result.
func (s *imageService) ListImages(ctx context.Context, page int, promptSearch string, inGallery *bool) ([]model.Image, int64, error) {
	images, total, err := s.imageRepo.List(ctx, repository.ImageFilter{
		PromptSearch: promptSearch,
		InGallery:    inGallery,
		Page:         page,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list images: %w", err)
	}
	if images == nil {
		images = []model.Image{}
	}
	return images, total, nil
}

// AddToGallery flags an image as shared and, when given, sets its category.
func (s *imageService) AddToGallery(ctx context.Context, id uuid.UUID, category string) error {
	image, err := s.imageRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrImageNotFound
		}
		return fmt.Errorf("find image: %w", err)
	}

	image.SharedGallery = true
	if category != "" {
		image.Category = category
	}
	if err := s.imageRepo.Save(ctx, image); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

// RemoveFromGallery clears the shared flag. Category and likes are kept so a
// re-added image comes back with its previous gallery metadata.
func (s *imageService) RemoveFromGallery(ctx context.Context, id uuid.UUID) error {
	image, err := s.imageRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrImageNotFound
		}
		return fmt.Errorf("find image: %w", err)
	}

	image.SharedGallery = false
	if err := s.imageRepo.Save(ctx, image); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

// UpdateGalleryData patches likes and category with a single update.
func (s *imageService) UpdateGalleryData(ctx context.Context, id uuid.UUID, likes int, category string) error {
	if _, err := s.imageRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrImageNotFound
		}
		return fmt.Errorf("find image: %w", err)
	}

	if _, err := s.imageRepo.UpdateGallery(ctx, id, likes, category); err != nil {
		return fmt.Errorf("update gallery data: %w", err)
	}
	return nil
}

// ListUserImages returns every image owned by a user, newest first. An empty
// slice is a valid result; whether the user exists is not checked here.
func (s *imageService) ListUserImages(ctx context.Context, userID uuid.UUID) ([]model.Image, error) {
	images, err := s.imageRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user images: %w", err)
	}
	if images == nil {
		images = []model.Image{}
	}
	return images, nil
}

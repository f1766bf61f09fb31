package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pixadmin/internal/model"
)

// ImageFilter narrows the admin image listing. The listing is always
// restricted to plain text-to-image generations without face lock.
type ImageFilter struct {
	PromptSearch string // case-insensitive substring on prompt
	InGallery    *bool  // nil means any
	Page         int    // 1-indexed
}

// ImageRepository defines image persistence operations.
type ImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Image, error)
	List(ctx context.Context, f ImageFilter) ([]model.Image, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Image, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Image, error)
	Save(ctx context.Context, image *model.Image) error
	Create(ctx context.Context, image *model.Image) error
	UpdateGallery(ctx context.Context, id uuid.UUID, likes int, category string) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountDistinctUsersBetween(ctx context.Context, from, to time.Time) (int64, error)
	Prompts(ctx context.Context) ([]string, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository builds a GORM-backed repository.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Image, error) {
	var image model.Image
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) filtered(ctx context.Context, f ImageFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&model.Image{}).
		Where("type_gen = ? AND facelock_type = ?", model.TypeGenTxt2Img, model.FacelockTypeNone)
	if f.InGallery != nil {
		q = q.Where("shared_gallery = ?", *f.InGallery)
	}
	if f.PromptSearch != "" {
		q = q.Where("LOWER(prompt) LIKE ?", "%"+strings.ToLower(f.PromptSearch)+"%")
	}
	return q
}

func (r *imageRepository) List(ctx context.Context, f ImageFilter) ([]model.Image, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}

	var images []model.Image
	err := r.filtered(ctx, f).
		Order("created_at DESC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&images).Error
	if err != nil {
		return nil, 0, err
	}
	return images, total, nil
}

func (r *imageRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Image, error) {
	var images []model.Image
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Image, error) {
	var images []model.Image
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) Save(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Save(image).Error
}

func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// UpdateGallery patches likes and category in a single UPDATE and reports the
// number of rows touched so callers can detect a missing image.
func (r *imageRepository) UpdateGallery(ctx context.Context, id uuid.UUID, likes int, category string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Image{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"gallery_image_likes": likes,
			"category":            category,
		})
	return res.RowsAffected, res.Error
}

func (r *imageRepository) CountTotal(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Image{}).Count(&n).Error
	return n, err
}

func (r *imageRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Image{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *imageRepository) CountDistinctUsersBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Image{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Distinct("user_id").
		Count(&n).Error
	return n, err
}

func (r *imageRepository) Prompts(ctx context.Context) ([]string, error) {
	var prompts []string
	if err := r.db.WithContext(ctx).Model(&model.Image{}).Pluck("prompt", &prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

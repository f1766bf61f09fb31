package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pixadmin/internal/model"
)

// PageSize is the fixed page size for all list endpoints.
const PageSize = 100

// Sort keys accepted by user search. Always descending.
const (
	UserSortCreatedAt           = "createdAt"
	UserSortUpdatedAt           = "updatedAt"
	UserSortSubscriptionEndDate = "subscriptionEndDate"
)

// Active-subscription filter values.
const (
	UserActiveFilterActive  = "Active"
	UserActiveFilterOverall = "Overall"
)

// UserFilter narrows a user search. All fields are optional and compose
// independently.
type UserFilter struct {
	Email        string    // case-insensitive substring
	ID           string    // exact match
	Name         string    // case-insensitive substring
	Subscription string    // exact tier; "" or "All" means any
	ActiveFilter string    // UserActiveFilterActive or UserActiveFilterOverall
	Sort         string    // one of the UserSort constants
	Page         int       // 1-indexed
	Now          time.Time // reference instant for the Active filter
}

// FeedbackStats is the aggregate over non-null feedback ratings.
type FeedbackStats struct {
	AverageRating float64 `gorm:"column:average_rating"`
	Count         int64   `gorm:"column:count"`
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
	Search(ctx context.Context, f UserFilter) ([]model.User, int64, error)
	Save(ctx context.Context, user *model.User) error
	Create(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTiers(ctx context.Context, tiers []string) ([]model.User, error)
	SubscriptionIDs(ctx context.Context) ([]string, error)
	CountTotal(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountCreatedBefore(ctx context.Context, before time.Time) (int64, error)
	CountReferred(ctx context.Context) (int64, error)
	CountReferredBetween(ctx context.Context, from, to time.Time) (int64, error)
	FeedbackStats(ctx context.Context, from, to *time.Time) (FeedbackStats, error)
	FeedbackBetween(ctx context.Context, from, to time.Time) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// filtered builds a fresh query with every filter applied. Called once for
// the count and once for the page fetch so the chains stay independent.
func (r *userRepository) filtered(ctx context.Context, f UserFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if f.Email != "" {
		q = q.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(f.Email)+"%")
	}
	if f.ID != "" {
		q = q.Where("id = ?", f.ID)
	}
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Subscription != "" && f.Subscription != "All" {
		q = q.Where("subscription = ?", f.Subscription)
	}
	switch f.ActiveFilter {
	case UserActiveFilterActive:
		q = q.Where("subscription_end_date >= ?", f.Now)
	case UserActiveFilterOverall:
		q = q.Where("subscription_end_date IS NOT NULL")
	}
	return q
}

func (r *userRepository) Search(ctx context.Context, f UserFilter) ([]model.User, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	switch f.Sort {
	case UserSortUpdatedAt:
		order = "updated_at DESC"
	case UserSortSubscriptionEndDate:
		order = "subscription_end_date DESC"
	}

	page := f.Page
	if page < 1 {
		page = 1
	}

	var users []model.User
	err := r.filtered(ctx, f).
		Order(order).
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *userRepository) ListByTiers(ctx context.Context, tiers []string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "name", "subscription", "subscription_end_date").
		Where("subscription IN ?", tiers).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) SubscriptionIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("subscription_id IS NOT NULL AND subscription_id <> ''").
		Pluck("subscription_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) CountTotal(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *userRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *userRepository) CountCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("created_at < ?", before).
		Count(&n).Error
	return n, err
}

func (r *userRepository) CountReferred(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("referred_by IS NOT NULL").
		Count(&n).Error
	return n, err
}

func (r *userRepository) CountReferredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("referred_by IS NOT NULL AND created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

// FeedbackStats aggregates non-null feedback ratings, optionally restricted
// to a submission-time window.
func (r *userRepository) FeedbackStats(ctx context.Context, from, to *time.Time) (FeedbackStats, error) {
	q := r.db.WithContext(ctx).
		Model(&model.User{}).
		Select("COALESCE(AVG(feedback_rating), 0) AS average_rating, COUNT(*) AS count").
		Where("feedback_rating IS NOT NULL")
	if from != nil {
		q = q.Where("feedback_submitted_time >= ?", *from)
	}
	if to != nil {
		q = q.Where("feedback_submitted_time < ?", *to)
	}
	var stats FeedbackStats
	if err := q.Scan(&stats).Error; err != nil {
		return FeedbackStats{}, err
	}
	return stats, nil
}

func (r *userRepository) FeedbackBetween(ctx context.Context, from, to time.Time) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Select("id", "feedback_rating", "feedback1", "feedback2", "feedback_submitted_time").
		Where("feedback_submitted = ? AND feedback_submitted_time >= ? AND feedback_submitted_time < ?", true, from, to).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pixadmin/internal/model"
)

// StateCount is a per-state payment count.
type StateCount struct {
	State string `json:"state" gorm:"column:state"`
	Count int64  `json:"count" gorm:"column:count"`
}

// MethodCount is a per-payment-method count.
type MethodCount struct {
	Method string `json:"method" gorm:"column:payment_method"`
	Count  int64  `json:"count" gorm:"column:count"`
}

// PaymentRepository defines payment reporting queries. Payments are written
// by the payment webhook and only read here.
type PaymentRepository interface {
	CountTotal(ctx context.Context) (int64, error)
	CountByState(ctx context.Context) ([]StateCount, error)
	CompletedCountByMethod(ctx context.Context) ([]MethodCount, error)
	CompletedCountBySubscriptionType(ctx context.Context, subscriptionType string) (int64, error)
	CompletedCountByAnnual(ctx context.Context, annual bool) (int64, error)
	CompletedCountActiveAt(ctx context.Context, now time.Time) (int64, error)
	CompletedCountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CompletedAmountSum(ctx context.Context, from, to *time.Time) (decimal.Decimal, error)
	ListByDateRange(ctx context.Context, from, to *time.Time) ([]model.Payment, error)
	ListByIDs(ctx context.Context, ids []string, from, to *time.Time) ([]model.Payment, error)
	Create(ctx context.Context, payment *model.Payment) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository builds a GORM-backed repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CountTotal(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Payment{}).Count(&n).Error
	return n, err
}

func (r *paymentRepository) CountByState(ctx context.Context) ([]StateCount, error) {
	var counts []StateCount
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("state, COUNT(*) AS count").
		Group("state").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// completed restricts a query to completion-equivalent payments. The state
// column holds both COMPLETED and completed in production data, so the match
// is against the exact set.
func (r *paymentRepository) completed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("state IN ?", model.CompletedStates)
}

func (r *paymentRepository) CompletedCountByMethod(ctx context.Context) ([]MethodCount, error) {
	var counts []MethodCount
	err := r.completed(ctx).
		Select("payment_method, COUNT(*) AS count").
		Group("payment_method").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *paymentRepository) CompletedCountBySubscriptionType(ctx context.Context, subscriptionType string) (int64, error) {
	var n int64
	err := r.completed(ctx).
		Where("subscription_type = ?", subscriptionType).
		Count(&n).Error
	return n, err
}

func (r *paymentRepository) CompletedCountByAnnual(ctx context.Context, annual bool) (int64, error) {
	var n int64
	err := r.completed(ctx).
		Where("annual = ?", annual).
		Count(&n).Error
	return n, err
}

func (r *paymentRepository) CompletedCountActiveAt(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.completed(ctx).
		Where("end_date >= ?", now).
		Count(&n).Error
	return n, err
}

func (r *paymentRepository) CompletedCountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.completed(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

// CompletedAmountSum sums completed payment amounts, optionally restricted to
// a creation-time window.
func (r *paymentRepository) CompletedAmountSum(ctx context.Context, from, to *time.Time) (decimal.Decimal, error) {
	q := r.completed(ctx).Select("COALESCE(SUM(amount), 0) AS total")
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}
	var result struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := q.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// ListByDateRange lists payments with inclusive creation-time bounds; either
// bound may be nil.
func (r *paymentRepository) ListByDateRange(ctx context.Context, from, to *time.Time) ([]model.Payment, error) {
	q := r.db.WithContext(ctx).Model(&model.Payment{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	var payments []model.Payment
	if err := q.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ListByIDs(ctx context.Context, ids []string, from, to *time.Time) ([]model.Payment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).Where("id IN ?", ids)
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	var payments []model.Payment
	if err := q.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pixadmin/internal/model"
	"pixadmin/internal/repository"
)

// Payment listing filter options.
const (
	PaymentFilterActive = "Active"
	PaymentFilterAll    = "All"
)

// PaymentStats is the aggregate view over the whole payments collection.
type PaymentStats struct {
	TotalPayments                int64                    `json:"totalPayments"`
	PaymentsByState              []repository.StateCount  `json:"paymentsByState"`
	CompletedPaymentsByMethod    []repository.MethodCount `json:"completedPaymentsByMethod"`
	TotalCompletedPaymentsAmount decimal.Decimal          `json:"totalCompletedPaymentsAmount"`
}

// PaymentService handles payment reporting.
type PaymentService interface {
	Stats(ctx context.Context) (*PaymentStats, error)
	ListByDate(ctx context.Context, from, to *time.Time, filterOption string) ([]model.Payment, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo repository.PaymentRepository, userRepo repository.UserRepository) PaymentService {
	return &paymentService{paymentRepo: paymentRepo, userRepo: userRepo}
}

func (s *paymentService) Stats(ctx context.Context) (*PaymentStats, error) {
	total, err := s.paymentRepo.CountTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}

	byState, err := s.paymentRepo.CountByState(ctx)
	if err != nil {
		return nil, fmt.Errorf("count payments by state: %w", err)
	}

	byMethod, err := s.paymentRepo.CompletedCountByMethod(ctx)
	if err != nil {
		return nil, fmt.Errorf("count completed payments by method: %w", err)
	}

	sum, err := s.paymentRepo.CompletedAmountSum(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("sum completed payments: %w", err)
	}

	if byState == nil {
		byState = []repository.StateCount{}
	}
	if byMethod == nil {
		byMethod = []repository.MethodCount{}
	}

	return &PaymentStats{
		TotalPayments:                total,
		PaymentsByState:              byState,
		CompletedPaymentsByMethod:    byMethod,
		TotalCompletedPaymentsAmount: sum,
	}, nil
}

// ListByDate lists payments in an inclusive creation-time range. The Active
// filter restricts the result to payments referenced as some user's current
// subscription; anything else lists the whole range.
func (s *paymentService) ListByDate(ctx context.Context, from, to *time.Time, filterOption string) ([]model.Payment, error) {
	if filterOption == PaymentFilterActive {
		ids, err := s.userRepo.SubscriptionIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("collect subscription ids: %w", err)
		}
		if len(ids) == 0 {
			return []model.Payment{}, nil
		}
		payments, err := s.paymentRepo.ListByIDs(ctx, ids, from, to)
		if err != nil {
			return nil, fmt.Errorf("list subscription payments: %w", err)
		}
		if payments == nil {
			payments = []model.Payment{}
		}
		return payments, nil
	}

	payments, err := s.paymentRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return payments, nil
}

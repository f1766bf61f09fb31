package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods seen in production data.
const (
	PaymentMethodNoda      = "noda"
	PaymentMethodCrypto    = "crypto"
	PaymentMethodBasicCard = "basic_card"
)

// The payment webhook writes completed payments with inconsistent casing.
// Both values mean the same thing and every completed-payment query must
// match the exact set, never a case-insensitive pattern that could catch
// unrelated states.
const (
	PaymentStateCompletedUpper = "COMPLETED"
	PaymentStateCompletedLower = "completed"
)

// CompletedStates is the exact-match set used in queries over completed payments.
var CompletedStates = []string{PaymentStateCompletedUpper, PaymentStateCompletedLower}

// IsCompleted reports whether a payment state is completion-equivalent.
func IsCompleted(state string) bool {
	return state == PaymentStateCompletedUpper || state == PaymentStateCompletedLower
}

// Payment represents a subscription purchase written by the payment webhook.
// Read-only for this service.
type Payment struct {
	ID               uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID           uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	PaymentMethod    string          `json:"payment_method" gorm:"size:32;not null;index"`
	State            string          `json:"state" gorm:"size:32;not null;index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Currency         string          `json:"currency" gorm:"size:8;not null"`
	Annual           bool            `json:"annual" gorm:"not null;default:false"`
	SubscriptionType *string         `json:"subscription_type" gorm:"size:20"`
	EndDate          *time.Time      `json:"end_date"`
	CreatedAt        time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

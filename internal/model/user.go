package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription tiers a user can hold.
const (
	SubscriptionFree = "Free"
	SubscriptionPro  = "Pro"
	SubscriptionMax  = "Max"
)

// SubscriptionTiers lists every known tier.
var SubscriptionTiers = []string{SubscriptionFree, SubscriptionPro, SubscriptionMax}

// User represents a product user as written by the registration and
// subscription systems. This service only reads and field-patches users.
type User struct {
	ID                    uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Email                 string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name                  string     `json:"name" gorm:"size:255;not null"`
	Subscription          string     `json:"subscription" gorm:"size:20;not null;default:'Free';index"`
	Credits               *int64     `json:"credits"`
	ReferralCode          string     `json:"referral_code" gorm:"size:64"`
	ReferredBy            *string    `json:"referred_by" gorm:"size:64;index"`
	ReferredByTime        *time.Time `json:"referred_by_time"`
	FeedbackSubmitted     bool       `json:"feedback_submitted" gorm:"default:false"`
	FeedbackSubmittedTime *time.Time `json:"feedback_submitted_time" gorm:"index"`
	FeedbackRating        *int       `json:"feedback_rating"`
	Feedback1             string     `json:"feedback1" gorm:"type:text"`
	Feedback2             string     `json:"feedback2" gorm:"type:text"`
	SubscriptionID        *string    `json:"subscription_id" gorm:"size:36;index"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date" gorm:"index"`
	CreatedAt             time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasActiveSubscription reports whether the subscription has no end date yet
// or ends at/after the given instant.
func (u *User) HasActiveSubscription(now time.Time) bool {
	return u.SubscriptionEndDate == nil || !u.SubscriptionEndDate.Before(now)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pixadmin/internal/errors"
	"pixadmin/internal/model"
	"pixadmin/internal/repository"
)

// UserSearchParams carries the composable user search filters.
type UserSearchParams struct {
	Email        string
	ID           string
	Name         string
	Subscription string
	ActiveFilter string
	Sort         string
	Page         int
}

// UserService handles user listing, lookup and field patches.
type UserService interface {
	Search(ctx context.Context, p UserSearchParams) ([]model.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateSubscription(ctx context.Context, id uuid.UUID, subscription *string, credits *int64) (*model.User, error)
	ActiveSubscribers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo, now: time.Now}
}

func (s *userService) Search(ctx context.Context, p UserSearchParams) ([]model.User, int64, error) {
	users, total, err := s.userRepo.Search(ctx, repository.UserFilter{
		Email:        p.Email,
		ID:           p.ID,
		Name:         p.Name,
		Subscription: p.Subscription,
		ActiveFilter: p.ActiveFilter,
		Sort:         p.Sort,
		Page:         p.Page,
		Now:          s.now(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, total, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Delete removes a user after an existence check. Images and payments owned
// by the user are left in place.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// UpdateSubscription is a partial patch: only non-nil fields are changed.
func (s *userService) UpdateSubscription(ctx context.Context, id uuid.UUID, subscription *string, credits *int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if subscription != nil {
		user.Subscription = *subscription
	}
	if credits != nil {
		user.Credits = credits
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// ActiveSubscribers lists users on a known tier whose subscription has not
// ended yet (or has no end date recorded).
func (s *userService) ActiveSubscribers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.ListByTiers(ctx, model.SubscriptionTiers)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	now := s.now()
	active := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.HasActiveSubscription(now) {
			active = append(active, u)
		}
	}
	return active, nil
}

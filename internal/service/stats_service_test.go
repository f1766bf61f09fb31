package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pixadmin/internal/model"
	"pixadmin/internal/repository"
)

// Fixed reference instant for every stats test: the window then runs from
// 2026-08-02 through 2026-09-01.
var statsNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return statsNow }

// daysAgo returns a mid-day instant n days before the reference day.
func daysAgo(n int) time.Time {
	return time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC).AddDate(0, 0, -n)
}

// memUserRepo implements repository.UserRepository over a slice.
type memUserRepo struct {
	users []model.User
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		for i := range r.users {
			if r.users[i].ID == id {
				out = append(out, r.users[i])
			}
		}
	}
	return out, nil
}

func (r *memUserRepo) Search(context.Context, repository.UserFilter) ([]model.User, int64, error) {
	return nil, 0, nil
}

func (r *memUserRepo) Save(context.Context, *model.User) error   { return nil }
func (r *memUserRepo) Create(context.Context, *model.User) error { return nil }
func (r *memUserRepo) Delete(context.Context, uuid.UUID) error   { return nil }

func (r *memUserRepo) ListByTiers(context.Context, []string) ([]model.User, error) {
	return nil, nil
}

func (r *memUserRepo) SubscriptionIDs(context.Context) ([]string, error) { return nil, nil }

func (r *memUserRepo) CountTotal(context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *memUserRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, u := range r.users {
		if !u.CreatedAt.Before(from) && u.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) CountCreatedBefore(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.CreatedAt.Before(before) {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) CountReferred(context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.ReferredBy != nil {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) CountReferredBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.ReferredBy != nil && !u.CreatedAt.Before(from) && u.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) FeedbackStats(_ context.Context, from, to *time.Time) (repository.FeedbackStats, error) {
	var sum float64
	var count int64
	for _, u := range r.users {
		if u.FeedbackRating == nil {
			continue
		}
		if from != nil && (u.FeedbackSubmittedTime == nil || u.FeedbackSubmittedTime.Before(*from)) {
			continue
		}
		if to != nil && (u.FeedbackSubmittedTime == nil || !u.FeedbackSubmittedTime.Before(*to)) {
			continue
		}
		sum += float64(*u.FeedbackRating)
		count++
	}
	stats := repository.FeedbackStats{Count: count}
	if count > 0 {
		stats.AverageRating = sum / float64(count)
	}
	return stats, nil
}

func (r *memUserRepo) FeedbackBetween(_ context.Context, from, to time.Time) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !u.FeedbackSubmitted || u.FeedbackSubmittedTime == nil {
			continue
		}
		if u.FeedbackSubmittedTime.Before(from) || !u.FeedbackSubmittedTime.Before(to) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// memImageRepo implements repository.ImageRepository over a slice.
type memImageRepo struct {
	images []model.Image
}

func (r *memImageRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Image, error) {
	for i := range r.images {
		if r.images[i].ID == id {
			return &r.images[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memImageRepo) List(context.Context, repository.ImageFilter) ([]model.Image, int64, error) {
	return nil, 0, nil
}

func (r *memImageRepo) ListByUser(context.Context, uuid.UUID) ([]model.Image, error) {
	return nil, nil
}

func (r *memImageRepo) ListCreatedBetween(_ context.Context, from, to time.Time) ([]model.Image, error) {
	var out []model.Image
	for _, img := range r.images {
		if !img.CreatedAt.Before(from) && img.CreatedAt.Before(to) {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *memImageRepo) Save(context.Context, *model.Image) error   { return nil }
func (r *memImageRepo) Create(context.Context, *model.Image) error { return nil }

func (r *memImageRepo) UpdateGallery(context.Context, uuid.UUID, int, string) (int64, error) {
	return 0, nil
}

func (r *memImageRepo) CountTotal(context.Context) (int64, error) {
	return int64(len(r.images)), nil
}

func (r *memImageRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, img := range r.images {
		if !img.CreatedAt.Before(from) && img.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *memImageRepo) CountDistinctUsersBetween(_ context.Context, from, to time.Time) (int64, error) {
	seen := make(map[uuid.UUID]struct{})
	for _, img := range r.images {
		if !img.CreatedAt.Before(from) && img.CreatedAt.Before(to) {
			seen[img.UserID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r *memImageRepo) Prompts(context.Context) ([]string, error) {
	var prompts []string
	for _, img := range r.images {
		prompts = append(prompts, img.Prompt)
	}
	return prompts, nil
}

// stubPaymentRepo returns canned aggregates.
type stubPaymentRepo struct {
	total     int64
	byState   []repository.StateCount
	byMethod  []repository.MethodCount
	pro       int64
	max       int64
	monthly   int64
	annual    int64
	active    int64
	today     int64
	todaySum  decimal.Decimal
	allSum    decimal.Decimal
	listed    []model.Payment
	listedIDs []model.Payment
}

func (r *stubPaymentRepo) CountTotal(context.Context) (int64, error) { return r.total, nil }
func (r *stubPaymentRepo) CountByState(context.Context) ([]repository.StateCount, error) {
	return r.byState, nil
}
func (r *stubPaymentRepo) CompletedCountByMethod(context.Context) ([]repository.MethodCount, error) {
	return r.byMethod, nil
}
func (r *stubPaymentRepo) CompletedCountBySubscriptionType(_ context.Context, subscriptionType string) (int64, error) {
	if subscriptionType == model.SubscriptionPro {
		return r.pro, nil
	}
	return r.max, nil
}
func (r *stubPaymentRepo) CompletedCountByAnnual(_ context.Context, annual bool) (int64, error) {
	if annual {
		return r.annual, nil
	}
	return r.monthly, nil
}
func (r *stubPaymentRepo) CompletedCountActiveAt(context.Context, time.Time) (int64, error) {
	return r.active, nil
}
func (r *stubPaymentRepo) CompletedCountCreatedBetween(context.Context, time.Time, time.Time) (int64, error) {
	return r.today, nil
}
func (r *stubPaymentRepo) CompletedAmountSum(_ context.Context, from, _ *time.Time) (decimal.Decimal, error) {
	if from == nil {
		return r.allSum, nil
	}
	return r.todaySum, nil
}
func (r *stubPaymentRepo) ListByDateRange(context.Context, *time.Time, *time.Time) ([]model.Payment, error) {
	return r.listed, nil
}
func (r *stubPaymentRepo) ListByIDs(context.Context, []string, *time.Time, *time.Time) ([]model.Payment, error) {
	return r.listedIDs, nil
}
func (r *stubPaymentRepo) Create(context.Context, *model.Payment) error { return nil }

func newTestStatsService(users *memUserRepo, images *memImageRepo, payments *stubPaymentRepo) *statsService {
	return &statsService{
		userRepo:    users,
		imageRepo:   images,
		paymentRepo: payments,
		cache:       nil, // nil cache degrades to always-miss
		cacheTTL:    time.Minute,
		now:         fixedNow,
	}
}

func userCreatedAt(t time.Time) model.User {
	return model.User{ID: uuid.New(), CreatedAt: t}
}

func imageCreatedAt(owner uuid.UUID, t time.Time) model.Image {
	return model.Image{ID: uuid.New(), UserID: owner, CreatedAt: t, UpdatedAt: t}
}

func TestSummaryWindowShape(t *testing.T) {
	svc := newTestStatsService(&memUserRepo{}, &memImageRepo{}, &stubPaymentRepo{})

	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.UsersPerDay, 31)
	assert.Equal(t, "2026-08-02", stats.UsersPerDay[0].Date)
	assert.Equal(t, "2026-09-01", stats.UsersPerDay[30].Date)

	// Every series covers the same window in the same order.
	for i := range stats.UsersPerDay {
		date := stats.UsersPerDay[i].Date
		assert.Equal(t, date, stats.RefUsersPerDay[i].Date)
		assert.Equal(t, date, stats.GenerationsPerDay[i].Date)
		assert.Equal(t, date, stats.FeedbackRatingsPerDay[i].Date)
		assert.Equal(t, date, stats.FeedbackDetailsPerDay[i].Date)
		assert.Equal(t, date, stats.OnlineUsersPerDay[i].Date)
		assert.Equal(t, date, stats.AvgImagesPerOnlineUserPerDay[i].Date)
	}
}

// Per-day counts over the window must account for every user and image in it,
// with no double counting.
func TestSummaryDailyCountsCompleteness(t *testing.T) {
	users := &memUserRepo{}
	images := &memImageRepo{}
	for _, offset := range []int{0, 0, 3, 7, 7, 7, 12, 20, 29, 30} {
		u := userCreatedAt(daysAgo(offset))
		users.users = append(users.users, u)
		for j := 0; j <= offset%3; j++ {
			images.images = append(images.images, imageCreatedAt(u.ID, daysAgo(offset)))
		}
	}

	svc := newTestStatsService(users, images, &stubPaymentRepo{})
	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)

	var userSum, imageSum int64
	for i := range stats.UsersPerDay {
		userSum += stats.UsersPerDay[i].Amount
		imageSum += stats.GenerationsPerDay[i].Amount
	}
	assert.Equal(t, int64(len(users.users)), userSum)
	assert.Equal(t, int64(len(images.images)), imageSum)
	assert.Equal(t, int64(len(users.users)), stats.TotalUsers)
	assert.Equal(t, int64(len(images.images)), stats.TotalGenerations)
}

func TestSummaryReferralCounts(t *testing.T) {
	users := &memUserRepo{}
	code := "ref-code"
	for _, offset := range []int{1, 5, 5} {
		u := userCreatedAt(daysAgo(offset))
		u.ReferredBy = &code
		users.users = append(users.users, u)
	}
	users.users = append(users.users, userCreatedAt(daysAgo(5)))

	svc := newTestStatsService(users, &memImageRepo{}, &stubPaymentRepo{})
	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.RefUsers)
	var refSum int64
	for _, d := range stats.RefUsersPerDay {
		refSum += d.Amount
	}
	assert.Equal(t, int64(3), refSum)
}

// Zero users on a day's cumulative count means a zero average, never NaN or
// Inf; likewise for the overall average with an empty user table.
func TestSummaryZeroDenominatorGuards(t *testing.T) {
	images := &memImageRepo{}
	images.images = append(images.images, imageCreatedAt(uuid.New(), daysAgo(2)))

	svc := newTestStatsService(&memUserRepo{}, images, &stubPaymentRepo{})
	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(0), stats.AvgGenerationsPerUser)
	for _, d := range stats.GenerationsPerDay {
		assert.Equal(t, float64(0), d.AvgPerUser)
	}
	assert.Nil(t, stats.AvgFeedbackRating)
	assert.Equal(t, int64(0), stats.FeedbackCount)
}

func TestSummaryPerUserAverageRounding(t *testing.T) {
	users := &memUserRepo{}
	images := &memImageRepo{}
	// Three users exist by day -4, one generates four images that day:
	// 4/3 rounds to 1.33.
	for i := 0; i < 3; i++ {
		users.users = append(users.users, userCreatedAt(daysAgo(10)))
	}
	owner := users.users[0].ID
	for i := 0; i < 4; i++ {
		images.images = append(images.images, imageCreatedAt(owner, daysAgo(4)))
	}

	svc := newTestStatsService(users, images, &stubPaymentRepo{})
	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)

	day := daysAgo(4).Format("2006-01-02")
	var found bool
	for _, d := range stats.GenerationsPerDay {
		if d.Date == day {
			found = true
			assert.Equal(t, int64(4), d.Amount)
			assert.Equal(t, 1.33, d.AvgPerUser)
		}
	}
	require.True(t, found)
}

func TestSummaryFeedbackSeries(t *testing.T) {
	users := &memUserRepo{}
	submitted := daysAgo(6)
	for _, rating := range []int{3, 4} {
		rating := rating
		u := userCreatedAt(daysAgo(15))
		u.FeedbackSubmitted = true
		u.FeedbackSubmittedTime = &submitted
		u.FeedbackRating = &rating
		u.Feedback1 = "good"
		u.Feedback2 = "could be faster"
		users.users = append(users.users, u)
	}

	svc := newTestStatsService(users, &memImageRepo{}, &stubPaymentRepo{})
	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)

	day := submitted.Format("2006-01-02")
	for i, d := range stats.FeedbackRatingsPerDay {
		if d.Date == day {
			require.NotNil(t, d.AverageRating)
			assert.Equal(t, 3.5, *d.AverageRating)
			assert.Equal(t, int64(2), d.Count)
			assert.Len(t, stats.FeedbackDetailsPerDay[i].Feedbacks, 2)
		} else {
			assert.Nil(t, d.AverageRating)
			assert.Equal(t, int64(0), d.Count)
			assert.Empty(t, stats.FeedbackDetailsPerDay[i].Feedbacks)
		}
	}

	require.NotNil(t, stats.AvgFeedbackRating)
	assert.Equal(t, 3.5, *stats.AvgFeedbackRating)
	assert.Equal(t, int64(2), stats.FeedbackCount)
}

func TestSummaryOnlineUsers(t *testing.T) {
	users := &memUserRepo{}
	images := &memImageRepo{}
	day := daysAgo(3)
	// Two distinct users generate three images on one day: 3/2 = 1.5.
	a := userCreatedAt(daysAgo(20))
	b := userCreatedAt(daysAgo(20))
	users.users = append(users.users, a, b)
	images.images = append(images.images,
		imageCreatedAt(a.ID, day),
		imageCreatedAt(a.ID, day),
		imageCreatedAt(b.ID, day),
	)

	svc := newTestStatsService(users, images, &stubPaymentRepo{})
	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)

	date := day.Format("2006-01-02")
	for i, d := range stats.OnlineUsersPerDay {
		if d.Date == date {
			assert.Equal(t, int64(2), d.Amount)
			assert.Equal(t, 1.5, stats.AvgImagesPerOnlineUserPerDay[i].Average)
		} else {
			assert.Equal(t, int64(0), d.Amount)
			assert.Equal(t, float64(0), stats.AvgImagesPerOnlineUserPerDay[i].Average)
		}
	}
}

func TestSummaryPaymentScalars(t *testing.T) {
	payments := &stubPaymentRepo{
		pro:      12,
		max:      4,
		monthly:  10,
		annual:   6,
		active:   9,
		today:    2,
		todaySum: decimal.NewFromFloat(25.50),
		allSum:   decimal.NewFromFloat(1999.99),
		byMethod: []repository.MethodCount{
			{Method: model.PaymentMethodNoda, Count: 7},
			{Method: model.PaymentMethodCrypto, Count: 3},
			{Method: model.PaymentMethodBasicCard, Count: 11},
		},
	}

	svc := newTestStatsService(&memUserRepo{}, &memImageRepo{}, payments)
	stats, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), stats.ProSubscriptionsCount)
	assert.Equal(t, int64(4), stats.MaxSubscriptionsCount)
	assert.Equal(t, int64(10), stats.MonthlySubscriptionsCount)
	assert.Equal(t, int64(6), stats.AnnualSubscriptionsCount)
	assert.Equal(t, int64(9), stats.CurrentSubscriptionsCount)
	assert.Equal(t, int64(2), stats.TodayNewPurchasesCount)
	assert.Equal(t, int64(7), stats.NodaPaymentCount)
	assert.Equal(t, int64(3), stats.CryptoPaymentCount)
	assert.Equal(t, int64(11), stats.BasicCardPaymentCount)
	assert.True(t, decimal.NewFromFloat(25.50).Equal(stats.TodayCompletedPaymentsTotal))
	assert.True(t, decimal.NewFromFloat(1999.99).Equal(stats.AllTimeCompletedPaymentsTotal))
}

func TestImageGenerationGroupsByDay(t *testing.T) {
	users := &memUserRepo{}
	images := &memImageRepo{}

	pro := userCreatedAt(daysAgo(25))
	pro.Subscription = model.SubscriptionPro
	free := userCreatedAt(daysAgo(25))
	free.Subscription = model.SubscriptionFree
	users.users = append(users.users, pro, free)

	early := daysAgo(5)
	late := daysAgo(1)

	first := imageCreatedAt(pro.ID, early)
	first.UpdatedAt = early.Add(42 * time.Second)
	second := imageCreatedAt(free.ID, early)
	second.UpdatedAt = early.Add(10 * time.Second)
	third := imageCreatedAt(uuid.New(), late) // owner since deleted
	third.UpdatedAt = late.Add(7 * time.Second)
	images.images = append(images.images, first, second, third)

	svc := newTestStatsService(users, images, &stubPaymentRepo{})
	stats, err := svc.ImageGeneration(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalImages)
	require.Len(t, stats.ImageGenerationData, 2)

	d0 := stats.ImageGenerationData[0]
	assert.Equal(t, early.Format("2006-01-02"), d0.Date)
	assert.Equal(t, 2, d0.DayImageCount)
	assert.Equal(t, 42.0, d0.ImageTimeData[0].TimeGeneration)
	assert.Equal(t, model.SubscriptionPro, d0.ImageTimeData[0].SubscriptionType)
	assert.Equal(t, model.SubscriptionFree, d0.ImageTimeData[1].SubscriptionType)

	d1 := stats.ImageGenerationData[1]
	assert.Equal(t, late.Format("2006-01-02"), d1.Date)
	assert.Equal(t, 1, d1.DayImageCount)
	assert.Equal(t, "", d1.ImageTimeData[0].SubscriptionType)
}

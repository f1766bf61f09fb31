package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pixadmin/internal/cache"
	"pixadmin/internal/model"
	"pixadmin/internal/repository"
)

// The dashboard window: 30 days back through today, 31 points total.
const statsWindowDays = 30

// Concurrent per-day computations. Each day runs several independent counts,
// so a modest fan-out keeps the store from being hammered.
const statsDayConcurrency = 8

const summaryCacheKey = "stats:summary"

const dateLayout = "2006-01-02"

// DayCount is one point of a per-day counting series.
type DayCount struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

// DayGenerations is a per-day image count with the cumulative per-user average.
type DayGenerations struct {
	Date       string  `json:"date"`
	Amount     int64   `json:"amount"`
	AvgPerUser float64 `json:"avgPerUser"`
}

// DayFeedbackRating is the mean feedback rating submitted on one day.
// AverageRating is nil when no feedback arrived that day.
type DayFeedbackRating struct {
	Date          string   `json:"date"`
	AverageRating *float64 `json:"averageRating"`
	Count         int64    `json:"count"`
}

// FeedbackEntry is one submitted feedback record.
type FeedbackEntry struct {
	Date           string `json:"date"`
	FeedbackRating *int   `json:"feedbackRating"`
	Feedback1      string `json:"feedback1"`
	Feedback2      string `json:"feedback2"`
}

// DayFeedbackDetails groups the feedback records submitted on one day.
type DayFeedbackDetails struct {
	Date      string          `json:"date"`
	Feedbacks []FeedbackEntry `json:"feedbacks"`
}

// DayAverage is one point of a per-day averaging series.
type DayAverage struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
}

// SummaryStats is the full dashboard payload: the 31-point daily series plus
// whole-history totals and payment-derived business metrics.
type SummaryStats struct {
	TotalUsers                   int64                `json:"totalUsers"`
	UsersPerDay                  []DayCount           `json:"usersPerDay"`
	RefUsers                     int64                `json:"refUsers"`
	RefUsersPerDay               []DayCount           `json:"refUsersPerDay"`
	TotalGenerations             int64                `json:"totalGenerations"`
	AvgGenerationsPerUser        float64              `json:"avgGenerationsPerUser"`
	GenerationsPerDay            []DayGenerations     `json:"generationsPerDay"`
	AvgFeedbackRating            *float64             `json:"avgFeedbackRating"`
	FeedbackCount                int64                `json:"feedbackCount"`
	FeedbackRatingsPerDay        []DayFeedbackRating  `json:"feedbackRatingsPerDay"`
	FeedbackDetailsPerDay        []DayFeedbackDetails `json:"feedbackDetailsPerDay"`
	OnlineUsersPerDay            []DayCount           `json:"onlineUsersPerDay"`
	AvgImagesPerOnlineUserPerDay []DayAverage         `json:"avgImagesPerOnlineUserPerDay"`

	ProSubscriptionsCount     int64 `json:"proSubscriptionsCount"`
	MaxSubscriptionsCount     int64 `json:"maxSubscriptionsCount"`
	MonthlySubscriptionsCount int64 `json:"monthlySubscriptionsCount"`
	AnnualSubscriptionsCount  int64 `json:"annualSubscriptionsCount"`
	CurrentSubscriptionsCount int64 `json:"currentSubscriptionsCount"`
	TodayNewPurchasesCount    int64 `json:"todayNewPurchasesCount"`
	NodaPaymentCount          int64 `json:"nodaPaymentCount"`
	CryptoPaymentCount        int64 `json:"cryptoPaymentCount"`
	BasicCardPaymentCount     int64 `json:"basicCardPaymentCount"`

	TodayCompletedPaymentsTotal   decimal.Decimal `json:"todayCompletedPaymentsTotal"`
	AllTimeCompletedPaymentsTotal decimal.Decimal `json:"allTimeCompletedPaymentsTotal"`
}

// ImageTimePoint records when one image was generated, how long the
// generation took and the owner's tier at read time.
type ImageTimePoint struct {
	TimeGeneratedAt  time.Time `json:"timeGeneratedAt"`
	TimeGeneration   float64   `json:"timeGeneration"`
	SubscriptionType string    `json:"subscriptionType"`
}

// DayImageStats groups generation timings under one day.
type DayImageStats struct {
	Date          string           `json:"date"`
	DayImageCount int              `json:"dayImageCount"`
	ImageTimeData []ImageTimePoint `json:"imageTimeData"`
}

// ImageGenerationStats is the generation-timing dashboard payload.
type ImageGenerationStats struct {
	TotalImages         int64           `json:"totalImages"`
	ImageGenerationData []DayImageStats `json:"imageGenerationData"`
}

// WordCount is one entry of the prompt word-frequency ranking.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// StatsService computes the dashboard aggregations.
type StatsService interface {
	Summary(ctx context.Context) (*SummaryStats, error)
	ImageGeneration(ctx context.Context) (*ImageGenerationStats, error)
	PromptWords(ctx context.Context) ([]WordCount, error)
}

type statsService struct {
	userRepo    repository.UserRepository
	imageRepo   repository.ImageRepository
	paymentRepo repository.PaymentRepository
	cache       *cache.Client
	cacheTTL    time.Duration
	now         func() time.Time
}

// NewStatsService creates a new stats service. The summary payload is cached
// for cacheTTL since it runs well over a hundred queries per computation.
func NewStatsService(
	userRepo repository.UserRepository,
	imageRepo repository.ImageRepository,
	paymentRepo repository.PaymentRepository,
	cacheClient *cache.Client,
	cacheTTL time.Duration,
) StatsService {
	return &statsService{
		userRepo:    userRepo,
		imageRepo:   imageRepo,
		paymentRepo: paymentRepo,
		cache:       cacheClient,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

// dayMetrics holds the raw per-day query results before series assembly.
type dayMetrics struct {
	users         int64
	generations   int64
	usersToDate   int64
	referrals     int64
	feedbackAvg   float64
	feedbackCount int64
	feedbacks     []model.User
	onlineUsers   int64
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summary computes the dashboard stats. Per-day sub-queries have no ordering
// dependency on each other, so they fan out; series order stays chronological
// because results are written by day index. Any sub-query failure aborts the
// whole computation.
func (s *statsService) Summary(ctx context.Context) (*SummaryStats, error) {
	if data, _ := s.cache.Get(ctx, summaryCacheKey); data != nil {
		var cached SummaryStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		zap.L().Warn("discarding unreadable cached stats summary")
	}

	today := startOfDay(s.now())
	start := today.AddDate(0, 0, -statsWindowDays)

	days := make([]time.Time, 0, statsWindowDays+1)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	daily := make([]dayMetrics, len(days))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsDayConcurrency)
	for i, day := range days {
		i, day := i, day
		g.Go(func() error {
			m, err := s.collectDay(gctx, day)
			if err != nil {
				return fmt.Errorf("stats for %s: %w", day.Format(dateLayout), err)
			}
			daily[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &SummaryStats{
		UsersPerDay:                  make([]DayCount, 0, len(days)),
		RefUsersPerDay:               make([]DayCount, 0, len(days)),
		GenerationsPerDay:            make([]DayGenerations, 0, len(days)),
		FeedbackRatingsPerDay:        make([]DayFeedbackRating, 0, len(days)),
		FeedbackDetailsPerDay:        make([]DayFeedbackDetails, 0, len(days)),
		OnlineUsersPerDay:            make([]DayCount, 0, len(days)),
		AvgImagesPerOnlineUserPerDay: make([]DayAverage, 0, len(days)),
	}

	for i, day := range days {
		date := day.Format(dateLayout)
		m := daily[i]

		stats.UsersPerDay = append(stats.UsersPerDay, DayCount{Date: date, Amount: m.users})
		stats.RefUsersPerDay = append(stats.RefUsersPerDay, DayCount{Date: date, Amount: m.referrals})

		var avgPerUser float64
		if m.usersToDate > 0 {
			avgPerUser = round2(float64(m.generations) / float64(m.usersToDate))
		}
		stats.GenerationsPerDay = append(stats.GenerationsPerDay, DayGenerations{
			Date:       date,
			Amount:     m.generations,
			AvgPerUser: avgPerUser,
		})

		rating := DayFeedbackRating{Date: date, Count: m.feedbackCount}
		if m.feedbackCount > 0 {
			mean := round2(m.feedbackAvg)
			rating.AverageRating = &mean
		}
		stats.FeedbackRatingsPerDay = append(stats.FeedbackRatingsPerDay, rating)

		entries := make([]FeedbackEntry, 0, len(m.feedbacks))
		for _, u := range m.feedbacks {
			entryDate := date
			if u.FeedbackSubmittedTime != nil {
				entryDate = u.FeedbackSubmittedTime.UTC().Format(dateLayout)
			}
			entries = append(entries, FeedbackEntry{
				Date:           entryDate,
				FeedbackRating: u.FeedbackRating,
				Feedback1:      u.Feedback1,
				Feedback2:      u.Feedback2,
			})
		}
		stats.FeedbackDetailsPerDay = append(stats.FeedbackDetailsPerDay, DayFeedbackDetails{
			Date:      date,
			Feedbacks: entries,
		})

		stats.OnlineUsersPerDay = append(stats.OnlineUsersPerDay, DayCount{Date: date, Amount: m.onlineUsers})

		var avgPerOnline float64
		if m.onlineUsers > 0 {
			avgPerOnline = round2(float64(m.generations) / float64(m.onlineUsers))
		}
		stats.AvgImagesPerOnlineUserPerDay = append(stats.AvgImagesPerOnlineUserPerDay, DayAverage{
			Date:    date,
			Average: avgPerOnline,
		})
	}

	if err := s.collectTotals(ctx, stats); err != nil {
		return nil, err
	}
	if err := s.collectPaymentTotals(ctx, today, stats); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, summaryCacheKey, data, s.cacheTTL)
	}

	return stats, nil
}

func (s *statsService) collectDay(ctx context.Context, day time.Time) (dayMetrics, error) {
	next := day.AddDate(0, 0, 1)
	var m dayMetrics
	var err error

	if m.users, err = s.userRepo.CountCreatedBetween(ctx, day, next); err != nil {
		return m, fmt.Errorf("count users: %w", err)
	}
	if m.generations, err = s.imageRepo.CountCreatedBetween(ctx, day, next); err != nil {
		return m, fmt.Errorf("count generations: %w", err)
	}
	if m.usersToDate, err = s.userRepo.CountCreatedBefore(ctx, next); err != nil {
		return m, fmt.Errorf("count users to date: %w", err)
	}
	if m.referrals, err = s.userRepo.CountReferredBetween(ctx, day, next); err != nil {
		return m, fmt.Errorf("count referrals: %w", err)
	}

	fb, err := s.userRepo.FeedbackStats(ctx, &day, &next)
	if err != nil {
		return m, fmt.Errorf("feedback stats: %w", err)
	}
	m.feedbackAvg = fb.AverageRating
	m.feedbackCount = fb.Count

	if m.feedbacks, err = s.userRepo.FeedbackBetween(ctx, day, next); err != nil {
		return m, fmt.Errorf("feedback details: %w", err)
	}
	if m.onlineUsers, err = s.imageRepo.CountDistinctUsersBetween(ctx, day, next); err != nil {
		return m, fmt.Errorf("count online users: %w", err)
	}
	return m, nil
}

func (s *statsService) collectTotals(ctx context.Context, stats *SummaryStats) error {
	var err error

	if stats.TotalUsers, err = s.userRepo.CountTotal(ctx); err != nil {
		return fmt.Errorf("count total users: %w", err)
	}
	if stats.TotalGenerations, err = s.imageRepo.CountTotal(ctx); err != nil {
		return fmt.Errorf("count total generations: %w", err)
	}
	if stats.RefUsers, err = s.userRepo.CountReferred(ctx); err != nil {
		return fmt.Errorf("count referred users: %w", err)
	}

	// Zero users means zero average, never NaN or Inf.
	if stats.TotalUsers > 0 {
		stats.AvgGenerationsPerUser = round2(float64(stats.TotalGenerations) / float64(stats.TotalUsers))
	}

	fb, err := s.userRepo.FeedbackStats(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("overall feedback stats: %w", err)
	}
	stats.FeedbackCount = fb.Count
	if fb.Count > 0 {
		mean := round2(fb.AverageRating)
		stats.AvgFeedbackRating = &mean
	}
	return nil
}

func (s *statsService) collectPaymentTotals(ctx context.Context, today time.Time, stats *SummaryStats) error {
	tomorrow := today.AddDate(0, 0, 1)
	var err error

	if stats.ProSubscriptionsCount, err = s.paymentRepo.CompletedCountBySubscriptionType(ctx, model.SubscriptionPro); err != nil {
		return fmt.Errorf("count pro subscriptions: %w", err)
	}
	if stats.MaxSubscriptionsCount, err = s.paymentRepo.CompletedCountBySubscriptionType(ctx, model.SubscriptionMax); err != nil {
		return fmt.Errorf("count max subscriptions: %w", err)
	}
	if stats.MonthlySubscriptionsCount, err = s.paymentRepo.CompletedCountByAnnual(ctx, false); err != nil {
		return fmt.Errorf("count monthly subscriptions: %w", err)
	}
	if stats.AnnualSubscriptionsCount, err = s.paymentRepo.CompletedCountByAnnual(ctx, true); err != nil {
		return fmt.Errorf("count annual subscriptions: %w", err)
	}
	if stats.CurrentSubscriptionsCount, err = s.paymentRepo.CompletedCountActiveAt(ctx, s.now()); err != nil {
		return fmt.Errorf("count current subscriptions: %w", err)
	}
	if stats.TodayNewPurchasesCount, err = s.paymentRepo.CompletedCountCreatedBetween(ctx, today, tomorrow); err != nil {
		return fmt.Errorf("count today purchases: %w", err)
	}

	byMethod, err := s.paymentRepo.CompletedCountByMethod(ctx)
	if err != nil {
		return fmt.Errorf("count payments by method: %w", err)
	}
	for _, mc := range byMethod {
		switch mc.Method {
		case model.PaymentMethodNoda:
			stats.NodaPaymentCount = mc.Count
		case model.PaymentMethodCrypto:
			stats.CryptoPaymentCount = mc.Count
		case model.PaymentMethodBasicCard:
			stats.BasicCardPaymentCount = mc.Count
		}
	}

	if stats.TodayCompletedPaymentsTotal, err = s.paymentRepo.CompletedAmountSum(ctx, &today, &tomorrow); err != nil {
		return fmt.Errorf("sum today payments: %w", err)
	}
	if stats.AllTimeCompletedPaymentsTotal, err = s.paymentRepo.CompletedAmountSum(ctx, nil, nil); err != nil {
		return fmt.Errorf("sum all payments: %w", err)
	}
	return nil
}

// ImageGeneration builds the per-day generation timing series over the same
// trailing window, tagging each image with its owner's current tier. Owners
// are fetched in one batch; a deleted owner leaves the tier empty.
func (s *statsService) ImageGeneration(ctx context.Context) (*ImageGenerationStats, error) {
	totalImages, err := s.imageRepo.CountTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("count images: %w", err)
	}

	today := startOfDay(s.now())
	start := today.AddDate(0, 0, -statsWindowDays)
	end := today.AddDate(0, 0, 1)

	images, err := s.imageRepo.ListCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	seen := make(map[uuid.UUID]struct{})
	ownerIDs := make([]uuid.UUID, 0)
	for _, img := range images {
		if _, ok := seen[img.UserID]; !ok {
			seen[img.UserID] = struct{}{}
			ownerIDs = append(ownerIDs, img.UserID)
		}
	}

	owners, err := s.userRepo.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("find image owners: %w", err)
	}
	tierByOwner := make(map[uuid.UUID]string, len(owners))
	for _, u := range owners {
		tierByOwner[u.ID] = u.Subscription
	}

	// Input is sorted ascending, so first appearance order is chronological.
	byDate := make(map[string]*DayImageStats)
	order := make([]string, 0)
	for _, img := range images {
		date := img.CreatedAt.UTC().Format(dateLayout)
		day, ok := byDate[date]
		if !ok {
			day = &DayImageStats{Date: date, ImageTimeData: []ImageTimePoint{}}
			byDate[date] = day
			order = append(order, date)
		}
		day.DayImageCount++
		day.ImageTimeData = append(day.ImageTimeData, ImageTimePoint{
			TimeGeneratedAt:  img.CreatedAt,
			TimeGeneration:   img.GenerationSeconds(),
			SubscriptionType: tierByOwner[img.UserID],
		})
	}

	data := make([]DayImageStats, 0, len(order))
	for _, date := range order {
		data = append(data, *byDate[date])
	}

	return &ImageGenerationStats{
		TotalImages:         totalImages,
		ImageGenerationData: data,
	}, nil
}

// Seed fills the local database with a synthetic month of users, images and
// payments so the dashboards have something to show.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pixadmin/internal/config"
	"pixadmin/internal/db"
	"pixadmin/internal/model"
	"pixadmin/internal/repository"
)

const (
	userCount        = 400
	maxImagesPerUser = 15
	maxPaymentsPer   = 3
)

var galleryCategories = []string{"portrait", "landscape", "fantasy", "anime", "abstract"}

func main() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
	defer func() { _ = zap.L().Sync() }()

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zap.L().Fatal("database init", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.Image{}, &model.Payment{}); err != nil {
		zap.L().Fatal("auto-migrate", zap.Error(err))
	}

	gofakeit.Seed(0)

	userRepo := repository.NewUserRepository(gormDB)
	imageRepo := repository.NewImageRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)

	ctx := context.Background()
	now := time.Now().UTC()

	var users, images, payments int
	for i := 0; i < userCount; i++ {
		user := makeUser(i, now)
		if err := userRepo.Create(ctx, user); err != nil {
			zap.L().Fatal("create user", zap.Error(err))
		}
		users++

		for j := 0; j < gofakeit.Number(0, maxImagesPerUser); j++ {
			if err := imageRepo.Create(ctx, makeImage(user, now)); err != nil {
				zap.L().Fatal("create image", zap.Error(err))
			}
			images++
		}

		if user.Subscription == model.SubscriptionFree {
			continue
		}
		for j := 0; j < gofakeit.Number(1, maxPaymentsPer); j++ {
			payment := makePayment(user, now)
			if err := paymentRepo.Create(ctx, payment); err != nil {
				zap.L().Fatal("create payment", zap.Error(err))
			}
			payments++

			if model.IsCompleted(payment.State) {
				id := payment.ID.String()
				user.SubscriptionID = &id
				user.SubscriptionEndDate = payment.EndDate
			}
		}
		if user.SubscriptionID != nil {
			if err := userRepo.Save(ctx, user); err != nil {
				zap.L().Fatal("link subscription", zap.Error(err))
			}
		}
	}

	zap.L().Info("seed completed",
		zap.Int("users", users),
		zap.Int("images", images),
		zap.Int("payments", payments),
	)
}

func makeUser(i int, now time.Time) *model.User {
	createdAt := now.AddDate(0, 0, -gofakeit.Number(0, 60)).
		Add(-time.Duration(gofakeit.Number(0, 23)) * time.Hour)
	credits := int64(gofakeit.Number(0, 500))

	user := &model.User{
		Email:        fmt.Sprintf("%d.%s", i, gofakeit.Email()),
		Name:         gofakeit.Name(),
		Subscription: randomTier(),
		Credits:      &credits,
		ReferralCode: gofakeit.LetterN(16),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	if gofakeit.Number(1, 100) <= 30 {
		code := gofakeit.LetterN(16)
		user.ReferredBy = &code
		user.ReferredByTime = &createdAt
	}

	if gofakeit.Number(1, 100) <= 20 {
		submitted := createdAt.AddDate(0, 0, gofakeit.Number(0, 5))
		if submitted.After(now) {
			submitted = now
		}
		rating := gofakeit.Number(1, 5)
		user.FeedbackSubmitted = true
		user.FeedbackSubmittedTime = &submitted
		user.FeedbackRating = &rating
		user.Feedback1 = gofakeit.Sentence(8)
		user.Feedback2 = gofakeit.Sentence(6)
	}

	return user
}

func makeImage(user *model.User, now time.Time) *model.Image {
	createdAt := now.AddDate(0, 0, -gofakeit.Number(0, 30)).
		Add(-time.Duration(gofakeit.Number(0, 23)) * time.Hour)
	if createdAt.Before(user.CreatedAt) {
		createdAt = user.CreatedAt
	}

	image := &model.Image{
		UserID:       user.ID,
		Prompt:       gofakeit.Sentence(10),
		TypeGen:      model.TypeGenTxt2Img,
		FacelockType: model.FacelockTypeNone,
		ResultURL:    gofakeit.URL(),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt.Add(time.Duration(gofakeit.Number(5, 90)) * time.Second),
	}

	// A slice of other generation kinds so the listing filters have
	// something to exclude.
	if gofakeit.Number(1, 100) <= 15 {
		image.TypeGen = "img2img"
	}
	if gofakeit.Number(1, 100) <= 10 {
		image.FacelockType = "face"
	}
	if image.TypeGen == model.TypeGenTxt2Img && gofakeit.Number(1, 100) <= 5 {
		image.SharedGallery = true
		image.Category = gofakeit.RandomString(galleryCategories)
		image.GalleryImageLikes = gofakeit.Number(0, 200)
	}

	return image
}

func makePayment(user *model.User, now time.Time) *model.Payment {
	createdAt := now.AddDate(0, 0, -gofakeit.Number(0, 45)).
		Add(-time.Duration(gofakeit.Number(0, 23)) * time.Hour)
	if createdAt.Before(user.CreatedAt) {
		createdAt = user.CreatedAt
	}

	// Mixed casing on purpose: the live payment webhook writes both.
	state := gofakeit.RandomString([]string{
		model.PaymentStateCompletedUpper,
		model.PaymentStateCompletedLower,
		"PENDING",
		"FAILED",
	})

	subscriptionType := user.Subscription
	annual := gofakeit.Number(1, 100) <= 25

	payment := &model.Payment{
		UserID: user.ID,
		PaymentMethod: gofakeit.RandomString([]string{
			model.PaymentMethodNoda,
			model.PaymentMethodCrypto,
			model.PaymentMethodBasicCard,
		}),
		State:            state,
		Amount:           decimal.NewFromFloat(gofakeit.Price(5, 120)),
		Currency:         gofakeit.RandomString([]string{"USD", "EUR"}),
		Annual:           annual,
		SubscriptionType: &subscriptionType,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}

	if model.IsCompleted(state) {
		end := createdAt.AddDate(0, 1, 0)
		if annual {
			end = createdAt.AddDate(1, 0, 0)
		}
		payment.EndDate = &end
	}

	return payment
}

func randomTier() string {
	n := gofakeit.Number(1, 100)
	switch {
	case n <= 70:
		return model.SubscriptionFree
	case n <= 90:
		return model.SubscriptionPro
	default:
		return model.SubscriptionMax
	}
}

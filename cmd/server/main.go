package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/driftdock/marina-api/internal/config"
	"github.com/driftdock/marina-api/internal/database"
	"github.com/driftdock/marina-api/internal/handler"
	"github.com/driftdock/marina-api/internal/mailer"
	"github.com/driftdock/marina-api/internal/queue"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/router"
	"github.com/driftdock/marina-api/internal/service"
)

func main() {
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	cfg := config.Load()
	if cfg.Env == "dev" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	db, err := database.Open(database.Config{
		User: cfg.DBUser, Pass: cfg.DBPass,
		Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		logrus.WithError(err).Fatal("schema migration failed")
	}
	if err := database.SeedSplitRules(ctx, db); err != nil {
		logrus.WithError(err).Fatal("split rule seeding failed")
	}

	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	merchantRepo := repository.NewMerchantRepo(db)
	crewRepo := repository.NewCrewRepo(db)
	boatRepo := repository.NewBoatRepo(db)
	productRepo := repository.NewProductRepo(db)
	cartRepo := repository.NewCartRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	splitRepo := repository.NewSplitRepo(db)
	notifRepo := repository.NewNotificationRepo(db)
	reviewRepo := repository.NewReviewRepo(db)

	pub := queue.NewPublisher(cfg.AMQPURL)
	mail := mailer.New(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFromName, cfg.MailFromAddr)
	notifier := service.NewNotifier(notifRepo, userRepo, pub, mail)
	settler := service.NewSettler(splitRepo, bookingRepo, orderRepo)

	bookingSvc := &service.BookingService{
		DB:         db,
		Boats:      boatRepo,
		Bookings:   bookingRepo,
		Crews:      crewRepo,
		Notifier:   notifier,
		Settler:    settler,
		PendingTTL: cfg.PendingTTL,
	}
	orderSvc := &service.OrderService{
		DB:       db,
		Products: productRepo,
		Orders:   orderRepo,
		Cart:     cartRepo,
		Notifier: notifier,
		Settler:  settler,
	}
	onboardingSvc := &service.OnboardingService{
		DB:        db,
		Users:     userRepo,
		Merchants: merchantRepo,
		Crews:     crewRepo,
		Notifier:  notifier,
	}
	reviewSvc := &service.ReviewService{
		DB:       db,
		Bookings: bookingRepo,
		Orders:   orderRepo,
		Reviews:  reviewRepo,
		Crews:    crewRepo,
	}

	go queue.StartLifecycleConsumer(cfg.AMQPURL)
	go bookingSvc.RunSweep(ctx, cfg.SweepInterval)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, rdb, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Merchant:     &handler.MerchantHandler{Merchants: merchantRepo, Onboarding: onboardingSvc},
		Crew:         &handler.CrewHandler{Crews: crewRepo, Merchants: merchantRepo, Reviews: reviewRepo, Onboarding: onboardingSvc},
		Boat:         &handler.BoatHandler{Boats: boatRepo},
		Product:      &handler.ProductHandler{Products: productRepo},
		Cart:         &handler.CartHandler{Cart: cartRepo, Products: productRepo},
		Booking:      &handler.BookingHandler{Bookings: bookingRepo, Svc: bookingSvc},
		Order:        &handler.OrderHandler{Orders: orderRepo, Svc: orderSvc},
		Split:        &handler.SplitHandler{Splits: splitRepo, Settler: settler},
		Notification: &handler.NotificationHandler{Inbox: notifRepo},
		Review:       &handler.ReviewHandler{Reviews: reviewRepo, Svc: reviewSvc},
	})

	logrus.WithField("port", cfg.Port).Info("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/conformitia/conformitia-api/internal/application/auth"
	"github.com/conformitia/conformitia-api/internal/application/entitlement"
	apppayment "github.com/conformitia/conformitia-api/internal/application/payment"
	"github.com/conformitia/conformitia-api/internal/application/usecase"
	infraai "github.com/conformitia/conformitia-api/internal/infrastructure/ai"
	inframail "github.com/conformitia/conformitia-api/internal/infrastructure/mail"
	infrapayment "github.com/conformitia/conformitia-api/internal/infrastructure/payment"
	"github.com/conformitia/conformitia-api/internal/infrastructure/postgres"
	infrasession "github.com/conformitia/conformitia-api/internal/infrastructure/session"
	httpRouter "github.com/conformitia/conformitia-api/internal/interfaces/http"
	"github.com/conformitia/conformitia-api/pkg/config"
	"github.com/conformitia/conformitia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("charger la configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	redisClient, err := infrasession.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à Redis")
	}
	defer redisClient.Close()

	// Adaptateurs de persistance
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Adaptateurs externes
	sessionStore := infrasession.NewRedisStore(redisClient, cfg.Session.IdleTimeout)
	mailer, err := inframail.NewSMTPMailer(cfg.Mail)
	if err != nil {
		log.Fatal().Err(err).Msg("client SMTP")
	}
	gateway := infrapayment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	geminiSvc := infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)

	// Cas d'usage
	entitlements := entitlement.NewService(subscriptionRepo, planRepo, userRepo)
	authUC := auth.NewUseCase(userRepo, companyRepo, sessionStore, mailer, auth.Config{
		BaseURL:           cfg.App.BaseURL,
		ResetSecret:       cfg.Auth.ResetSecret,
		ResetExpMinutes:   cfg.Auth.ResetExpiration,
		VerifyTokenExpiry: time.Duration(cfg.Auth.VerifyTokenExpiry) * time.Hour,
	})
	adminUC := usecase.NewAdminUseCase(companyRepo, userRepo, subscriptionRepo, notificationRepo, mailer)
	companyUC := usecase.NewCompanyUseCase(companyRepo, userRepo, entitlements, mailer,
		cfg.App.BaseURL, time.Duration(cfg.Auth.VerifyTokenExpiry)*time.Hour)
	planUC := usecase.NewPlanUseCase(planRepo)
	notificationUC := usecase.NewNotificationUseCase(notificationRepo)
	aiUC := usecase.NewAIUseCase(geminiSvc)
	statisticsUC := usecase.NewStatisticsUseCase(companyRepo, userRepo, subscriptionRepo, paymentRepo, entitlements)
	paymentUC := apppayment.NewUseCase(planRepo, subscriptionRepo, paymentRepo, entitlements, gateway, txRunner, cfg.App.BaseURL)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local : http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Conformitia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		AdminUC:        adminUC,
		CompanyUC:      companyUC,
		PlanUC:         planUC,
		NotificationUC: notificationUC,
		AIUC:           aiUC,
		StatisticsUC:   statisticsUC,
		PaymentUC:      paymentUC,
		Entitlements:   entitlements,
		Sessions:       sessionStore,
		CookieName:     cfg.Session.CookieName,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP arrêté")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}

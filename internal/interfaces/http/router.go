package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/conformitia/conformitia-api/internal/application/auth"
	"github.com/conformitia/conformitia-api/internal/application/authz"
	"github.com/conformitia/conformitia-api/internal/application/entitlement"
	"github.com/conformitia/conformitia-api/internal/application/payment"
	"github.com/conformitia/conformitia-api/internal/application/ports"
	"github.com/conformitia/conformitia-api/internal/application/usecase"
	"github.com/conformitia/conformitia-api/internal/domain/entity"
)

// RouterDeps dépendances du routeur.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	AdminUC        *usecase.AdminUseCase
	CompanyUC      *usecase.CompanyUseCase
	PlanUC         *usecase.PlanUseCase
	NotificationUC *usecase.NotificationUseCase
	AIUC           *usecase.AIUseCase
	StatisticsUC   *usecase.StatisticsUseCase
	PaymentUC      *payment.UseCase
	Entitlements   *entitlement.Service
	Sessions       ports.SessionStore
	CookieName     string
}

// Router enregistre les routes de l'API. Trois couches de gardes : la
// résolution de session, l'autorisation par groupe de rôles, puis pour les
// fonctionnalités payantes la porte d'entitlements.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC, deps.CookieName)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/verify-email", authHandler.VerifyEmail)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Webhook Stripe : public, authentifié par signature — JAMAIS derrière la
	// session.
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	api.Post("/payments/webhook", paymentHandler.Webhook)

	// Tout le reste exige une session valide.
	sessionMW := SessionMiddleware(deps.Sessions, deps.CookieName)
	protected := api.Group("/", sessionMW)

	protected.Get("/auth/verify", authHandler.Me)

	// Notifications : tout rôle connecté.
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	// Administration : SuperAdmin uniquement.
	adminHandler := NewAdminHandler(deps.AdminUC)
	admin := protected.Group("/admin", RequireGroup(authz.GroupSuperAdmin))
	admin.Get("/dashboard-stats", adminHandler.DashboardStats)
	admin.Get("/pending-companies", adminHandler.PendingCompanies)
	admin.Put("/approve-company/:id", adminHandler.ApproveCompany)
	admin.Put("/reject-company/:id", adminHandler.RejectCompany)
	admin.Get("/companies", adminHandler.ListCompanies)
	admin.Delete("/companies/:id", adminHandler.DeleteCompany)

	// Catalogue de plans : CRUD SuperAdmin, liste publique pour les
	// gestionnaires connectés.
	planHandler := NewPlanHandler(deps.PlanUC)
	aiHandler := NewAIHandler(deps.AIUC)
	plans := protected.Group("/subscription-plans")
	plans.Get("/public", RequireGroup(authz.GroupSubscriptionManager), planHandler.ListActive)
	plans.Post("/suggest-pricing", RequireGroup(authz.GroupSuperAdmin), aiHandler.SuggestPricing)
	plans.Get("/", RequireGroup(authz.GroupSuperAdmin), planHandler.List)
	plans.Post("/", RequireGroup(authz.GroupSuperAdmin), planHandler.Create)
	plans.Get("/:id", RequireGroup(authz.GroupSuperAdmin), planHandler.GetByID)
	plans.Put("/:id", RequireGroup(authz.GroupSuperAdmin), planHandler.Update)
	plans.Delete("/:id", RequireGroup(authz.GroupSuperAdmin), planHandler.Delete)

	// Espace entreprise : gestionnaire d'abonnement uniquement.
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	company := protected.Group("/company", RequireGroup(authz.GroupSubscriptionManager))
	company.Get("/dashboard-info", companyHandler.DashboardInfo)
	company.Get("/users", companyHandler.ListUsers)
	company.Post("/users", companyHandler.CreateUser)
	company.Put("/users/:id", companyHandler.UpdateUser)
	company.Delete("/users/:id", companyHandler.DeleteUser)

	// Abonnement courant : lisible par tout rôle connecté (les tableaux de
	// bord utilisateur l'affichent aussi).
	protected.Get("/payments/company-subscription", paymentHandler.CompanySubscription)

	// Paiements : gestionnaire uniquement (hors webhook, déclaré plus haut).
	payments := protected.Group("/payments", RequireGroup(authz.GroupSubscriptionManager))
	payments.Post("/create-checkout-session", paymentHandler.CreateCheckout)
	payments.Get("/verify-session/:sessionId", paymentHandler.VerifySession)

	// Espace utilisateur : tous les rôles non privilégiés.
	featureHandler := NewFeatureHandler(deps.StatisticsUC, deps.Entitlements)
	user := protected.Group("/user", RequireGroup(authz.GroupUser))
	user.Get("/dashboard-info", featureHandler.UserDashboard)

	// Fonctionnalités payantes : session + porte d'entitlements. Repli vers le
	// tableau de bord entreprise, où l'abonnement se souscrit.
	protected.Get("/statistics/overview",
		RequireFeature(entity.FeatureStatistics, deps.Entitlements, authz.PathCompanyHome),
		featureHandler.StatisticsOverview,
	)
	protected.Get("/texts/advanced",
		RequireFeature(entity.FeatureAdvancedTexts, deps.Entitlements, authz.PathCompanyHome),
		featureHandler.AdvancedTexts,
	)
}

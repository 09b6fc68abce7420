package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lu-foet/notes-api/api/controllers"
	"github.com/lu-foet/notes-api/api/middleware"
	"github.com/lu-foet/notes-api/internal/activations"
	"github.com/lu-foet/notes-api/internal/auth"
	"github.com/lu-foet/notes-api/internal/catalog"
	"github.com/lu-foet/notes-api/internal/paymentlinks"
	"github.com/lu-foet/notes-api/pkg/auth/session"
	"github.com/lu-foet/notes-api/pkg/config"
	"github.com/lu-foet/notes-api/pkg/db"
	"github.com/lu-foet/notes-api/pkg/logger"
	"github.com/lu-foet/notes-api/pkg/redis"
	"github.com/lu-foet/notes-api/pkg/storage/cloudinary"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	blobClient *cloudinary.Client,
	sessions session.AccessSessionChecker,
	authService auth.Service,
	catalogService catalog.Service,
	linkService paymentlinks.Service,
	activationService activations.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient, blobClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(authService, logg))
	})

	r.Route("/api/v1/documents", func(r chi.Router) {
		r.Get("/", controllers.ListDocuments(catalogService, logg))
		r.With(middleware.OptionalAuth(cfg.JWT, sessions, logg)).Get("/{documentId}/download", controllers.DownloadDocument(catalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Post("/payment-links/allocate", controllers.AllocatePaymentLink(linkService, logg))
		r.Post("/activations", controllers.SubmitActivation(activationService, logg))
		r.Get("/me/purchases", controllers.MyPurchases(catalogService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", controllers.ListAllDocuments(catalogService, logg))
			r.Post("/", controllers.UploadDocument(catalogService, cfg.Upload, logg))
			r.Delete("/{documentId}", controllers.DeleteDocument(catalogService, logg))
			r.Patch("/{documentId}/free", controllers.SetDocumentFree(catalogService, logg))
		})

		r.Route("/payment-links", func(r chi.Router) {
			r.Get("/", controllers.ListPaymentLinks(linkService, logg))
			r.Post("/", controllers.CreatePaymentLink(linkService, logg))
			r.Delete("/{linkId}", controllers.DeletePaymentLink(linkService, logg))
		})

		r.Route("/activations", func(r chi.Router) {
			r.Get("/", controllers.ListActivationRequests(activationService, logg))
			r.Post("/{requestId}/approve", controllers.ApproveActivation(activationService, logg))
			r.Post("/{requestId}/reject", controllers.RejectActivation(activationService, logg))
		})
	})

	return r
}

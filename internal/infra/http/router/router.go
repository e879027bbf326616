package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/http/handlers"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
)

type Handlers struct {
	Webhook      *handlers.WebhookHandler
	Lead         *handlers.LeadHandler
	Notification *handlers.NotificationHandler
	Message      *handlers.MessageHandler
	// Places is nil when no Google API key is configured.
	Places *handlers.PlacesHandler
	Health *handlers.HealthHandler
}

type Options struct {
	AllowedOrigins []string
	Auth           *middleware.Authenticator
	WebhookLimiter *middleware.RateLimiter
}

func New(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if opts.WebhookLimiter != nil {
			r.Use(opts.WebhookLimiter.Limit)
		}
		r.Post("/webhooks/manychat", h.Webhook.Handle)
	})

	r.Group(func(r chi.Router) {
		r.Use(opts.Auth.Authenticate)

		r.Route("/leads", func(r chi.Router) {
			r.Post("/", h.Lead.Create)
			r.Get("/unassigned", h.Lead.ListUnassigned)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Lead.Get)
				r.Get("/claim", h.Lead.ClaimPreview)
				r.Post("/claim", h.Lead.Claim)
				r.Post("/lost", h.Lead.MarkLost)
				r.Patch("/status", h.Lead.UpdateStatus)
				r.Post("/notes", h.Lead.AddNote)
				r.Put("/reminder", h.Lead.SetReminder)
				r.With(middleware.RequireRole(entity.RoleAdmin)).Post("/assign", h.Lead.ForceAssign)
			})
		})

		r.Get("/notifications", h.Notification.List)
		r.Post("/notifications/{id}/read", h.Notification.MarkRead)

		r.Post("/messages/whatsapp", h.Message.SendWhatsApp)

		if h.Places != nil {
			r.Get("/places/autocomplete", h.Places.Autocomplete)
			r.Get("/places/details", h.Places.Details)
		}
	})

	return r
}

package app

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/noah-isme/mirror-api/internal/auth"
	"github.com/noah-isme/mirror-api/internal/common"
	"github.com/noah-isme/mirror-api/internal/health"
	"github.com/noah-isme/mirror-api/internal/invoice"
	"github.com/noah-isme/mirror-api/internal/lock"
	"github.com/noah-isme/mirror-api/internal/obs"
	"github.com/noah-isme/mirror-api/internal/ratelimit"
	"github.com/noah-isme/mirror-api/internal/security"
	"github.com/noah-isme/mirror-api/internal/stats"
)

const statsFillWait = 5 * time.Second

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth    *auth.Handler
	Stats   *stats.Handler
	Invoice *invoice.Handler
	Health  health.Handler
}

// Router carries everything NewRouter needs besides the handlers.
type Router struct {
	Deps     *Dependencies
	Verifier auth.Verifier
	Handlers Handlers
	Tracing  bool
}

// NewHandlers builds the endpoint handlers from d.
func NewHandlers(d *Dependencies) Handlers {
	cfg := d.Config
	statsSvc := &stats.Service{
		Source:   d.StatsSource(),
		R:        d.Redis,
		TTL:      cfg.StatsCacheTTL,
		Location: cfg.Location,
	}
	if d.Redis != nil {
		statsSvc.Lock = lock.Locker{R: d.Redis, MaxWait: statsFillWait}
	}
	return Handlers{
		Auth:    &auth.Handler{Signer: d.Supabase, Validate: d.Validator},
		Stats:   &stats.Handler{Svc: statsSvc},
		Invoice: &invoice.Handler{Svc: invoice.NewService(d.OrderSource(), cfg.Location), Renderer: d.Renderer},
		Health:  health.Handler{Probes: d.Probes()},
	}
}

// Handler assembles the middleware chain and the routes.
func (rt Router) Handler() http.Handler {
	d := rt.Deps
	cfg := d.Config
	h := rt.Handlers

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if rt.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if d.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{
		Logger:  d.Logger,
		Quiet:   []string{"/health/live", "/health/ready", "/metrics"},
		Slow:    2 * time.Second,
		Proxies: cfg.TrustedProxies,
	}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(security.Headers{HSTS: hstsAge(cfg.AppEnv), NoStore: true}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
	public := auth.DefaultPublicPaths
	scrapeToken := cfg.Obs.MetricsToken
	if d.HTTPMetrics != nil && scrapeToken != "" {
		public = append(slices.Clone(public), "/metrics")
	}
	r.Use(auth.Middleware{
		Verifier:       rt.Verifier,
		Public:         public,
		PublicPrefixes: auth.DefaultPublicPrefixes,
	}.RequireAuth)

	if d.HTTPMetrics != nil {
		r.Handle("/metrics", obs.MetricsHandler(scrapeToken))
	}
	r.Get("/health/live", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		common.JSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
	})

	loginLimit := ratelimit.Handler{
		Limiter: d.Limiter,
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP("login", cfg.TrustedProxies),
			Window: cfg.LoginRateWindow,
			Max:    cfg.LoginRateLimit,
		},
		OnError: func(err error) { d.Logger.Warn().Err(err).Msg("login rate limiter unavailable") },
	}
	r.With(loginLimit.Middleware).Post("/login", h.Auth.Login)

	r.Get("/stats", h.Stats.Dashboard)
	r.Get("/latest-invoice-number", h.Invoice.LatestInvoiceNumber)
	r.Get("/invoice/{orderId}", h.Invoice.Invoice)
	r.Get("/size-sheet/{orderId}", h.Invoice.SizeSheet)

	return r
}

// hstsAge pins HTTPS for a year in production only; other environments are
// often served from plain localhost.
func hstsAge(env string) time.Duration {
	if env == "production" {
		return 365 * 24 * time.Hour
	}
	return 0
}

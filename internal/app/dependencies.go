// Package app builds the shared dependencies and the HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/mirror-api/internal/auth"
	"github.com/noah-isme/mirror-api/internal/config"
	"github.com/noah-isme/mirror-api/internal/document"
	"github.com/noah-isme/mirror-api/internal/health"
	"github.com/noah-isme/mirror-api/internal/invoice"
	"github.com/noah-isme/mirror-api/internal/obs"
	"github.com/noah-isme/mirror-api/internal/orders"
	"github.com/noah-isme/mirror-api/internal/ratelimit"
	"github.com/noah-isme/mirror-api/internal/resilience"
	"github.com/noah-isme/mirror-api/internal/stats"
	"github.com/noah-isme/mirror-api/internal/supabase"
)

const logoFetchTimeout = 10 * time.Second

// Dependencies enumerates the clients and services shared by the handlers.
// Redis and DB are nil when not configured.
type Dependencies struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Supabase    *supabase.Client
	Redis       *redis.Client
	DB          *sqlx.DB
	Validator   *validator.Validate
	Limiter     ratelimit.Limiter
	Renderer    invoice.Renderer
	HTTPMetrics *obs.HTTPMetrics

	closers []func() error
}

// New connects every configured backend. Optional backends that fail to
// answer a ping are logged and kept, so readiness reports them.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	d := &Dependencies{Config: cfg, Logger: logger, Validator: auth.NewValidator()}

	if cfg.Obs.EnablePrometheus {
		obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, nil)
		resilience.RegisterMetrics(cfg.Obs.MetricsNamespace, nil)
		d.HTTPMetrics = obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, obs.ParseBucketsCSV(cfg.Obs.MetricsBuckets), nil)
	}

	sb, err := supabase.New(supabase.Config{
		URL:         cfg.SupabaseURL,
		AnonKey:     cfg.SupabaseAnonKey,
		Timeout:     cfg.SupabaseTimeout,
		MaxAttempts: cfg.SupabaseMaxAttempts,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	d.Supabase = sb

	if cfg.RedisURL != "" {
		rdb, err := NewRedis(ctx, cfg.RedisURL, cfg.Obs.EnablePrometheus, logger)
		if err != nil {
			return nil, err
		}
		d.Redis = rdb
		d.closers = append(d.closers, rdb.Close)
		d.Limiter = ratelimit.SlidingRedis{Client: rdb, Prefix: "ratelimit:"}
	} else {
		d.Limiter = ratelimit.NewMemory()
	}

	if cfg.DatabaseURL != "" {
		db, err := stats.OpenSQL(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.DB = db
		d.closers = append(d.closers, db.Close)
	}

	logos := document.NewLogoFetcher(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   logoFetchTimeout,
	})
	d.Renderer, err = document.NewRenderer(document.Options{
		Engine:     cfg.RenderEngine,
		ChromePath: cfg.ChromePath,
		Timeout:    cfg.RenderTimeout,
		Logos:      logos,
	})
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// NewRedis parses url and returns an instrumented client.
func NewRedis(ctx context.Context, url string, metrics bool, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metrics {
		if err := redisotel.InstrumentMetrics(rdb); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis not reachable at startup")
	}
	return rdb, nil
}

// Verifier verifies locally when a JWT secret is configured and asks
// Supabase otherwise.
func (d *Dependencies) Verifier() (auth.Verifier, error) {
	if d.Config.SupabaseJWTSecret != "" {
		v, err := auth.NewJWTVerifier(d.Config.SupabaseJWTSecret)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return auth.RemoteVerifier{Users: d.Supabase}, nil
}

// StatsSource prefers direct SQL when DATABASE_URL is set.
func (d *Dependencies) StatsSource() stats.Source {
	if d.DB != nil {
		return stats.SQLSource{DB: d.DB}
	}
	return stats.SupabaseSource{Client: d.Supabase}
}

// OrderSource returns the order reader used by the document endpoints.
func (d *Dependencies) OrderSource() orders.Source {
	return orders.SupabaseSource{Client: d.Supabase}
}

// Probes lists the readiness checks for the configured backends.
func (d *Dependencies) Probes() []health.Probe {
	probes := []health.Probe{{Name: "supabase", Timeout: 2 * time.Second, Check: d.Supabase.Ping}}
	if d.Redis != nil {
		rdb := d.Redis
		probes = append(probes, health.Probe{Name: "redis", Timeout: 300 * time.Millisecond, Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	if d.DB != nil {
		probes = append(probes, health.Probe{Name: "sql", Timeout: 500 * time.Millisecond, Check: d.DB.PingContext})
	}
	return probes
}

// Close releases the connections opened by New.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	return errors.Join(errs...)
}

package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mirror-api/internal/obs"
)

const (
	// RecentLimit caps the recent quotations list.
	RecentLimit = 10
	// MonthsOfHistory is the length of the monthly chart.
	MonthsOfHistory = 12

	fillLockTTL = 30 * time.Second
)

// Locker serialises cache fills across instances.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Period totals for one month.
type Period struct {
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
}

// Changes compares the current month with the previous one.
type Changes struct {
	RevenueChangePercent    float64 `json:"revenue_change_percent"`
	OrderCountChangePercent float64 `json:"order_count_change_percent"`
}

// RecentActivity lists pending quotations of the current month.
type RecentActivity struct {
	PendingQuotationsCount int            `json:"pending_quotations_count"`
	RecentQuotations       []OrderSummary `json:"recent_quotations"`
}

// SystemOverview holds all-time counters.
type SystemOverview struct {
	TotalCustomers  int `json:"total_customers"`
	DeliveredOrders int `json:"delivered_orders"`
}

// MonthPoint is one bar of the monthly chart.
type MonthPoint struct {
	Month      string  `json:"month"`
	MonthKey   string  `json:"month_key"`
	OrderCount int     `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

// Dashboard is the /stats payload.
type Dashboard struct {
	CurrentMonth   Period         `json:"current_month"`
	PreviousMonth  Period         `json:"previous_month"`
	Changes        Changes        `json:"changes"`
	RecentActivity RecentActivity `json:"recent_activity"`
	SystemOverview SystemOverview `json:"system_overview"`
	MonthlyData    []MonthPoint   `json:"monthly_data"`
}

// Service computes dashboard statistics with an optional redis cache.
type Service struct {
	Source Source
	R      *redis.Client
	TTL    time.Duration
	// Lock, when set, lets one instance recompute an expired dashboard while
	// the others wait for the cached result.
	Lock     Locker
	Now      func() time.Time
	Location *time.Location
}

func (s *Service) now() time.Time {
	loc := time.UTC
	if s.Location != nil {
		loc = s.Location
	}
	if s.Now != nil {
		return s.Now().In(loc)
	}
	return time.Now().In(loc)
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

// MonthStart returns midnight on the first day of t's month in t's zone.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Dashboard returns the statistics for the current month.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	if s == nil || s.Source == nil {
		return Dashboard{}, fmt.Errorf("stats service not configured")
	}
	now := s.now()
	current := MonthStart(now)
	key := cacheKey("stats", "dashboard", current.Format("2006-01"))
	if d, ok := s.fromCache(ctx, key); ok {
		return d, nil
	}
	if s.Lock == nil || s.R == nil {
		return s.fill(ctx, key, current)
	}

	var (
		d   Dashboard
		ran bool
	)
	err := s.Lock.WithLock(ctx, key+":lock", fillLockTTL, func(ctx context.Context) error {
		ran = true
		if cached, ok := s.peek(ctx, key); ok {
			d = cached
			return nil
		}
		var err error
		d, err = s.fill(ctx, key, current)
		return err
	})
	if ran {
		return d, err
	}
	zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("stats fill lock unavailable")
	return s.fill(ctx, key, current)
}

func (s *Service) fill(ctx context.Context, key string, current time.Time) (Dashboard, error) {
	// Months run oldest first; the last two are the previous and current month.
	months := make([]MonthPoint, 0, MonthsOfHistory)
	for i := MonthsOfHistory - 1; i >= 0; i-- {
		from := current.AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)
		rows, count, err := s.Source.Orders(ctx, from, to)
		if err != nil {
			return Dashboard{}, err
		}
		months = append(months, MonthPoint{
			Month:      from.Format("January 2006"),
			MonthKey:   from.Format("2006-01"),
			OrderCount: count,
			Revenue:    revenue(rows),
		})
	}
	cur, prev := months[len(months)-1], months[len(months)-2]

	recent, pending, err := s.Source.PendingQuotations(ctx, current, current.AddDate(0, 1, 0), RecentLimit)
	if err != nil {
		return Dashboard{}, err
	}
	if recent == nil {
		recent = []OrderSummary{}
	}
	customers, err := s.Source.CountCustomers(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	delivered, err := s.Source.CountOrdersByStatus(ctx, StatusDelivered)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		CurrentMonth:  Period{TotalOrders: cur.OrderCount, TotalRevenue: cur.Revenue},
		PreviousMonth: Period{TotalOrders: prev.OrderCount, TotalRevenue: prev.Revenue},
		Changes: Changes{
			RevenueChangePercent:    ChangePercent(cur.Revenue, prev.Revenue),
			OrderCountChangePercent: ChangePercent(float64(cur.OrderCount), float64(prev.OrderCount)),
		},
		RecentActivity: RecentActivity{PendingQuotationsCount: pending, RecentQuotations: recent},
		SystemOverview: SystemOverview{TotalCustomers: customers, DeliveredOrders: delivered},
		MonthlyData:    months,
	}
	s.store(ctx, key, d)
	return d, nil
}

// ChangePercent is (cur-prev)/prev*100 rounded to two places, or 0 when prev
// is not positive.
func ChangePercent(cur, prev float64) float64 {
	if prev <= 0 {
		return 0
	}
	return math.Round((cur-prev)/prev*100*100) / 100
}

func revenue(rows []OrderSummary) float64 {
	var total float64
	for _, r := range rows {
		total += r.TotalAmount
	}
	return total
}

func (s *Service) fromCache(ctx context.Context, key string) (Dashboard, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Dashboard{}, false
	}
	d, ok := s.peek(ctx, key)
	if ok {
		obs.CountStatsCache("hit")
	} else {
		obs.CountStatsCache("miss")
	}
	return d, ok
}

func (s *Service) peek(ctx context.Context, key string) (Dashboard, bool) {
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("stats cache read failed")
		}
		return Dashboard{}, false
	}
	var d Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		return Dashboard{}, false
	}
	return d, true
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.R.Set(ctx, key, data, s.TTL).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("stats cache write failed")
	}
}

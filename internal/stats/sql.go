package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mirror-api/internal/obs"
)

// SQLSource reads aggregates straight from Postgres. Orders reference their
// proforma and customer through proforma_id and customer_id.
type SQLSource struct {
	DB *sqlx.DB
}

// OpenSQL connects to dsn through the pgx driver with query tracing enabled.
func OpenSQL(ctx context.Context, dsn string) (*sqlx.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.Tracer = obs.PGXTracer{}
	db := sqlx.NewDb(stdlib.OpenDB(*cfg), "pgx")
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

const summaryColumns = `
	o.id::text AS id,
	COALESCE(NULLIF(c.company_name, ''), NULLIF(c.name, ''), 'Unknown') AS customer_name,
	o.created_at::text AS created_at,
	COALESCE(NULLIF(p.pi_name, ''), 'N/A') AS proforma_number,
	COALESCE(p.grand_total, 0)::float8 AS total_amount`

const summaryFrom = `
	FROM orders o
	LEFT JOIN proforma_invoices p ON p.id = o.proforma_id
	LEFT JOIN customers c ON c.id = o.customer_id`

var (
	ordersQuery = `SELECT` + summaryColumns + summaryFrom + `
	WHERE o.created_at >= $1 AND o.created_at < $2
	ORDER BY o.created_at`

	pendingQuery = `SELECT` + summaryColumns + summaryFrom + `
	WHERE o.created_at >= $1 AND o.created_at < $2 AND o.status = $3
	ORDER BY o.created_at DESC
	LIMIT $4`

	pendingCountQuery = `SELECT count(*) FROM orders o
	WHERE o.created_at >= $1 AND o.created_at < $2 AND o.status = $3`

	customersCountQuery = `SELECT count(*) FROM customers`

	statusCountQuery = `SELECT count(*) FROM orders WHERE status = $1`
)

// Orders lists orders created in the window.
func (s SQLSource) Orders(ctx context.Context, from, to time.Time) ([]OrderSummary, int, error) {
	var rows []OrderSummary
	if err := s.DB.SelectContext(ctx, &rows, ordersQuery, from, to); err != nil {
		return nil, 0, fmt.Errorf("select orders: %w", err)
	}
	return rows, len(rows), nil
}

// PendingQuotations lists the newest pending orders of the window.
func (s SQLSource) PendingQuotations(ctx context.Context, from, to time.Time, limit int) ([]OrderSummary, int, error) {
	var rows []OrderSummary
	if err := s.DB.SelectContext(ctx, &rows, pendingQuery, from, to, StatusPending, limit); err != nil {
		return nil, 0, fmt.Errorf("select pending orders: %w", err)
	}
	var total int
	if err := s.DB.GetContext(ctx, &total, pendingCountQuery, from, to, StatusPending); err != nil {
		return nil, 0, fmt.Errorf("count pending orders: %w", err)
	}
	return rows, total, nil
}

// CountCustomers returns the number of customers.
func (s SQLSource) CountCustomers(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.GetContext(ctx, &n, customersCountQuery); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// CountOrdersByStatus returns the number of orders in status.
func (s SQLSource) CountOrdersByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := s.DB.GetContext(ctx, &n, statusCountQuery, status); err != nil {
		return 0, fmt.Errorf("count %s orders: %w", status, err)
	}
	return n, nil
}

package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/mirror-api/internal/orders"
	"github.com/noah-isme/mirror-api/internal/supabase"
)

// Order statuses counted by the dashboard.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
)

// Display defaults for incomplete orders.
const (
	UnknownCustomer = "Unknown"
	NoProforma      = "N/A"
)

// OrderSummary is the slice of an order the dashboard needs.
type OrderSummary struct {
	ID             string  `json:"order_id" db:"id"`
	CustomerName   string  `json:"customer_name" db:"customer_name"`
	CreatedAt      string  `json:"created_at" db:"created_at"`
	ProformaNumber string  `json:"proforma_number" db:"proforma_number"`
	TotalAmount    float64 `json:"total_amount" db:"total_amount"`
}

// Source reads order aggregates. Windows are [from, to).
type Source interface {
	Orders(ctx context.Context, from, to time.Time) ([]OrderSummary, int, error)
	PendingQuotations(ctx context.Context, from, to time.Time, limit int) ([]OrderSummary, int, error)
	CountCustomers(ctx context.Context) (int, error)
	CountOrdersByStatus(ctx context.Context, status string) (int, error)
}

// SupabaseSource reads aggregates through PostgREST.
type SupabaseSource struct {
	Client *supabase.Client
}

type restOrder struct {
	ID        orders.RecordID `json:"id"`
	CreatedAt string          `json:"created_at"`
	Proforma  *struct {
		PIName     string        `json:"pi_name"`
		GrandTotal orders.Amount `json:"grand_total"`
	} `json:"proforma_invoices"`
	Customer *orders.Customer `json:"customers"`
}

func (o restOrder) summary() OrderSummary {
	s := OrderSummary{
		ID:             string(o.ID),
		CustomerName:   o.Customer.DisplayName(),
		CreatedAt:      o.CreatedAt,
		ProformaNumber: NoProforma,
	}
	if strings.TrimSpace(s.CustomerName) == "" {
		s.CustomerName = UnknownCustomer
	}
	if o.Proforma != nil {
		if o.Proforma.PIName != "" {
			s.ProformaNumber = o.Proforma.PIName
		}
		s.TotalAmount = float64(o.Proforma.GrandTotal)
	}
	return s
}

const orderSummarySelect = "id,created_at,status," +
	orders.TableProformaInvoices + ":" + orders.TableProformaInvoices + "(pi_name,grand_total)," +
	orders.TableCustomers + ":" + orders.TableCustomers + "(name,company_name)"

func timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// Orders lists orders created in the window with the exact total.
func (s SupabaseSource) Orders(ctx context.Context, from, to time.Time) ([]OrderSummary, int, error) {
	return s.list(ctx, s.Client.From(orders.TableOrders).
		Select(orderSummarySelect).
		Gte("created_at", timestamp(from)).
		Lt("created_at", timestamp(to)))
}

// PendingQuotations lists the newest pending orders of the window.
func (s SupabaseSource) PendingQuotations(ctx context.Context, from, to time.Time, limit int) ([]OrderSummary, int, error) {
	return s.list(ctx, s.Client.From(orders.TableOrders).
		Select(orderSummarySelect).
		Gte("created_at", timestamp(from)).
		Lt("created_at", timestamp(to)).
		Eq("status", StatusPending).
		Order("created_at", true).
		Limit(limit))
}

// CountCustomers returns the number of customers.
func (s SupabaseSource) CountCustomers(ctx context.Context) (int, error) {
	return s.count(ctx, s.Client.From(orders.TableCustomers).Select("id").Limit(1))
}

// CountOrdersByStatus returns the number of orders in status.
func (s SupabaseSource) CountOrdersByStatus(ctx context.Context, status string) (int, error) {
	return s.count(ctx, s.Client.From(orders.TableOrders).Select("id").Eq("status", status).Limit(1))
}

func (s SupabaseSource) list(ctx context.Context, q *supabase.Query) ([]OrderSummary, int, error) {
	var rows []restOrder
	total, err := q.Count().Into(ctx, &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	out := make([]OrderSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.summary())
	}
	if total < 0 {
		total = len(out)
	}
	return out, total, nil
}

func (s SupabaseSource) count(ctx context.Context, q *supabase.Query) (int, error) {
	res, err := q.Count().Execute(ctx)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	if res.Count < 0 {
		return 0, nil
	}
	return res.Count, nil
}

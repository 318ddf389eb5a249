package orders_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/orders"
	"github.com/noah-isme/mirror-api/internal/sizing"
	"github.com/noah-isme/mirror-api/internal/supabase"
)

const orderJSON = `[{
	"id": 17,
	"status": "pending",
	"created_at": "2025-07-04T09:15:00.123+00:00",
	"delivery_date": null,
	"proforma_invoices": {
		"id": "a3f1c6de-1111-4c1e-9a00-000000000001",
		"pi_name": "PI-0017",
		"created_at": "2025-07-04T09:15:00.123456+00:00",
		"total_amount": 1000,
		"gst_amount": "180.00",
		"grand_total": 1230,
		"is_gst": true,
		"destination": null,
		"users": {"full_name": "Ravi"},
		"proforma_additional_costs": [{"id": 1, "amount": 50, "cost_type": {"name": "Packing"}}],
		"proforma_items": [{
			"id": 5,
			"products": {"name": "Clear Mirror", "sku": "CM-5"},
			"thickness_master": {"name": "5mm", "value": 5, "multiplier": "1.2"},
			"size_width": "12",
			"size_height": 18,
			"size_width_fraction": "1/2",
			"unit": "inch",
			"quantity": 4,
			"weight": 2.5,
			"rate": 120,
			"rate_type": "per_sq_ft",
			"amount": 600,
			"order_ref": "W-2"
		}]
	},
	"customers": {"name": "Asha", "company_name": "", "address": "12 Main Rd", "shipping_address": null}
}]`

func newSource(t *testing.T, h http.HandlerFunc) orders.SupabaseSource {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client, err := supabase.New(supabase.Config{URL: srv.URL, AnonKey: "anon", MaxAttempts: 1, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return orders.SupabaseSource{Client: client}
}

func TestSupabaseSourceOrder(t *testing.T) {
	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/orders", r.URL.Path)
		require.Equal(t, "eq.17", r.URL.Query().Get("id"))
		sel := r.URL.Query().Get("select")
		require.True(t, strings.HasPrefix(sel, "*,proforma_invoices:proforma_invoices(*,users:users(full_name)"))
		require.Contains(t, sel, "cost_type:additional_costs_master(name)")
		require.Contains(t, sel, "customers:customers(name,company_name,gstin,phone,email,address,mobile,shipping_address)")
		_, _ = io.WriteString(w, orderJSON)
	})

	order, err := src.Order(context.Background(), "17")
	require.NoError(t, err)
	require.Equal(t, orders.RecordID("17"), order.ID)
	require.Equal(t, orders.Amount(180), order.Proforma.GSTAmount)
	require.Equal(t, "Ravi", order.Proforma.User.FullName)
	require.Equal(t, "Packing", order.Proforma.AdditionalCosts[0].Name())
	require.Equal(t, "Asha", order.Customer.DisplayName())
	require.Equal(t, "12 Main Rd", order.Customer.ShipAddress())
	require.Nil(t, order.Proforma.Destination)

	item := order.Proforma.Items[0]
	require.Equal(t, "Clear Mirror", item.ProductName())
	require.Equal(t, "5mm", item.ThicknessName())
	require.Equal(t, 1.2, item.Thickness.Multiplier.Value)

	li := item.LineItem()
	require.Equal(t, sizing.Num(12).Value, li.Width.Value)
	require.Equal(t, "1/2", li.WidthFraction)
	require.Equal(t, "inch", li.Unit)
	require.Equal(t, "W-2", li.OrderRef)
	require.Equal(t, "5", li.ID)
	require.Len(t, order.Proforma.LineItems(), 1)
}

func TestSupabaseSourceOrderNotFound(t *testing.T) {
	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	_, err := src.Order(context.Background(), "99")
	require.ErrorIs(t, err, orders.ErrNotFound)
	require.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestSupabaseSourceCompany(t *testing.T) {
	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/company_master", r.URL.Path)
		require.Equal(t, "eq.1", r.URL.Query().Get("id"))
		require.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[{"id":1,"company_name":"Glass Co","mobile_nos":["98200","98201"],"terms_and_conditions":["Goods once sold"]}]`)
	})
	company, err := src.Company(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Glass Co", company.Name)
	require.Equal(t, "98200, 98201", company.Mobiles())
}

func TestSupabaseSourceCompanyMissing(t *testing.T) {
	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	_, err := src.Company(context.Background())
	require.ErrorIs(t, err, orders.ErrCompanyNotFound)
}

func TestNextInvoiceNumber(t *testing.T) {
	for _, body := range []string{`"INV-42"`, `42`} {
		src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
			var params map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
			require.Equal(t, "2025-26", params["fy_param"])
			_, _ = io.WriteString(w, body)
		})
		number, err := src.NextInvoiceNumber(context.Background(), "2025-26")
		require.NoError(t, err)
		require.Contains(t, []string{"INV-42", "42"}, number)
	}

	src := newSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})
	_, err := src.NextInvoiceNumber(context.Background(), "2025-26")
	require.Error(t, err)
}

func TestValidOrderID(t *testing.T) {
	require.True(t, orders.ValidOrderID("17"))
	require.True(t, orders.ValidOrderID("a3f1c6de-1111-4c1e-9a00-000000000001"))
	require.False(t, orders.ValidOrderID("0"))
	require.False(t, orders.ValidOrderID("-3"))
	require.False(t, orders.ValidOrderID("17;drop"))
	require.False(t, orders.ValidOrderID(""))
}

func TestAmountAcceptsLooseValues(t *testing.T) {
	var got struct {
		A orders.Amount `json:"a"`
		B orders.Amount `json:"b"`
		C orders.Amount `json:"c"`
		D orders.Amount `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12.5, "b": "99.10", "c": null, "d": "n/a"}`), &got))
	require.Equal(t, orders.Amount(12.5), got.A)
	require.Equal(t, orders.Amount(99.10), got.B)
	require.Zero(t, got.C)
	require.Zero(t, got.D)
}

package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/mirror-api/internal/supabase"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCompanyNotFound reports a missing company_master row.
	ErrCompanyNotFound = fmt.Errorf("company details %w", ErrNotFound)
	// ErrOrderNotFound reports a missing order.
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)
)

// CompanyRowID is the company_master row used for document headers.
const CompanyRowID = 1

// Source loads the records documents are assembled from.
type Source interface {
	Company(ctx context.Context) (Company, error)
	Order(ctx context.Context, id string) (Order, error)
	NextInvoiceNumber(ctx context.Context, financialYear string) (string, error)
}

// orderSelect embeds everything an invoice needs in one PostgREST round trip.
var orderSelect = fmt.Sprintf(`*,
	%[1]s:%[1]s(*,
		%[2]s:%[2]s(full_name),
		%[3]s:%[3]s(*,cost_type:%[4]s(name)),
		%[5]s:%[5]s(*,
			%[6]s:%[6]s(name,sku),
			%[7]s:%[7]s(name,value,multiplier))),
	%[8]s:%[8]s(name,company_name,gstin,phone,email,address,mobile,shipping_address)`,
	TableProformaInvoices, TableUsers, TableProformaAdditionalCosts, TableAdditionalCostsMaster,
	TableProformaItems, TableProducts, TableThicknessMaster, TableCustomers)

// SupabaseSource reads records through PostgREST.
type SupabaseSource struct {
	Client *supabase.Client
}

// Company loads the company_master row.
func (s SupabaseSource) Company(ctx context.Context) (Company, error) {
	var rows []Company
	if _, err := s.Client.From(TableCompany).Eq("id", CompanyRowID).Limit(1).Into(ctx, &rows); err != nil {
		return Company{}, fmt.Errorf("load company: %w", err)
	}
	if len(rows) == 0 {
		return Company{}, ErrCompanyNotFound
	}
	return rows[0], nil
}

// Order loads one order with its proforma, items and customer.
func (s SupabaseSource) Order(ctx context.Context, id string) (Order, error) {
	var rows []Order
	if _, err := s.Client.From(TableOrders).Select(orderSelect).Eq("id", id).Into(ctx, &rows); err != nil {
		return Order{}, fmt.Errorf("load order %s: %w", id, err)
	}
	if len(rows) == 0 {
		return Order{}, ErrOrderNotFound
	}
	return rows[0], nil
}

// NextInvoiceNumber allocates the next invoice number of a financial year.
func (s SupabaseSource) NextInvoiceNumber(ctx context.Context, financialYear string) (string, error) {
	var raw json.RawMessage
	if err := s.Client.RPC(ctx, "get_next_invoice_number", map[string]string{"fy_param": financialYear}, &raw); err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	number, err := scalarString(raw)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	if number == "" {
		return "", errors.New("next invoice number: empty result")
	}
	return number, nil
}

// ValidOrderID accepts positive integer keys and UUIDs.
func ValidOrderID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n > 0
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func scalarString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	if string(raw) == "null" {
		return "", nil
	}
	return "", fmt.Errorf("unexpected result %s", string(raw))
}

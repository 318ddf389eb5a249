package orders

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/noah-isme/mirror-api/internal/sizing"
)

// Table names in the managed database.
const (
	TableAdditionalCostsMaster   = "additional_costs_master"
	TableCustomers               = "customers"
	TableOrders                  = "orders"
	TableProducts                = "products"
	TableProformaAdditionalCosts = "proforma_additional_costs"
	TableProformaInvoices        = "proforma_invoices"
	TableProformaItems           = "proforma_items"
	TableThicknessMaster         = "thickness_master"
	TableUsers                   = "users"
	TableCompany                 = "company_master"
)

// RecordID is a primary key that may be stored as a number or a UUID.
type RecordID string

// UnmarshalJSON accepts JSON numbers and strings.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	*id = RecordID(data)
	return nil
}

// Amount is a money column. Numeric strings are accepted and unusable values
// read as zero.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount(sizing.DecodeNumber(data).Value)
	return nil
}

// Company is the single row of company_master printed on every document.
type Company struct {
	ID              RecordID `json:"id"`
	Name            string   `json:"company_name"`
	Logo            string   `json:"logo"`
	Address         string   `json:"address"`
	MobileNos       []string `json:"mobile_nos"`
	Email           string   `json:"email_id"`
	GSTNo           string   `json:"gst_no"`
	PANNo           string   `json:"pan_no"`
	BankAccountName string   `json:"bank_account_name"`
	BankName        string   `json:"bank_name"`
	Branch          string   `json:"branch"`
	BankAccountNo   string   `json:"bank_account_no"`
	IFSC            string   `json:"ifsc_code"`
	Terms           []string `json:"terms_and_conditions"`
}

// Mobiles joins the company phone numbers for display.
func (c Company) Mobiles() string { return strings.Join(c.MobileNos, ", ") }

// Customer is the embedded customers row of an order.
type Customer struct {
	Name            string `json:"name"`
	CompanyName     string `json:"company_name"`
	GSTIN           string `json:"gstin"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	Mobile          string `json:"mobile"`
	ShippingAddress string `json:"shipping_address"`
}

// DisplayName prefers the company name over the contact name.
func (c *Customer) DisplayName() string {
	if c == nil {
		return ""
	}
	if strings.TrimSpace(c.CompanyName) != "" {
		return c.CompanyName
	}
	return c.Name
}

// ShipAddress falls back to the billing address.
func (c *Customer) ShipAddress() string {
	if c == nil {
		return ""
	}
	if strings.TrimSpace(c.ShippingAddress) != "" {
		return c.ShippingAddress
	}
	return c.Address
}

// UserRef is the embedded sales person.
type UserRef struct {
	FullName string `json:"full_name"`
}

// CostType names an additional cost.
type CostType struct {
	Name string `json:"name"`
}

// AdditionalCost is a proforma_additional_costs row.
type AdditionalCost struct {
	ID       RecordID  `json:"id"`
	Amount   Amount    `json:"amount"`
	CostType *CostType `json:"cost_type"`
}

// Name returns the cost type name or an empty string.
func (c AdditionalCost) Name() string {
	if c.CostType == nil {
		return ""
	}
	return c.CostType.Name
}

// Product is the embedded products row of an item.
type Product struct {
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// Thickness is the embedded thickness_master row of an item.
type Thickness struct {
	Name       string        `json:"name"`
	Value      sizing.Number `json:"value"`
	Multiplier sizing.Number `json:"multiplier"`
}

// ProformaItem is one proforma_items row with its embedded lookups.
type ProformaItem struct {
	ID                 RecordID      `json:"id"`
	Product            *Product      `json:"products"`
	Thickness          *Thickness    `json:"thickness_master"`
	SizeWidth          sizing.Number `json:"size_width"`
	SizeHeight         sizing.Number `json:"size_height"`
	SizeWidthFraction  string        `json:"size_width_fraction"`
	SizeHeightFraction string        `json:"size_height_fraction"`
	SizeWidthRounding  sizing.Number `json:"size_width_rounding"`
	SizeHeightRounding sizing.Number `json:"size_height_rounding"`
	Unit               string        `json:"unit"`
	Quantity           sizing.Number `json:"quantity"`
	Weight             sizing.Number `json:"weight"`
	Rate               Amount        `json:"rate"`
	RateType           string        `json:"rate_type"`
	Amount             Amount        `json:"amount"`
	OrderRef           string        `json:"order_ref"`
}

// ProductName returns the product name or an empty string.
func (it ProformaItem) ProductName() string {
	if it.Product == nil {
		return ""
	}
	return it.Product.Name
}

// ThicknessName returns the thickness label or an empty string.
func (it ProformaItem) ThicknessName() string {
	if it.Thickness == nil {
		return ""
	}
	return it.Thickness.Name
}

// LineItem maps the row onto the size calculator input.
func (it ProformaItem) LineItem() sizing.LineItem {
	return sizing.LineItem{
		ID:             string(it.ID),
		Name:           it.ProductName(),
		Width:          it.SizeWidth,
		Height:         it.SizeHeight,
		Unit:           it.Unit,
		WidthFraction:  it.SizeWidthFraction,
		HeightFraction: it.SizeHeightFraction,
		WidthRounding:  it.SizeWidthRounding,
		HeightRounding: it.SizeHeightRounding,
		Quantity:       it.Quantity,
		Weight:         it.Weight,
		OrderRef:       it.OrderRef,
	}
}

// Proforma is the proforma_invoices row of an order.
type Proforma struct {
	ID              RecordID         `json:"id"`
	PIName          string           `json:"pi_name"`
	CreatedAt       string           `json:"created_at"`
	TotalAmount     Amount           `json:"total_amount"`
	GSTAmount       Amount           `json:"gst_amount"`
	GrandTotal      Amount           `json:"grand_total"`
	IsGST           bool             `json:"is_gst"`
	Destination     *string          `json:"destination"`
	TransportInfo   *string          `json:"transport_info"`
	UnloadingInfo   *string          `json:"unloading_info"`
	Remarks         *string          `json:"remarks"`
	User            *UserRef         `json:"users"`
	AdditionalCosts []AdditionalCost `json:"proforma_additional_costs"`
	Items           []ProformaItem   `json:"proforma_items"`
}

// LineItems maps every item onto calculator inputs in stored order.
func (p *Proforma) LineItems() []sizing.LineItem {
	if p == nil {
		return nil
	}
	out := make([]sizing.LineItem, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, it.LineItem())
	}
	return out
}

// Order is an orders row with its proforma and customer embedded.
type Order struct {
	ID           RecordID  `json:"id"`
	Status       string    `json:"status"`
	CreatedAt    string    `json:"created_at"`
	DeliveryDate *string   `json:"delivery_date"`
	Proforma     *Proforma `json:"proforma_invoices"`
	Customer     *Customer `json:"customers"`
}

package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/mirror-api/internal/common"
	"github.com/noah-isme/mirror-api/internal/obs"
	"github.com/noah-isme/mirror-api/internal/orders"
	"github.com/noah-isme/mirror-api/internal/pricing"
	"github.com/noah-isme/mirror-api/internal/sizing"
)

// DefaultSalesPerson is printed when a proforma has no linked user.
const DefaultSalesPerson = "Default"

// Service assembles invoice and size sheet documents from stored orders.
type Service struct {
	Source   orders.Source
	Now      func() time.Time
	Location *time.Location
}

// NewService constructs a Service reading from src.
func NewService(src orders.Source, loc *time.Location) *Service {
	return &Service{Source: src, Now: time.Now, Location: loc}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().In(s.location())
	}
	return time.Now().In(s.location())
}

func (s *Service) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// InvoiceNumber allocates the next invoice number of the current financial year.
func (s *Service) InvoiceNumber(ctx context.Context) (string, error) {
	return s.Source.NextInvoiceNumber(ctx, FinancialYear(s.now()))
}

// Invoice builds the proforma invoice of an order.
func (s *Service) Invoice(ctx context.Context, orderID string) (InvoiceDocument, error) {
	company, order, err := s.load(ctx, orderID)
	if err != nil {
		return InvoiceDocument{}, err
	}
	pi := order.Proforma
	sheet := s.compute(ctx, orderID, pi)

	doc := InvoiceDocument{
		OrderID:      orderID,
		Company:      companyBlock(company),
		Bank:         bankBlock(company),
		Terms:        company.Terms,
		ProformaNo:   pi.PIName,
		SalesPerson:  DefaultSalesPerson,
		PIDate:       FormatDate(pi.CreatedAt, s.location()),
		DeliveryDate: NotAvailable,
		Destination:  orDefault(pi.Destination),
		Transport:    orDefault(pi.TransportInfo),
		Unloading:    orDefault(pi.UnloadingInfo),
		BillTo:       billTo(order.Customer),
		ShipTo:       shipTo(order.Customer),
	}
	if pi.User != nil {
		doc.SalesPerson = pi.User.FullName
	}
	if order.DeliveryDate != nil {
		doc.DeliveryDate = FormatDate(*order.DeliveryDate, s.location())
	}
	if pi.Remarks != nil {
		doc.Remarks = *pi.Remarks
	}

	// Invoices keep the stored item order; the size sheet is the sorted view.
	byIndex := make(map[int]sizing.ComputedLineItem, len(sheet.Items))
	for _, c := range sheet.Items {
		byIndex[c.Index] = c
	}
	doc.Items = make([]InvoiceItem, 0, len(pi.Items))
	for i, it := range pi.Items {
		c := byIndex[i]
		doc.Items = append(doc.Items, InvoiceItem{
			SerialNo:  i + 1,
			Name:      it.ProductName(),
			Thickness: it.ThicknessName(),
			Size:      c.SizeDisplay,
			Unit:      c.UnitName,
			Quantity:  c.Quantity,
			Area:      c.AreaDisplay,
			Weight:    c.WeightDisplay,
			Rate:      pricing.Fixed2(float64(it.Rate)),
			RateType:  pricing.RateTypeLabel(it.RateType),
			Amount:    pricing.Fixed2(float64(it.Amount)),
		})
	}

	costs := make([]pricing.Cost, 0, len(pi.AdditionalCosts))
	lines := make([]CostLine, 0, len(pi.AdditionalCosts))
	for _, c := range pi.AdditionalCosts {
		costs = append(costs, pricing.Cost{Name: c.Name(), Amount: float64(c.Amount)})
		lines = append(lines, CostLine{Name: c.Name(), Amount: pricing.Fixed2(float64(c.Amount))})
	}
	sum := pricing.Compute(pricing.Input{
		BasicTotal:      float64(pi.TotalAmount),
		AdditionalCosts: costs,
		GSTAmount:       float64(pi.GSTAmount),
		IsGST:           pi.IsGST,
		GrandTotal:      float64(pi.GrandTotal),
	})
	doc.Summary = sum
	doc.Totals = Totals{
		Quantity:            sheet.Totals.TotalQuantity,
		Weight:              sheet.Totals.WeightDisplay(),
		Area:                sheet.Totals.AreaDisplay(),
		BasicTotal:          pricing.Fixed2(sum.BasicTotal),
		AdditionalCosts:     lines,
		TotalWithAdditional: pricing.Fixed2(sum.TotalWithAdditional),
		IsGST:               sum.IsGST,
		CGST:                pricing.Fixed2(sum.CGST),
		SGST:                pricing.Fixed2(sum.SGST),
		TotalGST:            pricing.Fixed2(sum.TotalGST),
		GrandTotal:          pricing.Fixed2(sum.GrandTotal),
		GrandTotalINR:       pricing.FormatINR(sum.GrandTotal),
		AmountInWords:       pricing.AmountToWords(sum.GrandTotal),
	}
	return doc, nil
}

// SizeSheet builds the size sheet of an order.
func (s *Service) SizeSheet(ctx context.Context, orderID string) (SizeSheetDocument, error) {
	company, order, err := s.load(ctx, orderID)
	if err != nil {
		return SizeSheetDocument{}, err
	}
	pi := order.Proforma
	sheet := s.compute(ctx, orderID, pi)

	doc := SizeSheetDocument{
		OrderID:    orderID,
		Company:    companyBlock(company),
		Customer:   order.Customer.DisplayName(),
		ProformaNo: pi.PIName,
		Date:       FormatDate(pi.CreatedAt, s.location()),
		Rows: SizeSheetRows(sheet, func(i int) string {
			return pi.Items[i].ThicknessName()
		}),
		Totals:   sheet.Totals,
		Warnings: sheet.Warnings,
	}
	return doc, nil
}

// SizeSheetRows numbers the computed items of sheet in their sorted order.
// thickness receives the item's input index and may be nil.
func SizeSheetRows(sheet sizing.Sheet, thickness func(index int) string) []SizeSheetRow {
	rows := make([]SizeSheetRow, 0, len(sheet.Items))
	for i, c := range sheet.Items {
		row := SizeSheetRow{
			SerialNo: i + 1,
			OrderRef: c.OrderRef,
			Name:     c.Name,
			Size:     c.SizeDisplay,
			Unit:     c.UnitName,
			Quantity: c.Quantity,
			Area:     c.AreaDisplay,
			Weight:   c.WeightDisplay,
		}
		if thickness != nil {
			row.Thickness = thickness(c.Index)
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Service) load(ctx context.Context, orderID string) (orders.Company, orders.Order, error) {
	if !orders.ValidOrderID(orderID) {
		return orders.Company{}, orders.Order{}, common.BadRequest("Invalid order id", nil)
	}
	company, err := s.Source.Company(ctx)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			return orders.Company{}, orders.Order{}, common.NotFound("Company details not found", err)
		}
		return orders.Company{}, orders.Order{}, err
	}
	order, err := s.Source.Order(ctx, orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			return orders.Company{}, orders.Order{}, common.NotFound("Order not found", err)
		}
		return orders.Company{}, orders.Order{}, err
	}
	if order.Proforma == nil {
		return orders.Company{}, orders.Order{}, common.NotFound("Proforma invoice not found",
			fmt.Errorf("order %s has no proforma: %w", orderID, orders.ErrNotFound))
	}
	return company, order, nil
}

func (s *Service) compute(ctx context.Context, orderID string, pi *orders.Proforma) sizing.Sheet {
	sheet := sizing.Compute(pi.LineItems())
	if len(sheet.Warnings) == 0 {
		return sheet
	}
	logger := zerolog.Ctx(ctx)
	for _, w := range sheet.Warnings {
		obs.CountSizingWarning(w.Field)
		logger.Warn().
			Str("order_id", orderID).
			Int("item", w.Index).
			Str("field", w.Field).
			Str("value", w.Value).
			Msg(w.Reason)
	}
	return sheet
}

func companyBlock(c orders.Company) CompanyBlock {
	return CompanyBlock{
		Name:    c.Name,
		LogoURL: c.Logo,
		Address: c.Address,
		Mobile:  c.Mobiles(),
		Email:   c.Email,
		GSTNo:   c.GSTNo,
		PANNo:   c.PANNo,
	}
}

func bankBlock(c orders.Company) BankBlock {
	return BankBlock{
		AccountName: c.BankAccountName,
		BankName:    c.BankName,
		Branch:      c.Branch,
		AccountNo:   c.BankAccountNo,
		IFSC:        c.IFSC,
	}
}

func billTo(c *orders.Customer) Party {
	if c == nil {
		return Party{}
	}
	return Party{Name: c.DisplayName(), Address: c.Address, Phone: c.Phone, Mobile: c.Mobile, GSTIN: c.GSTIN}
}

func shipTo(c *orders.Customer) Party {
	if c == nil {
		return Party{}
	}
	return Party{Name: c.DisplayName(), Address: c.ShipAddress(), Phone: c.Phone, Mobile: c.Mobile}
}

func orDefault(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return NotAvailable
	}
	return *s
}

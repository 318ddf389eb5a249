package document

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/noah-isme/mirror-api/internal/invoice"
)

var (
	grey      = &props.Color{Red: 100, Green: 100, Blue: 100}
	white     = &props.Color{Red: 255, Green: 255, Blue: 255}
	charcoal  = &props.Color{Red: 33, Green: 37, Blue: 41}
	stripe    = &props.Color{Red: 248, Green: 249, Blue: 250}
	summaryBg = &props.Color{Red: 245, Green: 245, Blue: 245}

	labelText  = props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: grey}
	valueText  = props.Text{Size: 8, Align: align.Left}
	boldText   = props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}
	rightLabel = props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	rightValue = props.Text{Size: 8, Align: align.Right}
	headText   = props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: white}
	cellText   = props.Text{Size: 7, Align: align.Center}
	cellLeft   = props.Text{Size: 7, Align: align.Left}
	cellRight  = props.Text{Size: 7, Align: align.Right}
)

// Maroto renders documents natively with maroto. XLSX output is produced
// with excelize.
type Maroto struct {
	Logos *LogoFetcher
}

// InvoicePDF renders a proforma invoice.
func (r *Maroto) InvoicePDF(ctx context.Context, doc invoice.InvoiceDocument) (out []byte, err error) {
	start := time.Now()
	defer func() { observe(KindInvoice, FormatPDF, start, err) }()

	m := maroto.New(pageConfig())
	addCompanyHeader(m, doc.Company, fetchLogo(ctx, r.Logos, doc.Company.LogoURL), "PROFORMA INVOICE")
	addInvoiceMeta(m, doc)
	addParties(m, doc.BillTo, doc.ShipTo)
	addInvoiceItems(m, doc.Items)
	addInvoiceTotals(m, doc.Totals)
	if doc.Remarks != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("REMARKS", labelText))))
		m.AddRows(row.New(7).Add(col.New(12).Add(text.New(doc.Remarks, valueText))))
	}
	addBank(m, doc.Bank)
	addTerms(m, doc.Terms)
	addSignatures(m, doc.Company.Name)

	return generate(m, "invoice")
}

// SizeSheetPDF renders a size sheet.
func (r *Maroto) SizeSheetPDF(ctx context.Context, doc invoice.SizeSheetDocument) (out []byte, err error) {
	start := time.Now()
	defer func() { observe(KindSizeSheet, FormatPDF, start, err) }()

	m := maroto.New(pageConfig())
	addCompanyHeader(m, doc.Company, fetchLogo(ctx, r.Logos, doc.Company.LogoURL), "SIZE SHEET")
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("Customer: "+doc.Customer, boldText)),
			col.New(3).Add(text.New("PI No: "+doc.ProformaNo, rightValue)),
			col.New(3).Add(text.New("Date: "+doc.Date, rightValue)),
		),
		row.New(3),
	)

	head := &props.Cell{BackgroundColor: charcoal}
	m.AddRows(row.New(8).Add(
		col.New(1).Add(text.New("S.No", headText)).WithStyle(head),
		col.New(1).Add(text.New("Ref", headText)).WithStyle(head),
		col.New(3).Add(text.New("Item", headText)).WithStyle(head),
		col.New(3).Add(text.New("Size", headText)).WithStyle(head),
		col.New(1).Add(text.New("Unit", headText)).WithStyle(head),
		col.New(1).Add(text.New("Qty", headText)).WithStyle(head),
		col.New(1).Add(text.New("Sq.Ft", headText)).WithStyle(head),
		col.New(1).Add(text.New("Weight", headText)).WithStyle(head),
	))
	for i, rw := range doc.Rows {
		m.AddRows(striped(i, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(rw.SerialNo), cellText)),
			col.New(1).Add(text.New(rw.OrderRef, cellText)),
			col.New(3).Add(text.New(itemLabel(rw.Name, rw.Thickness), cellLeft)),
			col.New(3).Add(text.New(rw.Size, cellText)),
			col.New(1).Add(text.New(rw.Unit, cellText)),
			col.New(1).Add(text.New(strconv.Itoa(rw.Quantity), cellRight)),
			col.New(1).Add(text.New(rw.Area, cellRight)),
			col.New(1).Add(text.New(rw.Weight, cellRight)),
		)))
	}
	total := &props.Cell{BackgroundColor: summaryBg}
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New("Total", rightLabel)).WithStyle(total),
		col.New(1).Add(text.New(strconv.Itoa(doc.Totals.TotalQuantity), rightLabel)).WithStyle(total),
		col.New(1).Add(text.New(doc.Totals.AreaDisplay(), rightLabel)).WithStyle(total),
		col.New(1).Add(text.New(doc.Totals.WeightDisplay(), rightLabel)).WithStyle(total),
	))

	return generate(m, "size sheet")
}

// SizeSheetXLSX renders a size sheet workbook.
func (r *Maroto) SizeSheetXLSX(ctx context.Context, doc invoice.SizeSheetDocument) ([]byte, error) {
	return SizeSheetXLSX(ctx, doc)
}

func pageConfig() *entity.Config {
	return config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()
}

func generate(m core.Maroto, what string) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate %s pdf: %w", what, err)
	}
	return doc.GetBytes(), nil
}

func addCompanyHeader(m core.Maroto, c invoice.CompanyBlock, logo []byte, title string) {
	titleText := props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right, Color: charcoal}
	nameText := props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Left}
	if logo != nil {
		m.AddRows(row.New(18).Add(
			col.New(2).Add(image.NewFromBytes(logo, extension.Png, props.Rect{Center: true, Percent: 90})),
			col.New(5).Add(text.New(c.Name, nameText)),
			col.New(5).Add(text.New(title, titleText)),
		))
	} else {
		m.AddRows(row.New(10).Add(
			col.New(7).Add(text.New(c.Name, nameText)),
			col.New(5).Add(text.New(title, titleText)),
		))
	}
	m.AddRows(
		row.New(6).Add(col.New(12).Add(text.New(c.Address, props.Text{Size: 8, Color: grey}))),
		row.New(6).Add(
			col.New(6).Add(text.New(fmt.Sprintf("Mobile: %s | Email: %s", c.Mobile, c.Email), props.Text{Size: 8, Color: grey})),
			col.New(6).Add(text.New(fmt.Sprintf("GSTIN: %s | PAN: %s", c.GSTNo, c.PANNo), props.Text{Size: 8, Align: align.Right, Color: grey})),
		),
		row.New(3),
	)
}

func addInvoiceMeta(m core.Maroto, doc invoice.InvoiceDocument) {
	pairs := [][2]string{
		{"PI No", doc.ProformaNo},
		{"PI Date", doc.PIDate},
		{"Sales Person", doc.SalesPerson},
		{"Delivery Date", doc.DeliveryDate},
		{"Destination", doc.Destination},
		{"Transport", doc.Transport},
		{"Unloading", doc.Unloading},
	}
	for i := 0; i < len(pairs); i += 2 {
		r := row.New(6).Add(
			col.New(2).Add(text.New(pairs[i][0], labelText)),
			col.New(4).Add(text.New(pairs[i][1], valueText)),
		)
		if i+1 < len(pairs) {
			r = r.Add(
				col.New(2).Add(text.New(pairs[i+1][0], labelText)),
				col.New(4).Add(text.New(pairs[i+1][1], valueText)),
			)
		}
		m.AddRows(r)
	}
	m.AddRows(row.New(3))
}

func addParties(m core.Maroto, bill, ship invoice.Party) {
	head := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 243, Blue: 239}}
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("BILL TO", labelText)).WithStyle(head),
			col.New(6).Add(text.New("SHIP TO", labelText)).WithStyle(head),
		),
		row.New(7).Add(
			col.New(6).Add(text.New(bill.Name, boldText)),
			col.New(6).Add(text.New(ship.Name, boldText)),
		),
		row.New(10).Add(
			col.New(6).Add(text.New(bill.Address, valueText)),
			col.New(6).Add(text.New(ship.Address, valueText)),
		),
		row.New(6).Add(
			col.New(6).Add(text.New(contact(bill), valueText)),
			col.New(6).Add(text.New(contact(ship), valueText)),
		),
	)
	if bill.GSTIN != "" {
		m.AddRows(row.New(6).Add(col.New(6).Add(text.New("GSTIN: "+bill.GSTIN, valueText))))
	}
	m.AddRows(row.New(3))
}

func addInvoiceItems(m core.Maroto, items []invoice.InvoiceItem) {
	head := &props.Cell{BackgroundColor: charcoal}
	m.AddRows(row.New(8).Add(
		col.New(1).Add(text.New("S.No", headText)).WithStyle(head),
		col.New(3).Add(text.New("Description", headText)).WithStyle(head),
		col.New(2).Add(text.New("Size", headText)).WithStyle(head),
		col.New(1).Add(text.New("Qty", headText)).WithStyle(head),
		col.New(1).Add(text.New("Sq.Ft", headText)).WithStyle(head),
		col.New(1).Add(text.New("Rate", headText)).WithStyle(head),
		col.New(1).Add(text.New("Per", headText)).WithStyle(head),
		col.New(2).Add(text.New("Amount", headText)).WithStyle(head),
	))
	for i, it := range items {
		m.AddRows(striped(i, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(it.SerialNo), cellText)),
			col.New(3).Add(text.New(itemLabel(it.Name, it.Thickness), cellLeft)),
			col.New(2).Add(text.New(it.Size+" "+it.Unit, cellText)),
			col.New(1).Add(text.New(strconv.Itoa(it.Quantity), cellRight)),
			col.New(1).Add(text.New(it.Area, cellRight)),
			col.New(1).Add(text.New(it.Rate, cellRight)),
			col.New(1).Add(text.New(it.RateType, cellText)),
			col.New(2).Add(text.New(it.Amount, cellRight)),
		)))
	}
	m.AddRows(row.New(2))
}

func addInvoiceTotals(m core.Maroto, t invoice.Totals) {
	cell := &props.Cell{BackgroundColor: summaryBg}
	line := func(label, value string) core.Row {
		return row.New(7).Add(
			col.New(9).Add(text.New(label, rightLabel)).WithStyle(cell),
			col.New(3).Add(text.New(value, rightValue)).WithStyle(cell),
		)
	}
	m.AddRows(
		line("Total Qty / Weight", fmt.Sprintf("%d / %s", t.Quantity, t.Weight)),
		line("Basic Total", t.BasicTotal),
	)
	for _, c := range t.AdditionalCosts {
		m.AddRows(line(c.Name, c.Amount))
	}
	m.AddRows(line("Total", t.TotalWithAdditional))
	if t.IsGST {
		m.AddRows(
			line("CGST", t.CGST),
			line("SGST", t.SGST),
			line("Total GST", t.TotalGST),
		)
	}
	grand := &props.Cell{BackgroundColor: charcoal}
	grandText := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: white}
	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("Grand Total", grandText)).WithStyle(grand),
			col.New(3).Add(text.New(t.GrandTotalINR, grandText)).WithStyle(grand),
		),
		row.New(8).Add(col.New(12).Add(text.New("Amount in Words: "+t.AmountInWords,
			props.Text{Size: 8, Style: fontstyle.BoldItalic, Align: align.Left}))),
		row.New(3),
	)
}

func addBank(m core.Maroto, b invoice.BankBlock) {
	fields := [][2]string{
		{"Account Name", b.AccountName},
		{"Bank", b.BankName},
		{"Branch", b.Branch},
		{"Account No", b.AccountNo},
		{"IFSC", b.IFSC},
	}
	m.AddRows(row.New(7).Add(col.New(12).Add(text.New("BANK DETAILS", boldText))))
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		m.AddRows(row.New(6).Add(
			col.New(3).Add(text.New(f[0], labelText)),
			col.New(9).Add(text.New(f[1], valueText)),
		))
	}
	m.AddRows(row.New(3))
}

func addTerms(m core.Maroto, terms []string) {
	if len(terms) == 0 {
		return
	}
	m.AddRows(row.New(7).Add(col.New(12).Add(text.New("TERMS & CONDITIONS", boldText))))
	for i, t := range terms {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New(fmt.Sprintf("%d. %s", i+1, t), valueText))))
	}
	m.AddRows(row.New(3))
}

func addSignatures(m core.Maroto, company string) {
	m.AddRows(
		row.New(18),
		row.New(6).Add(
			col.New(6).Add(text.New("Customer Signature", props.Text{Size: 8, Align: align.Left})),
			col.New(6).Add(text.New("For "+company, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
		),
	)
}

func striped(i int, r core.Row) core.Row {
	if i%2 == 1 {
		return r.WithStyle(&props.Cell{BackgroundColor: stripe})
	}
	return r
}

func itemLabel(name, thickness string) string {
	if thickness == "" {
		return name
	}
	return name + " (" + thickness + ")"
}

func contact(p invoice.Party) string {
	switch {
	case p.Phone != "" && p.Mobile != "":
		return "Ph: " + p.Phone + " | Mob: " + p.Mobile
	case p.Phone != "":
		return "Ph: " + p.Phone
	case p.Mobile != "":
		return "Mob: " + p.Mobile
	}
	return ""
}

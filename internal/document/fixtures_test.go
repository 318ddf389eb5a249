package document_test

import (
	"github.com/noah-isme/mirror-api/internal/invoice"
	"github.com/noah-isme/mirror-api/internal/sizing"
)

func sampleInvoice() invoice.InvoiceDocument {
	return invoice.InvoiceDocument{
		OrderID:      "42",
		Company:      invoice.CompanyBlock{Name: "Acme Glass", Address: "1 Industrial Estate", Mobile: "98, 99", GSTNo: "27ABCDE1234F1Z5"},
		Bank:         invoice.BankBlock{AccountName: "Acme Glass", BankName: "SBI", AccountNo: "0001", IFSC: "SBIN0000001"},
		Terms:        []string{"Goods once sold will not be taken back.", "Subject to local jurisdiction."},
		ProformaNo:   "PI-0042",
		SalesPerson:  "Default",
		PIDate:       "05-07-2025",
		DeliveryDate: "N/A",
		Destination:  "Pune",
		Transport:    "N/A",
		Unloading:    "N/A",
		BillTo:       invoice.Party{Name: "Ravi Traders", Address: "MG Road", Phone: "020-1234", GSTIN: "27XYZ"},
		ShipTo:       invoice.Party{Name: "Ravi Traders", Address: "Warehouse 4"},
		Items: []invoice.InvoiceItem{
			{SerialNo: 1, Name: "Mirror", Thickness: "5mm", Size: "12 1/2 x 18", Unit: "inch", Quantity: 2, Area: "3.75", Weight: "1.50", Rate: "10.00", RateType: "SQFT", Amount: "600.00"},
			{SerialNo: 2, Name: "=HYPERLINK()", Size: "2 x 3", Unit: "feet", Quantity: 1, Area: "6.00", Weight: "2.00", Rate: "20.00", RateType: "SQM", Amount: "400.00"},
		},
		Totals: invoice.Totals{
			Quantity: 3, Weight: "3.50", Area: "9.75", BasicTotal: "1000.00",
			AdditionalCosts:     []invoice.CostLine{{Name: "Packing", Amount: "50.00"}},
			TotalWithAdditional: "1050.00", IsGST: true, CGST: "90.00", SGST: "90.00", TotalGST: "180.00",
			GrandTotal: "1230.00", GrandTotalINR: "₹1,230.00", AmountInWords: "One Thousand Two Hundred and Thirty Rupees Only",
		},
		Remarks: "Handle with care",
	}
}

func sampleSizeSheet() invoice.SizeSheetDocument {
	return invoice.SizeSheetDocument{
		OrderID:    "42",
		Company:    invoice.CompanyBlock{Name: "Acme Glass"},
		Customer:   "Ravi Traders",
		ProformaNo: "PI/2025-26/0042",
		Date:       "05-07-2025",
		Rows: []invoice.SizeSheetRow{
			{SerialNo: 1, OrderRef: "A2", Name: "Glass", Size: "2 x 3", Unit: "feet", Quantity: 1, Area: "6.00", Weight: "2.00"},
			{SerialNo: 2, OrderRef: "A10", Name: "Mirror", Thickness: "5mm", Size: "12 1/2 x 18", Unit: "inch", Quantity: 2, Area: "3.75", Weight: "1.50"},
		},
		Totals: sizing.Aggregate{TotalQuantity: 3, TotalWeight: 3.5, TotalArea: 9.75},
	}
}

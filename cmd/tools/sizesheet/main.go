package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/noah-isme/mirror-api/internal/document"
	"github.com/noah-isme/mirror-api/internal/invoice"
	"github.com/noah-isme/mirror-api/internal/sizing"
)

// sizesheet computes a size sheet offline from a JSON array of line items.
// Exit code 0 = ok, 1 = bad input, 2 = output error.
func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sizesheet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		xlsxPath = fs.String("xlsx", "", "write the size sheet as XLSX to this path instead of printing a table")
		company  = fs.String("company", "", "company name for the XLSX title")
		customer = fs.String("customer", "", "customer name for the XLSX header")
		piNo     = fs.String("pi", "", "proforma number, also used as the sheet name")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: sizesheet [flags] [items.json]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	in := stdin
	if path := fs.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(stderr, "sizesheet: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	var input []inputItem
	if err := json.NewDecoder(in).Decode(&input); err != nil {
		fmt.Fprintf(stderr, "sizesheet: decode items: %v\n", err)
		return 1
	}
	items := make([]sizing.LineItem, len(input))
	for i, it := range input {
		items[i] = it.LineItem
	}
	sheet := sizing.Compute(items)
	doc := sizeSheetDocument(sheet, input, *company, *customer, *piNo, time.Now())

	if *xlsxPath != "" {
		data, err := document.SizeSheetXLSX(context.Background(), doc)
		if err != nil {
			fmt.Fprintf(stderr, "sizesheet: %v\n", err)
			return 2
		}
		if err := os.WriteFile(*xlsxPath, data, 0o644); err != nil {
			fmt.Fprintf(stderr, "sizesheet: %v\n", err)
			return 2
		}
		fmt.Fprintf(stdout, "wrote %s (%d items)\n", *xlsxPath, len(sheet.Items))
	} else if err := printTable(stdout, doc); err != nil {
		fmt.Fprintf(stderr, "sizesheet: %v\n", err)
		return 2
	}

	for _, w := range sheet.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}
	return 0
}

// inputItem is a calculator line item plus the display-only thickness
// the server reads from its own tables.
type inputItem struct {
	sizing.LineItem
	Thickness string `json:"thickness,omitempty"`
}

func sizeSheetDocument(sheet sizing.Sheet, input []inputItem, company, customer, piNo string, now time.Time) invoice.SizeSheetDocument {
	return invoice.SizeSheetDocument{
		Company:    invoice.CompanyBlock{Name: company},
		Customer:   customer,
		ProformaNo: piNo,
		Date:       now.Format(invoice.DateLayout),
		Rows:       invoice.SizeSheetRows(sheet, func(i int) string { return input[i].Thickness }),
		Totals:     sheet.Totals,
		Warnings:   sheet.Warnings,
	}
}

func printTable(w io.Writer, doc invoice.SizeSheetDocument) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tRef\tItem\tThickness\tSize\tUnit\tQty\tSq.Ft\tWeight\t")
	for _, r := range doc.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t\n",
			r.SerialNo, r.OrderRef, r.Name, r.Thickness, r.Size, r.Unit, r.Quantity, r.Area, r.Weight)
	}
	fmt.Fprintf(tw, "\tTotal\t\t\t\t\t%d\t%s\t%s\t\n",
		doc.Totals.TotalQuantity, doc.Totals.AreaDisplay(), doc.Totals.WeightDisplay())
	return tw.Flush()
}

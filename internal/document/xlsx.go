package document

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/mirror-api/internal/invoice"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

var sheetColumns = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}

// SizeSheetXLSX renders a size sheet as a single-sheet workbook.
func SizeSheetXLSX(_ context.Context, doc invoice.SizeSheetDocument) (out []byte, err error) {
	start := time.Now()
	defer func() { observe(KindSizeSheet, FormatXLSX, start, err) }()

	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(doc.ProformaNo)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	last := sheetColumns[len(sheetColumns)-1]
	widths := []float64{6, 10, 32, 12, 24, 8, 8, 12, 12}
	for i, c := range sheetColumns {
		if err := f.SetColWidth(sheet, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	body, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}
	total, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#F5F5F5"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	if err := f.MergeCell(sheet, "A1", last+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	titleText := "Size Sheet"
	if doc.Company.Name != "" {
		titleText = doc.Company.Name + " - Size Sheet"
	}
	f.SetCellValue(sheet, "A1", sanitizeCell(titleText))
	f.SetCellStyle(sheet, "A1", last+"1", title)
	f.SetCellValue(sheet, "A2", "Customer: "+sanitizeCell(doc.Customer))
	f.SetCellValue(sheet, "A3", "PI No: "+sanitizeCell(doc.ProformaNo))
	f.SetCellValue(sheet, "A4", "Date: "+doc.Date)

	headers := []string{"S.No", "Ref", "Item", "Thickness", "Size", "Unit", "Qty", "Sq.Ft", "Weight"}
	for i, h := range headers {
		f.SetCellValue(sheet, sheetColumns[i]+"6", h)
	}
	f.SetCellStyle(sheet, "A6", last+"6", header)

	rowNo := 7
	for _, r := range doc.Rows {
		n := strconv.Itoa(rowNo)
		f.SetCellValue(sheet, "A"+n, r.SerialNo)
		f.SetCellValue(sheet, "B"+n, sanitizeCell(r.OrderRef))
		f.SetCellValue(sheet, "C"+n, sanitizeCell(r.Name))
		f.SetCellValue(sheet, "D"+n, sanitizeCell(r.Thickness))
		f.SetCellValue(sheet, "E"+n, sanitizeCell(r.Size))
		f.SetCellValue(sheet, "F"+n, r.Unit)
		f.SetCellValue(sheet, "G"+n, r.Quantity)
		f.SetCellValue(sheet, "H"+n, r.Area)
		f.SetCellValue(sheet, "I"+n, r.Weight)
		f.SetCellStyle(sheet, "A"+n, last+n, body)
		rowNo++
	}

	n := strconv.Itoa(rowNo)
	f.SetCellValue(sheet, "F"+n, "Total")
	f.SetCellValue(sheet, "G"+n, doc.Totals.TotalQuantity)
	f.SetCellValue(sheet, "H"+n, doc.Totals.AreaDisplay())
	f.SetCellValue(sheet, "I"+n, doc.Totals.WeightDisplay())
	f.SetCellStyle(sheet, "A"+n, last+n, total)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// SheetName derives a valid worksheet name from a proforma number.
func SheetName(proformaNo string) string {
	name := []rune{}
	for _, r := range proformaNo {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			r = '-'
		}
		name = append(name, r)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	if len(name) == 0 {
		return "Size Sheet"
	}
	return string(name)
}

// sanitizeCell keeps user text from being read as a formula.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}

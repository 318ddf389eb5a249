package document_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/mirror-api/internal/document"
)

func TestSizeSheetXLSX(t *testing.T) {
	doc := sampleSizeSheet()
	doc.Rows[0].Name = "=cmd()"

	out, err := document.SizeSheetXLSX(context.Background(), doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	sheet := "PI-2025-26-0042"
	require.Equal(t, []string{sheet}, f.GetSheetList())

	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	require.Equal(t, "Acme Glass - Size Sheet", title)

	head, err := f.GetCellValue(sheet, "H6")
	require.NoError(t, err)
	require.Equal(t, "Sq.Ft", head)

	ref, err := f.GetCellValue(sheet, "B7")
	require.NoError(t, err)
	require.Equal(t, "A2", ref)

	name, err := f.GetCellValue(sheet, "C7")
	require.NoError(t, err)
	require.Equal(t, "'=cmd()", name)

	total, err := f.GetCellValue(sheet, "H9")
	require.NoError(t, err)
	require.Equal(t, "9.75", total)

	qty, err := f.GetCellValue(sheet, "G9")
	require.NoError(t, err)
	require.Equal(t, "3", qty)
}

func TestSheetName(t *testing.T) {
	require.Equal(t, "Size Sheet", document.SheetName(""))
	require.Equal(t, "PI-1", document.SheetName("PI/1"))
	long := strings.Repeat("x", 40)
	require.Len(t, document.SheetName(long), 31)
}

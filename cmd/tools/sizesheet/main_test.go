package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const items = `[
  {"name":"Clear","order_ref":"A10","thickness":"5 mm","width":1000,"height":500,"unit":"millimeter","quantity":2,"weight":12.5},
  {"name":"Tinted","order_ref":"A2","width":12,"height":18,"unit":"inch","width_fraction":"1/2","width_rounding":3,"quantity":1,"weight":"bad"}
]`

func TestRunPrintsTable(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(items), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	require.Less(t, strings.Index(out, "A2"), strings.Index(out, "A10"))
	require.Contains(t, out, "Total")
	require.Contains(t, out, "12 1/2 x 18")
	require.Contains(t, out, "Thickness")
	require.Contains(t, out, "5 mm")
	require.Contains(t, stderr.String(), "warning: item 1: weight")
}

func TestRunWritesXLSX(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(in, []byte(items), 0o600))
	out := filepath.Join(dir, "sheet.xlsx")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-xlsx", out, "-pi", "PI/7", "-company", "Mirror Works", in}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), "wrote "+out)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"PI-7"}, f.GetSheetList())
}

func TestRunRejectsBadInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 1, run(nil, strings.NewReader("{"), &stdout, &stderr))
	require.Contains(t, stderr.String(), "decode items")

	stderr.Reset()
	require.Equal(t, 1, run([]string{filepath.Join(t.TempDir(), "missing.json")}, nil, &stdout, &stderr))
}

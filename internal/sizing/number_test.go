package sizing_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/sizing"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		raw     string
		value   float64
		invalid bool
	}{
		{raw: "", value: 0},
		{raw: "   ", value: 0},
		{raw: " 12.5 ", value: 12.5},
		{raw: "-3", value: -3},
		{raw: "1e3", value: 1000},
		{raw: "abc", invalid: true},
		{raw: "NaN", invalid: true},
		{raw: "Inf", invalid: true},
		{raw: "-Infinity", invalid: true},
		{raw: "1e309", invalid: true},
		{raw: "12,5", invalid: true},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			n := sizing.ParseNumber(tc.raw)
			require.Equal(t, tc.invalid, n.Invalid)
			if tc.invalid {
				require.Equal(t, tc.raw, n.Raw)
				require.Zero(t, n.Value)
				return
			}
			require.Equal(t, tc.value, n.Value)
		})
	}
}

func TestNumberUnmarshalJSONNeverFails(t *testing.T) {
	cases := []struct {
		json    string
		value   float64
		invalid bool
	}{
		{json: `null`, value: 0},
		{json: `""`, value: 0},
		{json: `7`, value: 7},
		{json: `"7.25"`, value: 7.25},
		{json: `"seven"`, invalid: true},
		{json: `"NaN"`, invalid: true},
		{json: `"+Inf"`, invalid: true},
		{json: `1e400`, invalid: true},
		{json: `"1e309"`, invalid: true},
		{json: `true`, invalid: true},
	}
	for _, tc := range cases {
		t.Run(tc.json, func(t *testing.T) {
			var holder struct {
				N sizing.Number `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"n":`+tc.json+`}`), &holder))
			require.Equal(t, tc.invalid, holder.N.Invalid)
			if !tc.invalid {
				require.Equal(t, tc.value, holder.N.Value)
			}
		})
	}
}

func TestNumberMissingFieldIsZero(t *testing.T) {
	var item sizing.LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"width": 2}`), &item))
	require.False(t, item.Height.Invalid)
	require.Zero(t, item.Height.Value)
}

func TestDecodeNumber(t *testing.T) {
	require.Equal(t, sizing.Number{Value: 4.5, Raw: "4.5"}, sizing.DecodeNumber([]byte(` "4.5" `)))
	require.Equal(t, sizing.Number{}, sizing.DecodeNumber([]byte(`null`)))
	require.Equal(t, sizing.Number{}, sizing.DecodeNumber(nil))
	require.True(t, sizing.DecodeNumber([]byte(`"x`)).Invalid)
}

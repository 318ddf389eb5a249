package stats_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/stats"
)

func TestHandlerDashboard(t *testing.T) {
	svc := &stats.Service{Source: newSource(), Now: func() time.Time { return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC) }}
	h := &stats.Handler{Svc: svc}

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success  bool            `json:"success"`
		Messages string          `json:"messages"`
		Result   stats.Dashboard `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "Stats fetched successfully", body.Messages)
	require.Equal(t, 3, body.Result.CurrentMonth.TotalOrders)
	require.Len(t, body.Result.MonthlyData, 12)
}

func TestHandlerDashboardFailure(t *testing.T) {
	src := newSource()
	src.err = errors.New("boom")
	h := &stats.Handler{Svc: &stats.Service{Source: src}}

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), `"messages":"boom"`)
}

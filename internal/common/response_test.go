package common_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/common"
)

func fixClock(t *testing.T) {
	t.Helper()
	prev := common.Now
	common.Now = func() time.Time { return time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { common.Now = prev })
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	fixClock(t)
	rr := httptest.NewRecorder()
	common.Success(rr, http.StatusOK, "Stats fetched successfully", map[string]int{"n": 1})

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	body := decode(t, rr)
	require.Equal(t, true, body["success"])
	require.Equal(t, false, body["error"])
	require.Equal(t, float64(200), body["status"])
	require.Equal(t, "Stats fetched successfully", body["messages"])
	require.Equal(t, "04-07-2025", body["serverdatetime"])
	require.Equal(t, 1.0, body["db_version"])
	require.Equal(t, map[string]any{"n": float64(1)}, body["result"])
	require.NotContains(t, body, "code")
}

func TestFailureEnvelopeDefaultsResult(t *testing.T) {
	fixClock(t)
	rr := httptest.NewRecorder()
	common.Failure(rr, http.StatusUnauthorized, "Access denied", nil)

	body := decode(t, rr)
	require.Equal(t, false, body["success"])
	require.Equal(t, true, body["error"])
	require.Equal(t, map[string]any{}, body["result"])
}

func TestWriteErrorMapsAppError(t *testing.T) {
	fixClock(t)
	rr := httptest.NewRecorder()
	err := fmt.Errorf("load: %w", common.NotFound("Order not found", errors.New("no rows")))
	common.WriteError(rr, err)

	require.Equal(t, http.StatusNotFound, rr.Code)
	body := decode(t, rr)
	require.Equal(t, "NOT_FOUND", body["code"])
	require.Equal(t, "Order not found", body["messages"])

	rr = httptest.NewRecorder()
	common.WriteError(rr, errors.New("upstream exploded"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "upstream exploded", decode(t, rr)["messages"])
}

func TestAppErrorMessageAndCause(t *testing.T) {
	cause := errors.New("no rows")
	err := common.NotFound("Order not found", cause)
	require.Equal(t, "Order not found: no rows", err.Error())
	require.ErrorIs(t, err, cause)
	require.Equal(t, "bad id", common.BadRequest("bad id", nil).Error())
	require.False(t, common.IsAppError(cause))
}

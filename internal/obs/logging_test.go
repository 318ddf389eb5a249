package obs_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/common"
	"github.com/noah-isme/mirror-api/internal/obs"
)

func TestRequestLoggerAttachesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := common.WithUserID(r.Context(), "user-42")
		zerolog.Ctx(ctx).Warn().Str("field", "width").Msg("sizing_warning")
		w.WriteHeader(http.StatusAccepted)
	})
	router := chi.NewRouter()
	router.Use(middleware.RequestID, obs.RequestLogger{Logger: logger}.Middleware)
	router.Get("/invoice/{orderId}", inner)
	handler := http.Handler(router)

	req := httptest.NewRequest(http.MethodGet, "/invoice/7", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusAccepted, rr.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var warn, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &warn))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	require.Equal(t, "sizing_warning", warn["message"])
	require.NotEmpty(t, warn["request_id"])
	require.Equal(t, warn["request_id"], access["request_id"])
	require.Equal(t, "/invoice/{orderId}", access["route"])
	require.Equal(t, float64(http.StatusAccepted), access["status"])
	require.Equal(t, "user-42", access["user_id"])
}

func TestRequestLoggerLevels(t *testing.T) {
	cases := []struct {
		path   string
		status int
		level  string
	}{
		{path: "/stats", status: http.StatusOK, level: "info"},
		{path: "/health/live", status: http.StatusOK, level: "debug"},
		{path: "/health/ready", status: http.StatusServiceUnavailable, level: "error"},
		{path: "/invoice/x", status: http.StatusNotFound, level: "warn"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
			handler := obs.RequestLogger{Logger: logger, Quiet: []string{"/health/live", "/health/ready"}}.Middleware(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(tc.status) }),
			)
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))

			var line map[string]any
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
			require.Equal(t, tc.level, line["level"])
			require.Equal(t, tc.path, line["route"])
			require.NotContains(t, line, "slow")
		})
	}
}
